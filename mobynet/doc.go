/*
Package mobynet locates the network namespace of a Docker container, so that
dnsload can subject a container's DNS resolver to load from inside that
container's network namespace, such as Docker's embedded DNS resolver at
127.0.0.11.
*/
package mobynet
