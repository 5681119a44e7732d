/*
Package probe checks the reachability of a DNS server by pinging it before
subjecting it to load, optionally from within another network namespace.

# Acknowledgements

Pings are sent using [go-ping/ping], and network namespaces are switched using
[thediveo/lxkns].

[go-ping/ping]: https://github.com/go-ping/ping
[thediveo/lxkns]: https://github.com/thediveo/lxkns
*/
package probe
