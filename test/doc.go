/*
Package test provides test fixtures shared by the dnsload package tests,
notably an in-process DNS server with a small synthetic zone.
*/
package test
