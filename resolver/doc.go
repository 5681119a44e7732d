/*
Package resolver provides the name resolution capability that dnsload puts
under load. A [Resolver] turns a hostname into its IP addresses, or fails.

  - [System] uses the operating system's stub resolver, so it loads whatever
    DNS infrastructure the host is configured with, including any local
    caching daemon.
  - [Server] sends A and AAAA queries directly to a specific DNS server,
    optionally from inside a different network namespace, such as that of a
    Docker container.

Both signal completed resolutions without any addresses by returning an error
wrapping [ErrNoAnswer], so callers can tell empty answers from failures.

# Acknowledgements

[Server] is implemented in pure Go, leveraging the incredible [miekg/dns]
module.

[miekg/dns]: https://github.com/miekg/dns
*/
package resolver
