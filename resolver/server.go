// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DefaultExchangeTimeout limits how long a single DNS message exchange might
// take. Lookups are usually bounded much earlier by their contexts.
const DefaultExchangeTimeout = time.Minute

// Server resolves hostnames by sending A and AAAA queries directly to a
// specific DNS server (resolver), bypassing the operating system's stub
// resolver configuration. Each lookup uses its own client connection, so that
// load spreads over source ports just as independent clients would do.
type Server struct {
	addr   string
	client *dns.Client
	netns  relations.Relation // network namespace to dial from, or nil.
}

var _ Resolver = (*Server)(nil)

// ServerOption can be passed to NewServer when creating new [Server] objects.
type ServerOption func(*Server)

// NewServer returns a new [Server] resolver sending its queries to the DNS
// server at the specified address. If the address lacks a port, port 53 is
// assumed. The [Server] uses UDP unless told otherwise using [WithNet].
//
// To send queries from inside a network namespace different to that of the
// OS-level thread of the caller specify the [InNetworkNamespace] option and
// pass it a filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func NewServer(addr string, options ...ServerOption) *Server {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}
	s := &Server{
		addr:   addr,
		client: &dns.Client{
			Net:     "udp",
			Timeout: DefaultExchangeTimeout,
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// InNetworkNamespace optionally dials the DNS client connections inside the
// network namespace referenced by the specified filesystem path. An empty
// reference leaves the Server in the caller's network namespace.
func InNetworkNamespace(netnsref string) ServerOption {
	return func(s *Server) {
		if netnsref == "" {
			return
		}
		s.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithNet sets the transport network, either "udp" or "tcp".
func WithNet(network string) ServerOption {
	return func(s *Server) {
		s.client.Net = network
	}
}

// WithExchangeTimeout sets the maximum duration of a single DNS message
// exchange, overriding [DefaultExchangeTimeout].
func WithExchangeTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.client.Timeout = timeout
	}
}

// Addr returns the address of the DNS server queried.
func (s *Server) Addr() string {
	return s.addr
}

// LookupHost resolves the specified hostname by first querying for A and then
// for AAAA resource records, returning all addresses found. If neither query
// yields any address the returned error wraps [ErrNoAnswer].
//
// When the passed context gets cancelled or reaches its deadline, the client
// connection is closed, aborting any exchange still in progress.
func (s *Server) LookupHost(ctx context.Context, host string) ([]string, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	// The exchange doesn't know about contexts, so we need to monitor the
	// context ourselves while exchanging messages, closing the connection in
	// order to unblock any pending read or write. The done channel here works
	// "the other way round" in that it terminates the context monitoring.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	var addrs []string
	name := dns.Fqdn(host)
	for _, addrType := range []uint16{dns.TypeA, dns.TypeAAAA} {
		// don't try to resolve the name if the context has been cancelled.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg := dns.Msg{}
		msg.SetQuestion(name, addrType)
		r, _, err := s.client.ExchangeWithConn(&msg, conn)
		if err != nil {
			if ctxerr := ctx.Err(); ctxerr != nil {
				return nil, ctxerr
			}
			return nil, err
		}
		switch r.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			// NXDOMAIN applies to all record types, so there's no need to
			// ask for AAAA records anymore.
			return nil, fmt.Errorf("%w: query for %q yields NXDOMAIN", ErrNoAnswer, host)
		default:
			return nil, fmt.Errorf("query for %q failed with %s",
				host, dns.RcodeToString[r.Rcode])
		}
		for _, rr := range r.Answer {
			switch addrRR := rr.(type) {
			case *dns.A:
				addrs = append(addrs, addrRR.A.String())
			case *dns.AAAA:
				addrs = append(addrs, addrRR.AAAA.String())
			}
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: query for %q yields no answers", ErrNoAnswer, host)
	}
	return addrs, nil
}

// dial a new DNS client connection to the DNS server, switching into the
// configured network namespace for dialing if necessary. Once dialed, the
// connection stays in its network namespace regardless of the OS-level thread
// later using it.
func (s *Server) dial(ctx context.Context) (*dns.Conn, error) {
	dial := func() interface{} {
		conn, err := s.client.DialContext(ctx, s.addr)
		if err != nil {
			return err
		}
		return conn
	}
	var res interface{}
	if s.netns != nil {
		var err error
		res, err = ops.Execute(dial, s.netns)
		if err != nil {
			return nil, err
		}
	} else {
		res = dial()
	}
	switch res := res.(type) {
	case *dns.Conn:
		return res, nil
	case error:
		return nil, res
	}
	return nil, fmt.Errorf("cannot dial DNS server %s", s.addr)
}
