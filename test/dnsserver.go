// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	gi "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	s "github.com/thediveo/success"
)

// Well-known names answered by the [Zone] handler.
const (
	GoodName     = "good.example."     // A 127.0.0.1 and AAAA ::1
	V4OnlyName   = "v4only.example."   // A 127.0.0.2 only
	EmptyName    = "empty.example."    // NOERROR, but no answers (NODATA)
	NXName       = "nx.example."       // NXDOMAIN
	ServFailName = "servfail.example." // SERVFAIL
	SlowName     = "slow.example."     // answers only after SlowDelay
)

// SlowDelay is the delay before the [Zone] handler answers queries for
// SlowName.
const SlowDelay = 500 * time.Millisecond

// Zone is a DNS handler for a tiny synthetic test zone; see the xxxName
// constants for the names it knows about.
func Zone(w dns.ResponseWriter, req *dns.Msg) {
	resp := new(dns.Msg)
	resp.SetReply(req)
	q := req.Question[0]
	switch strings.ToLower(q.Name) {
	case GoodName:
		switch q.Qtype {
		case dns.TypeA:
			resp.Answer = append(resp.Answer, rr(q.Name+" 60 IN A 127.0.0.1"))
		case dns.TypeAAAA:
			resp.Answer = append(resp.Answer, rr(q.Name+" 60 IN AAAA ::1"))
		}
	case V4OnlyName:
		if q.Qtype == dns.TypeA {
			resp.Answer = append(resp.Answer, rr(q.Name+" 60 IN A 127.0.0.2"))
		}
	case EmptyName:
	case ServFailName:
		resp.Rcode = dns.RcodeServerFailure
	case SlowName:
		time.Sleep(SlowDelay)
		resp.Answer = append(resp.Answer, rr(q.Name+" 60 IN A 127.0.0.3"))
	default:
		resp.Rcode = dns.RcodeNameError
	}
	_ = w.WriteMsg(resp)
}

func rr(s string) dns.RR {
	r, err := dns.NewRR(s)
	if err != nil {
		panic(err)
	}
	return r
}

// NewDNSServer starts a new UDP DNS server on an ephemeral loopback port,
// serving DNS requests using the specified handler. It returns the server's
// address. The server is automatically shut down when the current spec ends.
func NewDNSServer(handler dns.HandlerFunc) string {
	gi.GinkgoHelper()

	pc := s.Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	return serve(&dns.Server{PacketConn: pc, Handler: handler}, pc.LocalAddr())
}

// NewTCPDNSServer works like [NewDNSServer], but serves DNS over TCP only.
func NewTCPDNSServer(handler dns.HandlerFunc) string {
	gi.GinkgoHelper()

	l := s.Successful(net.Listen("tcp", "127.0.0.1:0"))
	return serve(&dns.Server{Listener: l, Handler: handler}, l.Addr())
}

// serve runs the DNS server until the current spec ends, returning only after
// the server has started.
func serve(srv *dns.Server, addr net.Addr) string {
	gi.GinkgoHelper()

	started := make(chan struct{})
	srv.NotifyStartedFunc = func() { close(started) }
	go func() { _ = srv.ActivateAndServe() }()
	g.Eventually(started).Should(g.BeClosed())
	gi.DeferCleanup(func() { _ = srv.Shutdown() })
	return addr.String()
}
