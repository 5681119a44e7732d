// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"os"
	"time"

	"github.com/siemens/dnsload/test"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/namspill"
)

var _ = Describe("resolving via a specific DNS server", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Expect(Tasks()).To(BeUniformlyNamespaced())
		})
	})

	It("defaults to port 53", func() {
		Expect(NewServer("127.0.0.1").Addr()).To(Equal("127.0.0.1:53"))
		Expect(NewServer("[::1]:5353").Addr()).To(Equal("[::1]:5353"))
	})

	It("resolves A and AAAA", NodeTimeout(10*time.Second), func(ctx context.Context) {
		addr := test.NewDNSServer(test.Zone)
		r := NewServer(addr)
		Expect(r.LookupHost(ctx, test.GoodName)).To(ConsistOf("127.0.0.1", "::1"))
		Expect(r.LookupHost(ctx, "v4only.example")).To(ConsistOf("127.0.0.2"))
	})

	It("resolves over TCP", NodeTimeout(10*time.Second), func(ctx context.Context) {
		addr := test.NewTCPDNSServer(test.Zone)
		r := NewServer(addr, WithNet("tcp"), WithExchangeTimeout(time.Second))
		Expect(r.LookupHost(ctx, test.GoodName)).To(ConsistOf("127.0.0.1", "::1"))
		Expect(r.LookupHost(ctx, test.NXName)).Error().To(MatchError(ErrNoAnswer))
	})

	It("fails using TCP against a UDP-only server", NodeTimeout(10*time.Second), func(ctx context.Context) {
		addr := test.NewDNSServer(test.Zone)
		r := NewServer(addr, WithNet("tcp"), WithExchangeTimeout(time.Second))
		Expect(r.LookupHost(ctx, test.GoodName)).Error().To(HaveOccurred())
	})

	It("reports empty answers", NodeTimeout(10*time.Second), func(ctx context.Context) {
		addr := test.NewDNSServer(test.Zone)
		r := NewServer(addr)
		Expect(r.LookupHost(ctx, test.EmptyName)).Error().To(MatchError(ErrNoAnswer))
		Expect(r.LookupHost(ctx, test.NXName)).Error().To(MatchError(ErrNoAnswer))
	})

	It("reports server failures as errors, but not as empty answers", NodeTimeout(10*time.Second), func(ctx context.Context) {
		addr := test.NewDNSServer(test.Zone)
		r := NewServer(addr)
		_, err := r.LookupHost(ctx, test.ServFailName)
		Expect(err).To(MatchError(ContainSubstring("SERVFAIL")))
		Expect(err).NotTo(MatchError(ErrNoAnswer))
	})

	It("aborts lookups when the context gets cancelled", NodeTimeout(10*time.Second), func(ctx context.Context) {
		addr := test.NewDNSServer(test.Zone)
		r := NewServer(addr)
		ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		start := time.Now()
		Expect(r.LookupHost(ctx, test.SlowName)).Error().To(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", test.SlowDelay))
	})

	It("doesn't query once the context is done", func() {
		addr := test.NewDNSServer(func(w dns.ResponseWriter, req *dns.Msg) {
			defer GinkgoRecover()
			Fail("unexpected DNS query")
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(NewServer(addr).LookupHost(ctx, test.GoodName)).Error().To(HaveOccurred())
	})

	It("resolves from inside a different network namespace", NodeTimeout(10*time.Second), func(ctx context.Context) {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		addr := test.NewDNSServer(test.Zone)
		// Our own network namespace is as good as any other one, as long as
		// namespace switching gets exercised.
		r := NewServer(addr, InNetworkNamespace("/proc/self/ns/net"))
		Expect(r.LookupHost(ctx, test.GoodName)).To(ConsistOf("127.0.0.1", "::1"))
	})

})
