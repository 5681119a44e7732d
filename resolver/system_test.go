// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("resolving via the system resolver", func() {

	It("resolves localhost", NodeTimeout(10*time.Second), func(ctx context.Context) {
		Expect(NewSystem().LookupHost(ctx, "localhost")).NotTo(BeEmpty())
	})

	It("resolves IP address literals", NodeTimeout(10*time.Second), func(ctx context.Context) {
		Expect(NewSystem().LookupHost(ctx, "127.0.0.1")).To(ConsistOf("127.0.0.1"))
	})

	It("adapts functions", func() {
		boom := errors.New("boom")
		r := Func(func(ctx context.Context, host string) ([]string, error) {
			if host == "boom" {
				return nil, boom
			}
			return []string{host}, nil
		})
		Expect(r.LookupHost(context.Background(), "1.2.3.4")).To(ConsistOf("1.2.3.4"))
		Expect(r.LookupHost(context.Background(), "boom")).Error().To(BeIdenticalTo(boom))
	})

	It("maps not-found errors to empty answers", NodeTimeout(10*time.Second), func(ctx context.Context) {
		// The ".invalid" TLD is guaranteed to never resolve (RFC 2606); but
		// without any DNS configuration some systems report other errors.
		_, err := NewSystem().LookupHost(ctx, "nonexisting.invalid")
		Expect(err).To(HaveOccurred())
		var dnserr *net.DNSError
		if errors.As(err, &dnserr) && !dnserr.IsNotFound {
			Skip("system resolver doesn't report not-found: " + err.Error())
		}
		Expect(err).To(MatchError(ErrNoAnswer))
	})

})
