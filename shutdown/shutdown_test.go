// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package shutdown

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("shutdown", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("cancels upon the first signal and swallows further ones", func() {
		sigs := make(chan os.Signal)
		var notified atomic.Int32
		ctx, cancel := Watch(context.Background(), sigs, func(os.Signal) { notified.Add(1) })
		defer cancel()
		Consistently(ctx.Done()).WithTimeout(100 * time.Millisecond).ShouldNot(BeClosed())
		sigs <- syscall.SIGINT
		Eventually(ctx.Done()).Should(BeClosed())
		Expect(ctx.Err()).To(MatchError(context.Canceled))
		// must not block as the watcher keeps swallowing signals.
		sigs <- syscall.SIGINT
		sigs <- syscall.SIGINT
		Expect(notified.Load()).To(Equal(int32(1)))
	})

	It("releases its watcher", func() {
		sigs := make(chan os.Signal)
		ctx, cancel := Watch(context.Background(), sigs, nil)
		cancel()
		cancel()
		Expect(ctx.Done()).To(BeClosed())
	})

	It("follows its parent context", func() {
		parent, parentCancel := context.WithCancel(context.Background())
		ctx, cancel := Watch(parent, make(chan os.Signal), nil)
		defer cancel()
		parentCancel()
		Eventually(ctx.Done()).Should(BeClosed())
	})

})
