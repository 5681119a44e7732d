// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/siemens/dnsload/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

// safeBuffer is a bytes.Buffer safe for concurrent use.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ = Describe("console sink", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("writes posted messages in order", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.Ascii))
		s.Infof("one %d", 1)
		s.Warnf("two")
		s.Errorf("three")
		s.Status(Success, "four")
		s.Close()
		Expect(out.String()).To(Equal("one 1\ntwo\nthree\nfour\n"))
	})

	It("drains messages in the background", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.Ascii))
		defer s.Close()
		s.Infof("foo")
		Eventually(out.String).Should(Equal("foo\n"))
	})

	It("writes synchronously after closing", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.Ascii))
		s.Close()
		s.Close()
		s.Infof("Shutdown complete.")
		Expect(out.String()).To(Equal("Shutdown complete.\n"))
	})

	It("renders severities in color", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.ANSI))
		s.Warnf("fishy")
		s.Infof("plain")
		s.Close()
		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(ContainSubstring("\x1b["))
		Expect(lines[0]).To(ContainSubstring("fishy"))
		Expect(lines[1]).To(ContainSubstring("plain"))
	})

	It("never interleaves concurrently posted lines", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.Ascii))
		const posters = 10
		const lines = 100
		var wg sync.WaitGroup
		wg.Add(posters)
		for p := 0; p < posters; p++ {
			go func(p int) {
				defer GinkgoRecover()
				defer wg.Done()
				for l := 0; l < lines; l++ {
					s.Infof("poster %d line %d", p, l)
				}
			}(p)
		}
		wg.Wait()
		s.Close()
		written := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		Expect(written).To(HaveLen(posters * lines))
		for _, line := range written {
			var p, l int
			n, err := fmt.Sscanf(line, "poster %d line %d", &p, &l)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
		}
	})

	It("leaves no queue signals behind when closed", func() {
		s := New(io.Discard, WithProfile(termenv.Ascii))
		for i := 0; i < 50; i++ {
			s.Infof("message %d", i)
		}
		s.Close()
		// the leak check when leaving this spec catches any stranded
		// goroutine still trying to signal the closed sink.
		Consistently(Goroutines).WithTimeout(500 * time.Millisecond).ProbeEvery(100 * time.Millisecond).
			ShouldNot(ContainElement(Or(
				HaveField("TopFunction", ContainSubstring("caffix/queue")),
				HaveField("CreatorFunction", ContainSubstring("caffix/queue")))))
	})

	It("updates status lines in place", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.Ascii), WithLiveStatus())
		s.Status(Info, "status 1")
		s.Infof("scrolling by")
		s.Status(Info, "status 2")
		s.Close()
		Expect(out.String()).To(And(
			ContainSubstring("status 1"),
			ContainSubstring("scrolling by"),
			ContainSubstring("status 2")))
	})

	It("logs finished queries", func() {
		var out safeBuffer
		s := New(&out, WithProfile(termenv.Ascii))
		l := NewQueryLog(s)
		l.QueryScheduled()
		l.QueryStarted()
		l.QueryFinished(types.Result{Hostname: "example.org", Outcome: types.Success, Duration: 12 * time.Millisecond})
		l.QueryFinished(types.Result{Hostname: "example.com", Outcome: types.Cancelled})
		l.QueryFinished(types.Result{Hostname: "example.net", Outcome: types.Exception, Err: errors.New("D'OH!")})
		s.Close()
		Expect(out.String()).To(Equal(
			"example.org: success after 12ms\n" +
				"example.net: exception after 0s, D'OH!\n"))
	})

})
