// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report_test

import (
	"context"
	"sync"
	"time"

	"github.com/siemens/dnsload/metrics"
	"github.com/siemens/dnsload/report"
	"github.com/siemens/dnsload/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

func snapshot(success, timeout, noanswer, exception int64) metrics.Snapshot {
	s := metrics.Snapshot{}
	s.Outcomes[types.Success] = success
	s.Outcomes[types.Timeout] = timeout
	s.Outcomes[types.NoAnswer] = noanswer
	s.Outcomes[types.Exception] = exception
	return s
}

// collector collects emitted reports.
type collector struct {
	mu      sync.Mutex
	reports []report.Report
}

func (c *collector) emit(r report.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
}

func (c *collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

var _ = Describe("reporting", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("derives figures", func() {
		s := snapshot(3, 1, 0, 0)
		s.Scheduled = 8
		s.Executed = 4
		s.InFlight = 2
		s.SumDuration = 40 * time.Millisecond
		s.MinDuration = 2 * time.Millisecond
		s.MinKnown = true
		s.MaxDuration = 30 * time.Millisecond
		r := report.Compute(s)
		Expect(r).To(Equal(report.Report{
			Queued:      8,
			PerSecond:   4,
			InFlight:    2,
			AvgDuration: 5,
			Success:     3,
			Timeout:     1,
			Failed:      1,
			Total:       4,
			SuccessRate: 75,
			MinDuration: 2 * time.Millisecond,
			MaxDuration: 30 * time.Millisecond,
		}))
		Expect(r.Quiet()).To(BeFalse())
	})

	It("counts all failure kinds", func() {
		r := report.Compute(snapshot(1, 1, 2, 3))
		Expect(r.Failed).To(Equal(int64(6)))
		Expect(r.Total).To(Equal(int64(7)))
	})

	It("guards against divisions by zero", func() {
		r := report.Compute(metrics.Snapshot{SumDuration: time.Second})
		Expect(r.SuccessRate).To(BeZero())
		Expect(r.AvgDuration).To(BeZero())
		Expect(r.Quiet()).To(BeTrue())
	})

	It("clamps unknown minimum durations", func() {
		s := snapshot(1, 0, 0, 0)
		s.MinDuration = time.Hour // must be ignored
		Expect(report.Compute(s).MinDuration).To(BeZero())
	})

	It("renders a report line", func() {
		r := report.Report{
			Queued:      1200,
			PerSecond:   100,
			InFlight:    12,
			AvgDuration: 3.4,
			Success:     97,
			Failed:      3,
			Total:       100,
			SuccessRate: 97,
			MinDuration: time.Millisecond,
			MaxDuration: 2999 * time.Millisecond,
		}
		Expect(r.Line()).To(Equal(
			"DNS queries queued: 1200   Queries scheduled per second: 100    In-flight: 12     " +
				"Avg duration: 3    ms, Success: 97   ( 97%) Failed: 3    Min: 1 ms Max: 2999 ms"))
	})

	It("reports non-quiet windows only", func() {
		agg := metrics.New()
		c := &collector{}
		r := report.NewReporter(agg, c.emit)
		_, emitted := r.Report()
		Expect(emitted).To(BeFalse())

		agg.QueryScheduled()
		agg.QueryStarted()
		agg.QueryFinished(types.Result{Outcome: types.Success, Duration: 10 * time.Millisecond})
		rep, emitted := r.Report()
		Expect(emitted).To(BeTrue())
		Expect(rep.Success).To(Equal(int64(1)))
		Expect(rep.AvgDuration).To(Equal(10.0))
		Expect(c.Len()).To(Equal(1))

		// ...the window has been reset.
		_, emitted = r.Report()
		Expect(emitted).To(BeFalse())
	})

	It("reports periodically until cancelled", NodeTimeout(5*time.Second), func(specctx context.Context) {
		agg := metrics.New()
		c := &collector{}
		r := report.NewReporter(agg, c.emit, report.WithInterval(20*time.Millisecond))
		Expect(r.Interval()).To(Equal(20 * time.Millisecond))

		ctx, cancel := context.WithCancel(specctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			r.Run(ctx)
		}()
		for i := 0; i < 3; i++ {
			agg.QueryStarted()
			agg.QueryFinished(types.Result{Outcome: types.Timeout})
			Eventually(c.Len).Should(Equal(i + 1))
		}
		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("ignores invalid intervals", func() {
		Expect(report.NewReporter(nil, nil, report.WithInterval(-1)).Interval()).To(Equal(report.DefaultInterval))
	})

})
