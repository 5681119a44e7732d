// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"time"

	"github.com/siemens/dnsload/types"

	"github.com/thediveo/lxkns/log"
	"golang.org/x/time/rate"
)

// Defaults for the dispatch cadence.
const (
	DefaultConcurrency = 1
	DefaultInterval    = time.Second
)

// inFlightWarnEvery limits how often warnings about too many queries in flight
// are emitted.
const inFlightWarnEvery = 5 * time.Second

// Sampler draws k distinct hostnames for a single tick.
type Sampler interface {
	Sample(k int) ([]string, error)
}

// Executor executes a single query attempt, blocking until the attempt has
// finished.
type Executor interface {
	Execute(ctx context.Context, hostname string) types.Outcome
}

// Submitter runs tasks asynchronously, never blocking the submitter. Submit
// returns false when the task was not accepted.
type Submitter interface {
	Submit(task func()) bool
}

// Counter counts scheduled query attempts and knows how many attempts are
// currently in flight; usually a [metrics.Aggregator].
type Counter interface {
	QueryScheduled()
	InFlight() int64
}

// Scheduler dispatches a batch of query attempts at a fixed interval. Each
// tick samples “concurrency” many hostnames and submits a query attempt for
// each of them, without ever waiting for any attempt to finish.
//
// Query attempts from previous ticks still in flight don't hold back new
// ticks, so the number of attempts in flight may well exceed the concurrency
// when the resolution target slows down. This is exactly what the load test
// is about to reveal.
type Scheduler struct {
	sampler     Sampler
	executor    Executor
	workers     Submitter
	counter     Counter
	concurrency int
	interval    time.Duration

	inFlightWarn int64 // warn above this many attempts in flight; 0 disables.
	warnLimiter  *rate.Limiter
	warnf        func(format string, args ...interface{})
}

// SchedulerOption can be passed to New when creating new [Scheduler] objects.
type SchedulerOption func(*Scheduler)

// New returns a new Scheduler drawing hostnames from sampler, submitting
// query attempts to be run by executor onto workers, and counting scheduled
// attempts with counter. It defaults to [DefaultConcurrency] and
// [DefaultInterval].
func New(sampler Sampler, executor Executor, workers Submitter, counter Counter, options ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sampler:     sampler,
		executor:    executor,
		workers:     workers,
		counter:     counter,
		concurrency: DefaultConcurrency,
		interval:    DefaultInterval,
		warnLimiter: rate.NewLimiter(rate.Every(inFlightWarnEvery), 1),
		warnf:       log.Warnf,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithConcurrency sets the number of query attempts dispatched per tick.
func WithConcurrency(concurrency int) SchedulerOption {
	return func(s *Scheduler) {
		s.concurrency = concurrency
	}
}

// WithInterval sets the interval between ticks; intervals of zero or less
// are ignored.
func WithInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithInFlightWarning warns when more than the specified number of query
// attempts are in flight after a tick; such warnings are rate limited. A
// threshold of zero disables these warnings.
func WithInFlightWarning(threshold int64) SchedulerOption {
	return func(s *Scheduler) {
		s.inFlightWarn = threshold
	}
}

// WithWarnings sets the function emitting warnings, such as about skipped
// ticks. Defaults to logging warnings.
func WithWarnings(warnf func(format string, args ...interface{})) SchedulerOption {
	return func(s *Scheduler) {
		s.warnf = warnf
	}
}

// Interval returns the interval between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run ticks immediately and then at the configured interval until the passed
// context is done. Query attempts still in flight when Run returns continue
// independently, observing the same context.
func (s *Scheduler) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.Tick(ctx)
	for {
		select {
		case <-ticker.C:
			// Even if both the ticker and the context are ready, never tick
			// again after shutdown has been requested.
			if ctx.Err() != nil {
				return
			}
			s.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick dispatches a single batch of query attempts and returns the number of
// attempts launched, without waiting for any of them. When sampling the batch
// fails, Tick warns and launches nothing.
func (s *Scheduler) Tick(ctx context.Context) int {
	hostnames, err := s.sampler.Sample(s.concurrency)
	if err != nil {
		s.warnf("skipping tick: %s", err.Error())
		return 0
	}
	launched := 0
	for _, hostname := range hostnames {
		hostname := hostname
		// Only count attempts the workers accepted; a stopped pool rejects
		// them.
		if !s.workers.Submit(func() { s.executor.Execute(ctx, hostname) }) {
			break
		}
		s.counter.QueryScheduled()
		launched++
	}
	if s.inFlightWarn > 0 {
		if inflight := s.counter.InFlight(); inflight > s.inFlightWarn && s.warnLimiter.Allow() {
			s.warnf("%d queries in flight, exceeding %d: target saturated?",
				inflight, s.inFlightWarn)
		}
	}
	return launched
}
