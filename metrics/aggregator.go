// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/siemens/dnsload/types"
)

// unknownMin is the sentinel value of the minimum duration while no duration
// has been recorded in the current window.
const unknownMin = int64(math.MaxInt64)

// Observer gets notified about the progress of individual query attempts.
// Observers must be safe for concurrent use, as they get called from many
// query attempts at the same time. And they must be quick.
type Observer interface {
	QueryScheduled()                // a query attempt has been submitted for execution.
	QueryStarted()                  // a query attempt begins executing.
	QueryFinished(res types.Result) // a started query attempt has finished.
}

// Aggregator aggregates the metrics of query attempts into counters that are
// updated lock-free and concurrently by many query attempts, while a single
// reporter periodically takes a snapshot of the current window and resets it.
//
// All counters are independent of each other; this especially applies to the
// duration aggregates, which are updated field by field. A snapshot might
// thus see a minimum and maximum that don't exactly bound every individual
// duration recorded at the same instant. This is fine for statistical
// reporting, and not worth serializing the query hot path for.
type Aggregator struct {
	scheduled atomic.Int64 // cumulative for the whole run, never reset.
	executed  atomic.Int64 // reset with each window.
	inFlight  atomic.Int64 // live concurrency, never reset.

	outcomes [len(countedOutcomes)]atomic.Int64 // reset with each window.

	minDuration   atomic.Int64 // reset to unknownMin.
	maxDuration   atomic.Int64
	sumDurations  atomic.Int64
	countDuration atomic.Int64

	observers []Observer
}

var _ Observer = (*Aggregator)(nil)

// countedOutcomes are the outcomes having their own counters, indexed by
// their Outcome value.
var countedOutcomes = [...]types.Outcome{
	types.Success, types.Timeout, types.NoAnswer, types.Exception,
}

// AggregatorOption can be passed to New when creating new [Aggregator]
// objects.
type AggregatorOption func(*Aggregator)

// New returns a new and properly initialized Aggregator.
func New(options ...AggregatorOption) *Aggregator {
	a := &Aggregator{}
	a.minDuration.Store(unknownMin)
	for _, opt := range options {
		opt(a)
	}
	return a
}

// WithObserver additionally passes on all query attempt notifications to the
// specified Observer, after the Aggregator has updated its own counters.
func WithObserver(o Observer) AggregatorOption {
	return func(a *Aggregator) {
		a.observers = append(a.observers, o)
	}
}

// QueryScheduled counts a newly scheduled query attempt.
func (a *Aggregator) QueryScheduled() {
	a.scheduled.Add(1)
	for _, o := range a.observers {
		o.QueryScheduled()
	}
}

// QueryStarted counts a query attempt that starts executing and is now in
// flight.
func (a *Aggregator) QueryStarted() {
	a.executed.Add(1)
	a.inFlight.Add(1)
	for _, o := range a.observers {
		o.QueryStarted()
	}
}

// QueryFinished records the outcome and duration of a query attempt that is
// no longer in flight. Cancelled attempts don't count as outcome and their
// durations are ignored, but they nevertheless aren't in flight anymore.
//
// QueryFinished must be called exactly once for each call to QueryStarted.
func (a *Aggregator) QueryFinished(res types.Result) {
	if res.Outcome.Counted() {
		a.outcomes[res.Outcome].Add(1)
		a.recordDuration(res.Duration)
	}
	a.inFlight.Add(-1)
	for _, o := range a.observers {
		o.QueryFinished(res)
	}
}

// recordDuration adds the duration to the duration aggregates of the current
// window.
func (a *Aggregator) recordDuration(d time.Duration) {
	dur := int64(d)
	if dur < 0 {
		dur = 0
	}
	a.countDuration.Add(1)
	a.sumDurations.Add(dur)
	for {
		cur := a.maxDuration.Load()
		if dur <= cur || a.maxDuration.CompareAndSwap(cur, dur) {
			break
		}
	}
	for {
		cur := a.minDuration.Load()
		if dur >= cur || a.minDuration.CompareAndSwap(cur, dur) {
			break
		}
	}
}

// InFlight returns the number of query attempts currently in flight.
func (a *Aggregator) InFlight() int64 {
	return a.inFlight.Load()
}

// Scheduled returns the total number of query attempts scheduled so far.
func (a *Aggregator) Scheduled() int64 {
	return a.scheduled.Load()
}

// SnapshotAndReset returns the metrics of the current window and then starts a
// new window. Each counter is atomically read and reset in one step, so a
// query attempt finishing while a snapshot is taken is attributed exactly
// once, either to the returned window or to the next one.
//
// The scheduled and in-flight counters aren't reset.
func (a *Aggregator) SnapshotAndReset() Snapshot {
	s := Snapshot{
		Scheduled: a.scheduled.Load(),
		Executed:  a.executed.Swap(0),
		InFlight:  a.inFlight.Load(),
	}
	for idx := range a.outcomes {
		s.Outcomes[idx] = a.outcomes[idx].Swap(0)
	}
	s.Durations = a.countDuration.Swap(0)
	s.SumDuration = time.Duration(a.sumDurations.Swap(0))
	s.MaxDuration = time.Duration(a.maxDuration.Swap(0))
	if shortest := a.minDuration.Swap(unknownMin); shortest != unknownMin {
		s.MinDuration = time.Duration(shortest)
		s.MinKnown = true
	}
	return s
}
