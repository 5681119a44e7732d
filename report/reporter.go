// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"context"
	"time"

	"github.com/siemens/dnsload/metrics"
)

// DefaultInterval is the length of a reporting window.
const DefaultInterval = time.Second

// Snapshotter hands out the metrics of the current window, starting a new
// window; usually a [metrics.Aggregator].
type Snapshotter interface {
	SnapshotAndReset() metrics.Snapshot
}

// Reporter periodically reports the figures of the past window.
type Reporter struct {
	source   Snapshotter
	emit     func(Report)
	interval time.Duration
}

// ReporterOption can be passed to NewReporter when creating new [Reporter]
// objects.
type ReporterOption func(*Reporter)

// NewReporter returns a new Reporter taking snapshots from source and
// emitting non-quiet reports using emit.
func NewReporter(source Snapshotter, emit func(Report), options ...ReporterOption) *Reporter {
	r := &Reporter{
		source:   source,
		emit:     emit,
		interval: DefaultInterval,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// WithInterval sets a different report interval than [DefaultInterval];
// intervals of zero or less are ignored.
func WithInterval(interval time.Duration) ReporterOption {
	return func(r *Reporter) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

// Interval returns the report interval.
func (r *Reporter) Interval() time.Duration {
	return r.interval
}

// Run reports immediately and then at the configured interval until the
// passed context is done.
func (r *Reporter) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.Report()
	for {
		select {
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			r.Report()
		case <-ctx.Done():
			return
		}
	}
}

// Report takes a snapshot of the current window and emits its report, unless
// the window was quiet. Report returns the report together with whether it
// was emitted.
func (r *Reporter) Report() (Report, bool) {
	rep := Compute(r.source.SnapshotAndReset())
	if rep.Quiet() {
		return rep, false
	}
	r.emit(rep)
	return rep, true
}
