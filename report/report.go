// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"time"

	"github.com/siemens/dnsload/metrics"
	"github.com/siemens/dnsload/types"
)

// Report contains the figures derived from a single metrics window.
type Report struct {
	Queued      int64   // total query attempts scheduled since the start.
	PerSecond   int64   // query attempts started in this window.
	InFlight    int64   // query attempts currently in flight.
	AvgDuration float64 // in milliseconds, relative to all queued attempts.
	Success     int64
	Timeout     int64
	NoAnswer    int64
	Exception   int64
	Failed      int64   // timeouts, no answers, and exceptions.
	Total       int64   // successful and failed query attempts.
	SuccessRate float64 // in percent, zero if there were no attempts at all.
	MinDuration time.Duration
	MaxDuration time.Duration
}

// Compute the report figures from the specified metrics window.
//
// Please note that the average duration is the sum of durations in this
// window divided by the total number of queued attempts so far.
func Compute(s metrics.Snapshot) Report {
	r := Report{
		Queued:      s.Scheduled,
		PerSecond:   s.Executed,
		InFlight:    s.InFlight,
		Success:     s.Count(types.Success),
		Timeout:     s.Count(types.Timeout),
		NoAnswer:    s.Count(types.NoAnswer),
		Exception:   s.Count(types.Exception),
		MaxDuration: s.MaxDuration,
	}
	// clamp the minimum duration to 0 if all in-flight queries are yet to
	// complete, so no minimum duration is known.
	if s.MinKnown {
		r.MinDuration = s.MinDuration
	}
	r.Failed = r.NoAnswer + r.Timeout + r.Exception
	r.Total = r.Success + r.Failed
	if r.Total > 0 {
		r.SuccessRate = float64(r.Success) / float64(r.Total) * 100
	}
	if s.Scheduled > 0 {
		r.AvgDuration = float64(s.SumDuration) / float64(time.Millisecond) / float64(s.Scheduled)
	}
	return r
}

// Quiet returns true if there were no finished query attempts in the window.
func (r Report) Quiet() bool {
	return r.Total == 0
}

// Line returns the report as a single line of text, without a trailing
// newline.
func (r Report) Line() string {
	return fmt.Sprintf("DNS queries queued: %-6d Queries scheduled per second: %-6d In-flight: %-6d "+
		"Avg duration: %-4.0f ms, Success: %-4d (%3.0f%%) Failed: %-4d Min: %d ms Max: %d ms",
		r.Queued, r.PerSecond, r.InFlight,
		r.AvgDuration, r.Success, r.SuccessRate, r.Failed,
		r.MinDuration.Milliseconds(), r.MaxDuration.Milliseconds())
}
