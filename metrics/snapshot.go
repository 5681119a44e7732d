// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/siemens/dnsload/types"
)

// Snapshot is a copy of the metrics of a single window, as returned by
// [Aggregator.SnapshotAndReset].
type Snapshot struct {
	Scheduled int64 // total number of query attempts scheduled since the start.
	Executed  int64 // number of query attempts started in this window.
	InFlight  int64 // number of query attempts in flight when taking the snapshot.

	Outcomes [len(countedOutcomes)]int64 // per-outcome counts, use Count.

	Durations   int64         // number of durations recorded.
	SumDuration time.Duration // sum of all durations recorded.
	MinDuration time.Duration // only valid if MinKnown.
	MaxDuration time.Duration
	MinKnown    bool // false if no minimum duration was known at snapshot time.
}

// Count returns the number of query attempts of this window with the specified
// outcome. Count always returns zero for uncounted outcomes, such as
// [types.Cancelled].
func (s Snapshot) Count(o types.Outcome) int64 {
	if !o.Counted() {
		return 0
	}
	return s.Outcomes[o]
}
