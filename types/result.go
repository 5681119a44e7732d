// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"time"
)

// Result describes how a single query attempt for a hostname ended. Results
// are plain values and thus can be freely passed around after the attempt
// finished.
type Result struct {
	Seq      uint64        `json:"seq"` // sequence number of the attempt.
	Hostname string        `json:"hostname"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"` // only for Exception outcomes, diagnostics only.
}

// String returns a single-line textual representation of a Result, such as
// "example.org: success after 12ms".
func (r Result) String() string {
	s := fmt.Sprintf("%s: %s after %s", r.Hostname, r.Outcome, r.Duration.Round(time.Millisecond))
	if r.Err != nil {
		s += ", " + r.Err.Error()
	}
	return s
}
