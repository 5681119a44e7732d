// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Outcome is the terminal classification of a single query attempt.
type Outcome int

// The outcomes of a query attempt.
const (
	Success   Outcome = iota // resolved into one or more addresses.
	Timeout                  // no resolution within the per-query timeout.
	NoAnswer                 // resolution completed without any address.
	Exception                // resolution failed with an error.
	Cancelled                // attempt woken by operator-initiated shutdown.
)

// Outcomes lists all outcomes that get counted, in reporting order.
var Outcomes = []Outcome{Success, Timeout, NoAnswer, Exception}

// String returns the clear-text representation of an Outcome value.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Timeout:
		return "timeout"
	case NoAnswer:
		return "noanswer"
	case Exception:
		return "exception"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// IsFailure returns true for the outcomes that count as failed queries.
func (o Outcome) IsFailure() bool {
	switch o {
	case Timeout, NoAnswer, Exception:
		return true
	default:
		return false
	}
}

// Counted returns false for outcomes that must not show up in any statistics,
// that is, cancelled attempts.
func (o Outcome) Counted() bool {
	return o >= Success && o < Cancelled
}
