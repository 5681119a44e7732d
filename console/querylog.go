// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package console

import (
	"github.com/siemens/dnsload/metrics"
	"github.com/siemens/dnsload/types"
)

// QueryLog posts a line for each finished query attempt to a Sink.
type QueryLog struct {
	sink *Sink
}

var _ metrics.Observer = (*QueryLog)(nil)

// NewQueryLog returns a new QueryLog posting to the specified Sink.
func NewQueryLog(sink *Sink) *QueryLog {
	return &QueryLog{sink: sink}
}

// QueryScheduled does nothing.
func (l *QueryLog) QueryScheduled() {}

// QueryStarted does nothing.
func (l *QueryLog) QueryStarted() {}

// QueryFinished posts the result of a query attempt; cancelled attempts are
// silently skipped.
func (l *QueryLog) QueryFinished(res types.Result) {
	switch {
	case !res.Outcome.Counted():
		return
	case res.Outcome == types.Success:
		l.sink.Post(Message{Severity: Success, Text: res.String()})
	case res.Outcome == types.Exception:
		l.sink.Post(Message{Severity: Error, Text: res.String()})
	default:
		l.sink.Post(Message{Severity: Warning, Text: res.String()})
	}
}
