// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package query

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/siemens/dnsload/metrics"
	"github.com/siemens/dnsload/resolver"
	"github.com/siemens/dnsload/types"
)

// DefaultTimeout is the default per-query timeout.
const DefaultTimeout = 3 * time.Second

// Executor executes individual query attempts, each resolving a single
// hostname within a bounded timeout, and reports the progress and outcome of
// the attempts to an observer, usually a [metrics.Aggregator].
type Executor struct {
	resolver resolver.Resolver
	observer metrics.Observer
	timeout  time.Duration
	seq      atomic.Uint64
}

// New returns a new Executor resolving hostnames using the specified resolver
// and notifying the specified observer. Query attempts not resolving within
// timeout are classified as [types.Timeout]. A timeout of zero or less means
// [DefaultTimeout].
func New(r resolver.Resolver, obs metrics.Observer, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		resolver: r,
		observer: obs,
		timeout:  timeout,
	}
}

// Timeout returns the per-query timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// lookup is the result of an asynchronous resolver lookup.
type lookup struct {
	addrs []string
	err   error
}

// Execute a single query attempt for the specified hostname, racing the
// resolution against the timeout, and returns the outcome. Execute never
// panics because of resolver faults and never retries.
//
// When ctx is already done, Execute returns [types.Cancelled] without starting
// the attempt at all, so the attempt doesn't show up in any metrics. When ctx
// gets done while the attempt is in flight, it is classified as
// [types.Cancelled]; the underlying resolution then gets cancelled too, but
// might linger on for a short time in the background.
func (e *Executor) Execute(ctx context.Context, hostname string) types.Outcome {
	if ctx.Err() != nil {
		return types.Cancelled
	}
	res := types.Result{
		Seq:      e.seq.Add(1),
		Hostname: hostname,
		Outcome:  types.Cancelled,
	}
	start := time.Now() // ...with its monotonic clock reading.
	e.observer.QueryStarted()
	defer func() {
		res.Duration = time.Since(start)
		e.observer.QueryFinished(res)
	}()

	lookupCtx, cancel := context.WithCancel(ctx)
	defer cancel() // ...release a resolution that lost the race.
	answer := make(chan lookup, 1)
	go func() {
		var l lookup
		defer func() {
			if r := recover(); r != nil {
				l = lookup{err: fmt.Errorf("resolver panicked: %v", r)}
			}
			answer <- l
		}()
		l.addrs, l.err = e.resolver.LookupHost(lookupCtx, hostname)
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()
	select {
	case l := <-answer:
		res.Outcome, res.Err = classify(ctx, l)
	case <-timer.C:
		res.Outcome = types.Timeout
	case <-ctx.Done():
		res.Outcome = types.Cancelled
	}
	return res.Outcome
}

// classify the result of a completed resolution.
func classify(ctx context.Context, l lookup) (types.Outcome, error) {
	switch {
	case l.err == nil && len(l.addrs) > 0:
		return types.Success, nil
	case l.err == nil, errors.Is(l.err, resolver.ErrNoAnswer):
		return types.NoAnswer, nil
	case ctx.Err() != nil:
		// the resolver noticed the shutdown before we did.
		return types.Cancelled, nil
	default:
		return types.Exception, l.err
	}
}
