/*
Package query executes the individual query attempts of a load run.

An [Executor] resolves a single hostname per attempt, racing the resolution
against the per-query timeout. The first of both to complete decides the
attempt's outcome:

  - resolution with at least one address: [types.Success];
  - resolution without any address: [types.NoAnswer];
  - a resolution error: [types.Exception], never retried;
  - the timeout elapsing first: [types.Timeout];
  - shutdown while in flight: [types.Cancelled], which doesn't count.

Each started attempt notifies its observer exactly once when it starts and
exactly once when it finishes, regardless of the outcome. The attempt's
duration is measured independently per attempt on the monotonic clock.
*/
package query
