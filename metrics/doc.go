/*
Package metrics aggregates the statistics of dnsload's query attempts.

An [Aggregator] is explicitly created and passed to the components that need
it, so there are no process-wide counters. Query attempts update it
concurrently and lock-free through the [Observer] interface, while the reporter
periodically calls [Aggregator.SnapshotAndReset] to grab a [Snapshot] of the
current window and to start the next window.

Counters have different lifetimes:

  - the scheduled counter is cumulative for the whole run,
  - the in-flight counter reflects live concurrency and thus is never reset,
  - the executed counter, the per-outcome counters, and the duration
    aggregates (minimum, maximum, sum, count) are per window.

Further observers, such as a Prometheus exporter, can be chained to an
Aggregator using [WithObserver].
*/
package metrics
