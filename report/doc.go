/*
Package report periodically turns the metrics windows of a load run into
human-readable report lines, such as:

	DNS queries queued: 1200   Queries scheduled per second: 100    In-flight: 12     Avg duration: 3    ms, Success: 97   ( 97%) Failed: 3    Min: 1 ms Max: 2999 ms

A [Reporter] snapshots and resets the metrics every second. Windows without
any finished query attempt are quiet and thus not reported at all.
*/
package report
