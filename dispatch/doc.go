/*
Package dispatch implements the fixed-cadence query dispatching of dnsload.

On each tick a [Scheduler] samples the configured number of hostnames and
submits one query attempt per hostname onto a non-blocking worker pool. A tick
never waits for the attempts it launched, so ticks cannot stack up behind slow
resolutions: slow targets instead show up as a growing number of attempts in
flight.

A tick whose sample cannot be drawn because the corpus is too small is skipped
with a warning; it doesn't stop the Scheduler.
*/
package dispatch
