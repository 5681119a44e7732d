/*
Package types defines dnsload's (tiny) information model: the terminal
[Outcome] of a query attempt and the [Result] value describing a finished
attempt.

An attempt that started executing always ends up with exactly one outcome. The
[Cancelled] outcome marks attempts woken by an operator-initiated shutdown; it
is never counted, as it isn't a measurement but rather the absence of one.
*/
package types
