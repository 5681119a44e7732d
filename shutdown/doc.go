/*
Package shutdown turns the first operator interrupt into the cancellation of a
context, so that all long-running loops of dnsload can wind down in an orderly
fashion.
*/
package shutdown
