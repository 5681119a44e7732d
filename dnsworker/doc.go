/*
Package dnsworker implements a simple limiting DNS task execution pool. dnsload
submits each query attempt as a task to a [Pool] of “DNS workers”.

Submitting never blocks the submitter, regardless of how many tasks are still
running or waiting. Instead, tasks beyond the pool size queue up; the goroutine
limit thus acts as a soft cap on concurrently executing queries, and a growing
waiting queue reveals that query volume outpaces completions.

Usage

	workers := dnsworker.New(100)
	workers.Submit(func() {
	    // resolve something
	})
	workers.StopWait()

# Acknowledgements

Under its hood, [Pool] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package dnsworker
