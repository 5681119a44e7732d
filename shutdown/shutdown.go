// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package shutdown

import (
	"context"
	"os"
	"sync"
)

// Watch returns a context derived from the parent context that gets cancelled
// as soon as the first signal arrives on sigs. Any further signals are simply
// swallowed, so repeated interrupts do not abort an orderly shutdown. Watch
// also returns a cancel function in order to release the watcher when no
// longer needed; it can be called multiple times. The optional notify
// function gets called exactly once with the first signal received.
func Watch(parent context.Context, sigs <-chan os.Signal, notify func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	released := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			close(released)
		})
	}
	go func() {
		first := true
		for {
			select {
			case sig := <-sigs:
				if first {
					first = false
					if notify != nil {
						notify(sig)
					}
					cancel()
				}
			case <-released:
				return
			}
		}
	}()
	return ctx, stop
}
