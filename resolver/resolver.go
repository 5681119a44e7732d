// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoAnswer signals that name resolution completed, but without yielding any
// IP addresses, such as for NXDOMAIN or NODATA answers.
var ErrNoAnswer = errors.New("no answer")

// Resolver resolves hostnames into their IPv4 and IPv6 addresses (in textual
// format). Implementations must be safe for concurrent use and should return
// as soon as possible after the passed context is done.
//
// When resolution completes without any addresses, implementations return an
// error wrapping [ErrNoAnswer].
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Func adapts an ordinary function to the [Resolver] interface.
type Func func(ctx context.Context, host string) ([]string, error)

var _ Resolver = (Func)(nil)

// LookupHost calls f(ctx, host).
func (f Func) LookupHost(ctx context.Context, host string) ([]string, error) {
	return f(ctx, host)
}

// System resolves hostnames using the operating system's configured stub
// resolver, like any ordinary application would do.
type System struct {
	r *net.Resolver
}

var _ Resolver = (*System)(nil)

// NewSystem returns a new [System] resolver.
func NewSystem() *System {
	return &System{r: &net.Resolver{}}
}

// LookupHost resolves the specified hostname using the system's resolver.
func (s *System) LookupHost(ctx context.Context, host string) ([]string, error) {
	addrs, err := s.r.LookupHost(ctx, host)
	if err != nil {
		var dnserr *net.DNSError
		if errors.As(err, &dnserr) && dnserr.IsNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNoAnswer, err.Error())
		}
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: query for %q yields no answers", ErrNoAnswer, host)
	}
	return addrs, nil
}
