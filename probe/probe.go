// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrUnreachable signals that a target did not reply (often enough) to pings.
var ErrUnreachable = errors.New("no replies or too many losses")

type prober struct {
	count               int           // number of pings to send.
	interval            time.Duration // distance between pings.
	thresholdPercentage uint          // percentage of replies required.
	unprivileged        bool          // if true, uses UDP-based pings instead of privileged ICMPs.
	netns               relations.Relation
}

// Option can be passed to Reachable.
type Option func(*prober)

// InNetworkNamespace pings from inside the network namespace referenced by
// the specified filesystem path, such as "/proc/666/ns/net". An empty path
// leaves the current network namespace in place.
func InNetworkNamespace(netnsref string) Option {
	return func(p *prober) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithCount sets the number of pings sent.
func WithCount(count uint) Option {
	return func(p *prober) {
		if count > 0 {
			p.count = int(count)
		}
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) Option {
	return func(p *prober) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithThresholdPercentage sets the percentage between 0 and 100 of replies
// required to consider a target to be reachable.
func WithThresholdPercentage(percentage uint) Option {
	return func(p *prober) {
		if percentage > 100 {
			percentage = 100
		}
		p.thresholdPercentage = percentage
	}
}

// AsUnprivileged carries out unprivileged pings using UDP instead of ICMP
// packets.
func AsUnprivileged() Option {
	return func(p *prober) {
		p.unprivileged = true
	}
}

// Reachable pings the specified address, which might optionally include a port
// that is ignored, returning nil if the address replied often enough. It
// defaults to sending 3 pings 200ms apart, requiring at least 50% replies.
//
// Reachable gives up as soon as the specified context gets cancelled or
// reaches its deadline.
func Reachable(ctx context.Context, addr string, options ...Option) error {
	p := &prober{
		count:               3,
		interval:            200 * time.Millisecond,
		thresholdPercentage: 50,
	}
	for _, opt := range options {
		opt(p)
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if p.netns == nil {
		return p.ping(ctx, addr)
	}
	// lxkns' ops.Execute differentiates between a namespace switching error
	// and the result of the function called while switched.
	res, err := ops.Execute(func() interface{} {
		return p.ping(ctx, addr)
	}, p.netns)
	if err != nil {
		return fmt.Errorf("cannot switch into network namespace, %w", err)
	}
	if pingerr, ok := res.(error); ok {
		return pingerr
	}
	return nil
}

func (p *prober) ping(ctx context.Context, addr string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pinger, err := ping.NewPinger(addr)
	if err != nil {
		return err
	}
	pinger.SetPrivileged(!p.unprivileged)
	pinger.Count = p.count
	pinger.Interval = p.interval
	// Always limit waiting for the last ping to get reflected (or not).
	pinger.Timeout = time.Duration(int64(p.interval) * int64(p.count+2))
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()
	if err := pinger.Run(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv*100 < pinger.Count*int(p.thresholdPercentage) {
		return fmt.Errorf("pinging %s: %w", addr, ErrUnreachable)
	}
	return nil
}
