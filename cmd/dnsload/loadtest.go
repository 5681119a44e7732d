// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/siemens/dnsload/console"
	"github.com/siemens/dnsload/corpus"
	"github.com/siemens/dnsload/dispatch"
	"github.com/siemens/dnsload/dnsworker"
	"github.com/siemens/dnsload/metrics"
	"github.com/siemens/dnsload/mobynet"
	"github.com/siemens/dnsload/probe"
	"github.com/siemens/dnsload/promexport"
	"github.com/siemens/dnsload/query"
	"github.com/siemens/dnsload/report"
	"github.com/siemens/dnsload/resolver"

	"github.com/thediveo/lxkns/log"
)

// LoadTest loads the hostname corpus and then keeps dispatching DNS queries
// and reporting their outcomes until the passed context gets cancelled. It
// then winds down, reporting "Shutdown complete." as its final words.
//
// Only startup failures are returned as errors; these have already been
// reported to out.
func LoadTest(ctx context.Context, out io.Writer, s *settings) error {
	var sinkOpts []console.SinkOption
	if s.live {
		sinkOpts = append(sinkOpts, console.WithLiveStatus())
	}
	sink := console.New(out, sinkOpts...)
	defer sink.Close()
	for _, warning := range s.warnings {
		sink.Warnf("%s", warning)
	}

	hosts, err := corpus.Load(s.hosts, s.maxLines)
	if err != nil {
		if errors.Is(err, corpus.ErrFileNotFound) {
			sink.Errorf("File not found: %s", s.hosts)
		} else {
			sink.Errorf("%s", err.Error())
		}
		return err
	}
	log.Debugf("loaded %d hostnames from %s", len(hosts), s.hosts)

	res, err := newResolver(ctx, s)
	if err != nil {
		sink.Errorf("%s", err.Error())
		return err
	}
	if s.probe && s.server != "" {
		probeServer(ctx, sink, s)
	}

	// Set up the Prometheus metrics exposition and the per-query console
	// lines, as requested.
	var servers sync.WaitGroup
	var aggOpts []metrics.AggregatorOption
	if s.metricsAddr != "" {
		exporter := promexport.New(nil)
		l, err := net.Listen("tcp", s.metricsAddr)
		if err != nil {
			err = fmt.Errorf("cannot serve metrics, %w", err)
			sink.Errorf("%s", err.Error())
			return err
		}
		servers.Add(1)
		go func() {
			defer servers.Done()
			if err := exporter.Serve(ctx, l); err != nil {
				sink.Warnf("metrics server failed: %s", err.Error())
			}
		}()
		aggOpts = append(aggOpts, metrics.WithObserver(exporter))
		log.Infof("serving metrics at http://%s/metrics", l.Addr())
	}
	if s.verbose {
		aggOpts = append(aggOpts, metrics.WithObserver(console.NewQueryLog(sink)))
	}

	agg := metrics.New(aggOpts...)
	pool := dnsworker.New(s.workers)
	executor := query.New(res, agg, s.timeout.Millis())
	scheduler := dispatch.New(corpus.NewSampler(hosts, nil), executor, pool, agg,
		dispatch.WithConcurrency(s.concurrency.value),
		dispatch.WithInterval(s.interval.Millis()),
		dispatch.WithInFlightWarning(int64(s.inflightWarn)),
		dispatch.WithWarnings(sink.Warnf))
	reporter := report.NewReporter(agg, func(r report.Report) {
		severity := console.Success
		if r.Failed > 0 {
			severity = console.Warning
		}
		sink.Status(severity, r.Line())
	})

	var loops sync.WaitGroup
	loops.Add(2)
	go func() {
		defer loops.Done()
		scheduler.Run(ctx)
	}()
	go func() {
		defer loops.Done()
		reporter.Run(ctx)
	}()

	<-ctx.Done()
	loops.Wait()
	// Attempts still queued or in flight now see the cancelled context and
	// finish as cancelled without any further resolution.
	pool.StopWait()
	servers.Wait()
	sink.Close()
	sink.Infof("Shutdown complete.")
	return nil
}

// newResolver returns the system resolver, unless a particular DNS server is
// to be queried as configured, optionally from inside a container's network
// namespace.
func newResolver(ctx context.Context, s *settings) (resolver.Resolver, error) {
	if s.server == "" {
		return resolver.NewSystem(), nil
	}
	var netnsref string
	if s.container != "" {
		moby, err := mobynet.NewClient()
		if err != nil {
			return nil, fmt.Errorf("cannot connect to the Docker daemon, %w", err)
		}
		defer moby.Close()
		netnsref, err = mobynet.NetnsOfContainer(ctx, moby, s.container)
		if err != nil {
			return nil, err
		}
		log.Debugf("querying from network namespace %s", netnsref)
	}
	s.netnsref = netnsref
	return resolver.NewServer(s.server,
		resolver.WithNet(s.network),
		resolver.InNetworkNamespace(netnsref)), nil
}

// probeServer pings the DNS server, warning when it seems to be unreachable.
func probeServer(ctx context.Context, sink *console.Sink, s *settings) {
	opts := []probe.Option{probe.InNetworkNamespace(s.netnsref)}
	if os.Geteuid() != 0 {
		opts = append(opts, probe.AsUnprivileged())
	}
	if err := probe.Reachable(ctx, s.server, opts...); err != nil {
		sink.Warnf("DNS server %s seems to be unreachable: %s", s.server, err.Error())
		return
	}
	sink.Infof("DNS server %s is reachable", s.server)
}
