// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/siemens/dnsload/corpus"
	"github.com/siemens/dnsload/dispatch"
	"github.com/siemens/dnsload/dnsworker"
	"github.com/siemens/dnsload/query"
	"github.com/siemens/dnsload/shutdown"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

// settings of a load test run, as configured using CLI flags.
type settings struct {
	concurrency  *lenientInt
	interval     *lenientInt
	timeout      *lenientInt
	hosts        string
	maxLines     int
	server       string
	network      string
	container    string
	workers      int
	inflightWarn int
	metricsAddr  string
	live         bool
	verbose      bool
	probe        bool
	debug        bool

	warnings []string // from lenient flags.
	netnsref string   // of --container, if any.
}

// newSettings returns settings with only the lenient integer flags set up;
// the remaining flag defaults are set when registering the flags.
func newSettings() *settings {
	s := &settings{}
	s.concurrency = newLenientInt("Concurrency", "",
		dispatch.DefaultConcurrency, 0, &s.warnings)
	s.interval = newLenientInt("Interval", " ms",
		int(dispatch.DefaultInterval.Milliseconds()), 1, &s.warnings)
	s.timeout = newLenientInt("Timeout", " ms",
		int(query.DefaultTimeout.Milliseconds()), 1, &s.warnings)
	return s
}

func newRootCmd() (rootCmd *cobra.Command) {
	s := newSettings()
	rootCmd = &cobra.Command{
		Use:     "dnsload [flags]",
		Short:   "dnsload subjects a DNS resolver to a steady load of queries for well-known hostnames",
		Version: "0.9",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if s.maxLines < 1 {
				return fmt.Errorf("--max-lines must be at least 1")
			}
			if s.workers < 1 {
				return fmt.Errorf("--workers must be at least 1")
			}
			if s.inflightWarn < 0 {
				return fmt.Errorf("--inflight-warn must not be negative")
			}
			switch s.network {
			case "udp", "tcp":
			default:
				return fmt.Errorf("--net must be either udp or tcp")
			}
			if s.container != "" && s.server == "" {
				return fmt.Errorf("--container requires --server")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// From here on, we report errors ourselves, and usage is of no
			// help anymore.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			if s.debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt)
			defer signal.Stop(sigs)
			ctx, stop := shutdown.Watch(cmd.Context(), sigs, func(sig os.Signal) {
				log.Debugf("received %s, shutting down", sig)
			})
			defer stop()
			return LoadTest(ctx, cmd.OutOrStdout(), s)
		},
	}
	// Sets up the flags.
	flags := rootCmd.PersistentFlags()
	flags.Var(s.concurrency, "concurrency", "number of DNS queries dispatched per interval")
	flags.Var(s.interval, "interval", "dispatch interval in milliseconds")
	flags.Var(s.timeout, "timeout", "per-query timeout in milliseconds")
	flags.StringVar(&s.hosts, "hosts", "tranco-list-top-1m.csv", "hostname corpus file")
	flags.IntVar(&s.maxLines, "max-lines", corpus.DefaultMaxLines, "maximum number of corpus file lines to read")
	flags.StringVar(&s.server, "server", "", "DNS server host[:port] to query instead of the system resolver")
	flags.StringVar(&s.network, "net", "udp", "transport for --server, either udp or tcp")
	flags.StringVar(&s.container, "container", "", "query from the network namespace of this Docker container")
	flags.IntVar(&s.workers, "workers", dnsworker.DefaultSize, "maximum number of simultaneously executing DNS queries")
	flags.IntVar(&s.inflightWarn, "inflight-warn", 5000, "warn above this many DNS queries in flight, 0 disables")
	flags.StringVar(&s.metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address")
	flags.BoolVar(&s.live, "live", false, "update the report line in place")
	flags.BoolVar(&s.verbose, "verbose", false, "show the outcome of each individual DNS query")
	flags.BoolVar(&s.probe, "probe", false, "ping the DNS server before starting")
	flags.BoolVar(&s.debug, "debug", false, "enable debugging output")
	return
}
