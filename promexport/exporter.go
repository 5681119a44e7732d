// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package promexport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/siemens/dnsload/metrics"
	"github.com/siemens/dnsload/types"
)

// Namespace of all metrics exported.
const Namespace = "dnsload"

// Exporter feeds the progress of query attempts into Prometheus collectors.
// In contrast to the windowed metrics.Aggregator, the exported counters are
// cumulative for the whole run, as Prometheus expects.
type Exporter struct {
	registry  *prometheus.Registry
	scheduled prometheus.Counter
	started   prometheus.Counter
	outcomes  *prometheus.CounterVec
	inFlight  prometheus.Gauge
	durations *prometheus.HistogramVec
}

var _ metrics.Observer = (*Exporter)(nil)

// New returns a new Exporter registering its collectors with the specified
// registry; if nil, a new registry is created.
func New(reg *prometheus.Registry) *Exporter {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	e := &Exporter{
		registry: reg,
		scheduled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "queries_scheduled_total",
			Help:      "The total number of DNS query attempts scheduled",
		}),
		started: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "queries_started_total",
			Help:      "The total number of DNS query attempts started",
		}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "queries_total",
			Help:      "The total number of finished DNS query attempts by outcome",
		}, []string{"outcome"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "queries_in_flight",
			Help:      "Current number of DNS query attempts in flight",
		}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_duration_seconds",
			Help:      "Histogram of durations of finished DNS query attempts",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
	}
	// make all outcomes show up right from the start, even if zero.
	for _, o := range types.Outcomes {
		e.outcomes.WithLabelValues(o.String())
	}
	return e
}

// Registry returns the registry the collectors of this Exporter are
// registered with.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// QueryScheduled counts a scheduled query attempt.
func (e *Exporter) QueryScheduled() { e.scheduled.Inc() }

// QueryStarted counts a started query attempt and adjusts the in-flight
// gauge.
func (e *Exporter) QueryStarted() {
	e.started.Inc()
	e.inFlight.Inc()
}

// QueryFinished adjusts the in-flight gauge and counts the outcome and
// duration of counted outcomes.
func (e *Exporter) QueryFinished(res types.Result) {
	e.inFlight.Dec()
	if !res.Outcome.Counted() {
		return
	}
	outcome := res.Outcome.String()
	e.outcomes.WithLabelValues(outcome).Inc()
	e.durations.WithLabelValues(outcome).Observe(res.Duration.Seconds())
}

// Handler returns an HTTP handler exposing the metrics of this Exporter's
// registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve the metrics at "/metrics" on the specified listener until the passed
// context gets cancelled.
func (e *Exporter) Serve(ctx context.Context, l net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.Serve(l)
	<-done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
