/*
Package promexport optionally exposes the progress of a dnsload run as
Prometheus metrics.

An [Exporter] is a metrics.Observer that feeds cumulative counters, an
in-flight gauge, and a duration histogram. Its metrics are served at
"/metrics" using [Exporter.Serve].
*/
package promexport
