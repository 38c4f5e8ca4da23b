// Package metrics exposes ingestion counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gauthierbraillon/socialdash/internal/social"
)

const namespace = "socialdash"

// Failure reasons recorded by adapters.
const (
	ReasonCredentialMissing = "credential_missing"
	ReasonUnresolved        = "unresolved"
	ReasonRequestFailed     = "request_failed"
)

// Collector owns a private registry so tests and multiple pipelines never
// collide on the global one. The recording methods (RecordsFetched,
// IdentifierFailed, IngestFinished) are safe on a nil receiver.
type Collector struct {
	registry *prometheus.Registry

	recordsFetched     *prometheus.CounterVec
	identifierFailures *prometheus.CounterVec
	ingestDuration     prometheus.Histogram
	lastIngest         prometheus.Gauge
	tableRows          prometheus.Gauge
}

// New creates a collector with all socialdash metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		recordsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_fetched_total",
				Help:      "Records returned by provider adapters or sample fixtures",
			},
			[]string{"platform"},
		),
		identifierFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "identifier_failures_total",
				Help:      "Identifiers skipped by an adapter, by reason",
			},
			[]string{"platform", "reason"},
		),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Wall time of a full ingestion run",
			Buckets:   prometheus.DefBuckets,
		}),
		lastIngest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_ingest_timestamp_seconds",
			Help:      "Unix time the last ingestion run finished",
		}),
		tableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows in the current normalized table",
		}),
	}

	c.registry.MustRegister(
		c.recordsFetched,
		c.identifierFailures,
		c.ingestDuration,
		c.lastIngest,
		c.tableRows,
	)
	return c
}

// RecordsFetched adds n records for platform.
func (c *Collector) RecordsFetched(platform social.Platform, n int) {
	if c == nil {
		return
	}
	c.recordsFetched.WithLabelValues(string(platform)).Add(float64(n))
}

// IdentifierFailed counts one skipped identifier.
func (c *Collector) IdentifierFailed(platform social.Platform, reason string) {
	if c == nil {
		return
	}
	c.identifierFailures.WithLabelValues(string(platform), reason).Inc()
}

// IngestFinished observes a completed run that produced rows table rows.
func (c *Collector) IngestFinished(started time.Time, rows int) {
	if c == nil {
		return
	}
	now := time.Now()
	c.ingestDuration.Observe(now.Sub(started).Seconds())
	c.lastIngest.Set(float64(now.Unix()))
	c.tableRows.Set(float64(rows))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
