// Package metrics exposes Prometheus collectors for a scrape run.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors registered for one run.
type Metrics struct {
	registry *prometheus.Registry

	pagesTotal         *prometheus.CounterVec
	recordsTotal       *prometheus.CounterVec
	parseFailuresTotal prometheus.Counter
	fetchDuration      prometheus.Histogram
	rateLimitDelay     prometheus.Histogram
	groupsTotal        prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		pagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kanji_pages_total",
				Help: "Total number of category pages fetched, labeled by level and status.",
			},
			[]string{"level", "status"},
		),
		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kanji_records_total",
				Help: "Total number of kanji records extracted, labeled by level.",
			},
			[]string{"level"},
		),
		parseFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "kanji_parse_failures_total",
			Help: "Total number of pages whose markup could not be parsed.",
		}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kanji_fetch_duration_seconds",
			Help:    "Histogram of category page fetch latencies.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		rateLimitDelay: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kanji_rate_limit_delay_seconds",
			Help:    "Time spent waiting on the politeness limiter before a fetch.",
			Buckets: prometheus.DefBuckets,
		}),
		groupsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "kanji_groups_total",
			Help: "Total number of target groups processed.",
		}),
	}
}

// Registry returns the registry holding the run's collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFetch records one fetch outcome. A zero status is reported as "error".
func (m *Metrics) ObserveFetch(level string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.pagesTotal.WithLabelValues(level, label).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

// ObserveRecords adds n extracted records for level.
func (m *Metrics) ObserveRecords(level string, n int) {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(level).Add(float64(n))
}

// ObserveParseFailure counts a page that failed extraction.
func (m *Metrics) ObserveParseFailure() {
	if m == nil {
		return
	}
	m.parseFailuresTotal.Inc()
}

// ObserveGroup counts a processed target group.
func (m *Metrics) ObserveGroup() {
	if m == nil {
		return
	}
	m.groupsTotal.Inc()
}

// ObserveRateLimitDelay records time spent blocked on the limiter.
func (m *Metrics) ObserveRateLimitDelay(d time.Duration) {
	if m == nil {
		return
	}
	m.rateLimitDelay.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
