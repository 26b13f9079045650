// Package metrics records fill statistics in a Prometheus registry.
//
// The CLI is a one-shot process, so nothing is served over HTTP. Instead
// the registry is written as a node-exporter textfile after a fill.
package metrics

import (
	"strconv"
	"time"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name
const Namespace = "spackle"

// Collector owns the fill metrics and the registry they live in
type Collector struct {
	registry *prometheus.Registry

	fillsTotal     *prometheus.CounterVec
	filesTotal     *prometheus.CounterVec
	fileDuration   prometheus.Histogram
	renderDuration prometheus.Histogram
	hooksTotal     *prometheus.CounterVec
	hookDuration   *prometheus.HistogramVec
}

// NewCollector creates and registers the metrics. A nil registry gets a
// fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		fillsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "fills_total",
				Help:      "Fill runs by result",
			},
			[]string{"result"},
		),
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "files_written_total",
				Help:      "Files written to output directories",
			},
			[]string{"templated"},
		),
		fileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "file_render_duration_seconds",
				Help:      "Time to render or copy one file",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		renderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "render_duration_seconds",
				Help:      "Time to render a whole template tree",
				Buckets:   prometheus.DefBuckets,
			},
		),
		hooksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "hooks_total",
				Help:      "Hook outcomes by status and reason",
			},
			[]string{"status", "reason"},
		),
		hookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "hook_duration_seconds",
				Help:      "Hook run time, attempted hooks only",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"hook"},
		),
	}

	registry.MustRegister(
		c.fillsTotal,
		c.filesTotal,
		c.fileDuration,
		c.renderDuration,
		c.hooksTotal,
		c.hookDuration,
	)
	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordFill counts a finished fill
func (c *Collector) RecordFill(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.fillsTotal.WithLabelValues(result).Inc()
}

// RecordFile records one written file
func (c *Collector) RecordFile(templated bool, elapsed time.Duration) {
	c.filesTotal.WithLabelValues(strconv.FormatBool(templated)).Inc()
	c.fileDuration.Observe(elapsed.Seconds())
}

// RecordRender records a whole render pass
func (c *Collector) RecordRender(elapsed time.Duration) {
	c.renderDuration.Observe(elapsed.Seconds())
}

// RecordHook records one hook outcome. Skipped hooks have no duration.
func (c *Collector) RecordHook(key, status, reason string, elapsed time.Duration) {
	c.hooksTotal.WithLabelValues(status, reason).Inc()
	if status != "skipped" {
		c.hookDuration.WithLabelValues(key).Observe(elapsed.Seconds())
	}
}

// WriteTextfile writes every metric in text exposition format to path
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write metrics to %s", path)
	}
	return nil
}
