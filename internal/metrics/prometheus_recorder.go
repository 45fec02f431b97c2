package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	loadDuration  *prom.HistogramVec
	loadResults   *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	watchEvents   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		loadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gall",
			Name:      "artifact_load_duration_seconds",
			Help:      "Duration of individual artifact loads",
			Buckets:   prom.DefBuckets,
		}, []string{"artifact"}),
		loadResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gall",
			Name:      "artifact_load_results_total",
			Help:      "Artifact load results by outcome",
		}, []string{"artifact", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "gall",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gall",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gall",
			Name:      "watch_events_total",
			Help:      "Source change events seen in watch mode",
		}, []string{"action"}),
	}
	reg.MustRegister(pr.loadDuration, pr.loadResults, pr.buildDuration, pr.buildOutcome, pr.watchEvents)
	return pr
}

func (p *PrometheusRecorder) ObserveLoadDuration(artifact string, d time.Duration) {
	if p == nil {
		return
	}
	p.loadDuration.WithLabelValues(artifact).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLoadResult(artifact string, result ResultLabel) {
	if p == nil {
		return
	}
	p.loadResults.WithLabelValues(artifact, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncWatchEvent(triggered bool) {
	if p == nil {
		return
	}
	action := "coalesced"
	if triggered {
		action = "triggered"
	}
	p.watchEvents.WithLabelValues(action).Inc()
}

// Gatherer exposes the underlying registry.
func (p *PrometheusRecorder) Gatherer() prom.Gatherer {
	return p.registry
}

// WriteTextfile writes the current metric values to path in the text
// exposition format, replacing the file atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
