package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveLoadDuration("style.less", 15*time.Millisecond)
	pr.IncLoadResult("style.less", ResultSuccess)
	pr.ObserveBuildDuration(50 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncWatchEvent(true)
	pr.IncWatchEvent(false)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"gall_artifact_load_duration_seconds",
		"gall_artifact_load_results_total",
		"gall_build_duration_seconds",
		"gall_build_outcomes_total",
		"gall_watch_events_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestPrometheusRecorderWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	path := filepath.Join(t.TempDir(), "metrics", "gall.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gall_build_outcomes_total{outcome="failed"} 1`)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveBuildDuration(time.Second)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncWatchEvent(true)
}
