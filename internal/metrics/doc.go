// Package metrics provides build and watch metrics for gall.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing, so callers never need nil checks:
//
//	pipeline := build.New(cfg, build.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers real collectors on a registry. gall has no
// network surface, so the collected values are exported with WriteTextfile in
// the node_exporter textfile format after every build.
package metrics
