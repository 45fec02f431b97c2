// Package watch re-runs a build whenever one of a fixed set of source files
// changes, with at most one build in flight. Changes that arrive while a
// build is running are dropped rather than queued.
package watch
