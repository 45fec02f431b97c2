package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyArtifact   = "artifact"
	KeyKind       = "kind"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyBytes      = "bytes"
	KeyDigest     = "digest"
	KeyDurationMS = "duration_ms"
	KeyState      = "state"
	KeyOp         = "op"
	KeyMissing    = "missing"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Artifact(name string) slog.Attr   { return slog.String(KeyArtifact, name) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Digest(d string) slog.Attr        { return slog.String(KeyDigest, d) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func Op(op string) slog.Attr           { return slog.String(KeyOp, op) }
func Missing(names []string) slog.Attr { return slog.Any(KeyMissing, names) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
