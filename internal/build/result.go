package build

import "time"

// Result describes a successful run.
type Result struct {
	RunID      string
	OutputPath string
	Bytes      int
	// Digest is the hex BLAKE3-256 sum of the written output.
	Digest    string
	Duration  time.Duration
	Artifacts []ArtifactTiming
}

// ArtifactTiming records how long one artifact took to load. Path is empty
// for the embedded bundle.
type ArtifactTiming struct {
	Name     string
	Path     string
	Duration time.Duration
}

// RenderContext is the merged data a template renders against.
type RenderContext struct {
	CSS     string
	Story   string
	Script  string
	Blotter string
	Defines any
}

// Map exposes the context under the keys templates reference.
func (rc RenderContext) Map() map[string]any {
	return map[string]any{
		"css":     rc.CSS,
		"story":   rc.Story,
		"script":  rc.Script,
		"defines": rc.Defines,
		"blotter": rc.Blotter,
	}
}
