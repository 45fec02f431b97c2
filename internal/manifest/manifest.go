// Package manifest declares the fixed set of source artifacts a gall project
// is assembled from. Both the build pre-flight check and the watch set are
// derived from Required so the two can never drift apart.
package manifest

import "path/filepath"

// Kind identifies how an artifact is loaded and transformed.
type Kind string

const (
	KindStyleSheet     Kind = "stylesheet"
	KindTemplate       Kind = "template"
	KindScript         Kind = "script"
	KindNarrative      Kind = "narrative"
	KindConfigDocument Kind = "config"
	KindEmbeddedBundle Kind = "bundle"
)

// Kinds lists every artifact kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindStyleSheet,
		KindTemplate,
		KindScript,
		KindNarrative,
		KindConfigDocument,
		KindEmbeddedBundle,
	}
}

// Render context keys.
const (
	KeyCSS     = "css"
	KeyStory   = "story"
	KeyScript  = "script"
	KeyDefines = "defines"
	KeyBlotter = "blotter"
)

// Descriptor describes one source artifact.
type Descriptor struct {
	// Name is the file name relative to the sources directory (or the
	// embedded asset FS for bundled artifacts).
	Name string
	// Key is the render context key the transformed value is stored under.
	// The template has no key; its text drives the renderer instead.
	Key      string
	Kind     Kind
	Required bool
	// Bundled artifacts ship with the tool and are not part of the project.
	Bundled bool
}

// Artifact is a descriptor resolved to a concrete path for one run.
type Artifact struct {
	Name string
	Path string
	Kind Kind
}

// Source file names.
const (
	DefinesFile  = "defines.json"
	StyleFile    = "style.less"
	TemplateFile = "template.tmpl"
	ScriptFile   = "script.js"
	StoryFile    = "story.ink.json"
	BundleFile   = "blotter.js"
)

var descriptors = [...]Descriptor{
	{Name: DefinesFile, Key: KeyDefines, Kind: KindConfigDocument, Required: true},
	{Name: StyleFile, Key: KeyCSS, Kind: KindStyleSheet, Required: true},
	{Name: TemplateFile, Kind: KindTemplate, Required: true},
	{Name: ScriptFile, Key: KeyScript, Kind: KindScript, Required: true},
	{Name: StoryFile, Key: KeyStory, Kind: KindNarrative, Required: true},
	{Name: BundleFile, Key: KeyBlotter, Kind: KindEmbeddedBundle, Bundled: true},
}

// All returns every descriptor, including bundled ones, in manifest order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors[:])
	return out
}

// Required returns the project sources that must exist before a build, in manifest order.
func Required() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Required && !d.Bundled {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a descriptor by name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// WatchPaths returns the cleaned paths of all required sources under sourceDir.
func WatchPaths(sourceDir string) []string {
	required := Required()
	paths := make([]string, 0, len(required))
	for _, d := range required {
		paths = append(paths, filepath.Join(sourceDir, d.Name))
	}
	return paths
}

// Resolve binds a descriptor to its location under dir.
func (d Descriptor) Resolve(dir string) Artifact {
	return Artifact{Name: d.Name, Path: filepath.Join(dir, d.Name), Kind: d.Kind}
}
