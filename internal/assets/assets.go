// Package assets holds the files shipped inside the gall binary: the story
// runtime bundle embedded into every build and the scaffold copied by "gall new".
package assets

import (
	"embed"
	"io/fs"
)

//go:embed bundle/blotter.js
var bundleFS embed.FS

//go:embed scaffold/defines.json scaffold/style.less scaffold/template.tmpl scaffold/script.js
var scaffoldFS embed.FS

// Bundle returns the filesystem holding the embedded runtime bundle.
func Bundle() fs.FS {
	sub, err := fs.Sub(bundleFS, "bundle")
	if err != nil {
		panic("assets: bundle directory missing: " + err.Error())
	}
	return sub
}

// Scaffold returns the filesystem holding the project scaffold.
func Scaffold() fs.FS {
	sub, err := fs.Sub(scaffoldFS, "scaffold")
	if err != nil {
		panic("assets: scaffold directory missing: " + err.Error())
	}
	return sub
}
