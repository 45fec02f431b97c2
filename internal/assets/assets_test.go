package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleContainsRuntime(t *testing.T) {
	data, err := fs.ReadFile(Bundle(), "blotter.js")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Blotter")
}

func TestScaffoldFiles(t *testing.T) {
	for _, name := range []string{"defines.json", "style.less", "template.tmpl", "script.js"} {
		_, err := fs.Stat(Scaffold(), name)
		assert.NoError(t, err, name)
	}
	_, err := fs.Stat(Scaffold(), "story.ink.json")
	assert.Error(t, err)
}
