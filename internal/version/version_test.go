package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := []string{Version, BuildTime, GitCommit}
	t.Cleanup(func() { Version, BuildTime, GitCommit = orig[0], orig[1], orig[2] })

	Version, GitCommit = "v1.2.3", "unknown"
	assert.Equal(t, "gall v1.2.3", String())

	GitCommit, BuildTime = "abc123", "2026-01-02"
	assert.Equal(t, "gall v1.2.3 (abc123, built 2026-01-02)", String())
}
