package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gall/internal/build"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

func TestPollerDetectsChanges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(a, []byte("1"), 0o600))

	p := newPoller(map[string]struct{}{a: {}, b: {}})
	_, ok := p.changed()
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(b, []byte("new"), 0o600))
	path, ok := p.changed()
	require.True(t, ok)
	assert.Equal(t, b, path)

	_, ok = p.changed()
	assert.False(t, ok)

	require.NoError(t, os.Remove(a))
	_, ok = p.changed()
	assert.False(t, ok, "removal is not a change")

	require.NoError(t, os.WriteFile(a, []byte("back"), 0o600))
	path, ok = p.changed()
	require.True(t, ok)
	assert.Equal(t, a, path)
}

func TestPollRejectsNonPositiveInterval(t *testing.T) {
	err := New(nil, BuilderFunc(nil)).Poll(context.Background(), 0)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestPollTriggersBuild(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "style.less")
	require.NoError(t, os.WriteFile(watched, []byte("a{}"), 0o600))

	var builds atomic.Int32
	c := New([]string{watched}, BuilderFunc(func(context.Context) (*build.Result, error) {
		builds.Add(1)
		return &build.Result{}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Poll(ctx, 20*time.Millisecond) }()

	// Size changes on every write so coarse mtimes still register.
	content := "a{}"
	require.Eventually(t, func() bool {
		content += " "
		_ = os.WriteFile(watched, []byte(content), 0o600)
		return builds.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not return after cancel")
	}
}
