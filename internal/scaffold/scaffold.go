// Package scaffold creates a fresh project source directory.
package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/gall/internal/assets"
	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
)

// New populates targetDir with the default project sources. An existing
// targetDir is an error unless force is set, in which case its contents are
// removed first. It returns the names of the files written.
func New(targetDir string, force bool) ([]string, error) {
	return NewFrom(assets.Scaffold(), targetDir, force)
}

// NewFrom is New with an explicit template filesystem.
func NewFrom(tmpl fs.FS, targetDir string, force bool) ([]string, error) {
	info, err := os.Stat(targetDir)
	switch {
	case err == nil && !force:
		return nil, ferrors.AlreadyExistsError(fmt.Sprintf("%s already exists (use --force to replace it)", targetDir)).
			WithContext(ferrors.ContextPath, targetDir).
			Build()
	case err == nil:
		if err := emptyPath(targetDir, info); err != nil {
			return nil, ferrors.WriteError(targetDir, err).Build()
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.RuntimeError(fmt.Sprintf("cannot stat %s", targetDir)).WithCause(err).Build()
	}

	written, err := CopyFS(tmpl, targetDir)
	if err != nil {
		return written, ferrors.WriteError(targetDir, err).Build()
	}
	return written, nil
}

// emptyPath empties dir, or removes it when it is not a directory.
func emptyPath(dir string, info fs.FileInfo) error {
	if !info.IsDir() {
		return os.Remove(dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// CopyFS recursively copies src into dst, creating dst as needed.
func CopyFS(src fs.FS, dst string) ([]string, error) {
	var written []string
	err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := copyFile(src, path, target); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	})
	return written, err
}

func copyFile(src fs.FS, name, dst string) error {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
