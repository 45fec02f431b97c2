// Package loader reads project artifacts and converts each into the value the
// render context stores for it. There is exactly one loader per artifact kind;
// loaders share no state and are safe to run concurrently.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/manifest"
	"git.home.luguber.info/inful/gall/internal/style"
)

// Loader reads the named file from fsys and returns its transformed value.
type Loader interface {
	Load(ctx context.Context, fsys fs.FS, name string) (any, error)
}

// Func adapts a function to the Loader interface.
type Func func(ctx context.Context, fsys fs.FS, name string) (any, error)

// Load implements Loader.
func (f Func) Load(ctx context.Context, fsys fs.FS, name string) (any, error) {
	return f(ctx, fsys, name)
}

// Options configures the loaders that wrap external transforms.
type Options struct {
	Style style.Preprocessor
}

// Set maps every artifact kind to its loader.
type Set map[manifest.Kind]Loader

// NewSet builds the default loader for each kind.
func NewSet(opts Options) Set {
	pre := opts.Style
	if pre == nil {
		pre = style.NewLess()
	}
	return Set{
		manifest.KindStyleSheet:     &StyleSheet{Preprocessor: pre},
		manifest.KindTemplate:       Verbatim{},
		manifest.KindScript:         Verbatim{},
		manifest.KindNarrative:      Narrative{},
		manifest.KindConfigDocument: Defines{},
		manifest.KindEmbeddedBundle: Verbatim{},
	}
}

// For returns the loader registered for kind.
func (s Set) For(kind manifest.Kind) (Loader, error) {
	l, ok := s[kind]
	if !ok || l == nil {
		return nil, ferrors.InternalError(fmt.Sprintf("no loader registered for %s", kind)).Build()
	}
	return l, nil
}

// readText reads name from fsys, classifying a missing file as not found.
func readText(ctx context.Context, fsys fs.FS, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ferrors.NotFoundError(name, name).WithCause(err).Build()
		}
		return "", ferrors.RuntimeError(fmt.Sprintf("cannot read %s", name)).
			WithSeverity(ferrors.SeverityError).
			WithCause(err).
			WithContext(ferrors.ContextArtifact, name).
			Build()
	}
	return string(data), nil
}

// ForKind returns the default loader for kind configured with opts.
func ForKind(kind manifest.Kind, opts Options) (Loader, error) {
	return NewSet(opts).For(kind)
}
