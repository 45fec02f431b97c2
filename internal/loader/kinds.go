package loader

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"

	"github.com/tidwall/jsonc"

	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/style"
)

const byteOrderMark = "\uFEFF"

// Verbatim returns file text unchanged. Used for templates, scripts and the bundle.
type Verbatim struct{}

// Load implements Loader.
func (Verbatim) Load(ctx context.Context, fsys fs.FS, name string) (any, error) {
	return readText(ctx, fsys, name)
}

// Narrative loads the story document, dropping one leading byte-order mark.
// Story compilers emit the mark for the benefit of other tools; inline in a
// script it would be a stray character.
type Narrative struct{}

// Load implements Loader.
func (Narrative) Load(ctx context.Context, fsys fs.FS, name string) (any, error) {
	text, err := readText(ctx, fsys, name)
	if err != nil {
		return nil, err
	}
	return StripBOM(text), nil
}

// StripBOM removes a single leading U+FEFF.
func StripBOM(text string) string {
	return strings.TrimPrefix(text, byteOrderMark)
}

// StyleSheet runs the style source through a Preprocessor.
type StyleSheet struct {
	Preprocessor style.Preprocessor
}

// Load implements Loader.
func (s *StyleSheet) Load(ctx context.Context, fsys fs.FS, name string) (any, error) {
	text, err := readText(ctx, fsys, name)
	if err != nil {
		return nil, err
	}
	css, err := s.Preprocessor.Process(name, text)
	if err != nil {
		b := ferrors.TransformError(name, err)
		var syn *style.SyntaxError
		if errors.As(err, &syn) {
			b = b.WithPosition(syn.Line, syn.Column)
		}
		return nil, b.Build()
	}
	return css, nil
}

// Defines parses the JSON configuration document. Comments and trailing
// commas are accepted.
type Defines struct{}

// Load implements Loader.
func (Defines) Load(ctx context.Context, fsys fs.FS, name string) (any, error) {
	text, err := readText(ctx, fsys, name)
	if err != nil {
		return nil, err
	}
	return ParseDefines(name, text)
}

// ParseDefines decodes JSONC text. jsonc.ToJSON keeps byte offsets intact,
// so decoder offsets map straight back onto the source.
func ParseDefines(name, text string) (any, error) {
	var v any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(text)), &v); err != nil {
		b := ferrors.ParseError(name, err)
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			b = b.WithPosition(lineCol(text, int(syn.Offset)))
		}
		return nil, b.Build()
	}
	return v, nil
}

func lineCol(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	return strings.Count(before, "\n") + 1, offset - strings.LastIndexByte(before, '\n')
}
