package style

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

const mediaTypeCSS = "text/css"

// Minifier compacts CSS output.
type Minifier struct {
	m *minify.M
}

// NewMinifier returns a CSS minifier.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc(mediaTypeCSS, css.Minify)
	return &Minifier{m: m}
}

// Process implements Preprocessor.
func (m *Minifier) Process(_ string, src string) (string, error) {
	out, err := m.m.String(mediaTypeCSS, src)
	if err != nil {
		return "", &SyntaxError{Msg: err.Error()}
	}
	return out, nil
}
