// Package style turns project style sheets into plain CSS.
//
// Preprocessing sits behind the Preprocessor interface so the pipeline does
// not depend on a particular engine. The default engine understands a LESS
// subset (variables and line comments); a minifier can be chained after it.
package style

import (
	"fmt"
	"strings"
)

// Preprocessor converts style sheet source text into CSS.
type Preprocessor interface {
	Process(name, src string) (string, error)
}

// SyntaxError reports input a Preprocessor rejected.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Chain runs preprocessors in order, feeding each output into the next.
type Chain []Preprocessor

// Process implements Preprocessor.
func (c Chain) Process(name, src string) (string, error) {
	out := src
	for _, p := range c {
		var err error
		if out, err = p.Process(name, out); err != nil {
			return "", err
		}
	}
	return out, nil
}

// New returns the default preprocessor, optionally followed by minification.
func New(minify bool) Preprocessor {
	if !minify {
		return NewLess()
	}
	return Chain{NewLess(), NewMinifier()}
}

// position converts a byte offset into a 1-based line and column.
func position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}

func syntaxError(src string, offset int, format string, args ...any) *SyntaxError {
	line, col := position(src, offset)
	return &SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}
