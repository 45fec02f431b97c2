package style

import (
	"strings"
)

// Less implements the variable and comment subset of the LESS language:
//
//   - "@name: value;" declares a variable (global from the point of declaration)
//   - "@name" inside a value or at-rule prelude is replaced with its value
//   - "// ..." line comments are removed outside of parentheses
//
// Everything else is passed through. Braces, parentheses, strings and block
// comments must be balanced.
type Less struct{}

// NewLess returns the LESS subset preprocessor.
func NewLess() *Less {
	return &Less{}
}

// Process implements Preprocessor.
func (l *Less) Process(_ string, src string) (string, error) {
	s := &lessScanner{src: src, vars: map[string]string{}, stmtStart: true}
	if err := s.run(); err != nil {
		return "", err
	}
	return s.out.String(), nil
}

type lessScanner struct {
	src       string
	pos       int
	out       strings.Builder
	vars      map[string]string
	braces    []int // offsets of unmatched '{'
	parens    []int // offsets of unmatched '('
	stmtStart bool
}

func (s *lessScanner) run() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '*':
			end, err := s.blockCommentEnd(s.pos)
			if err != nil {
				return err
			}
			s.out.WriteString(s.src[s.pos:end])
			s.pos = end
		case c == '/' && s.peek(1) == '/' && len(s.parens) == 0:
			s.skipLine()
		case c == '"' || c == '\'':
			end, err := s.stringEnd(s.pos)
			if err != nil {
				return err
			}
			s.out.WriteString(s.src[s.pos:end])
			s.pos = end
			s.stmtStart = false
		case c == '{':
			s.braces = append(s.braces, s.pos)
			s.emit(c)
			s.stmtStart = true
		case c == '}':
			if len(s.braces) == 0 {
				return syntaxError(s.src, s.pos, "unexpected '}'")
			}
			if len(s.parens) > 0 {
				return syntaxError(s.src, s.parens[len(s.parens)-1], "unclosed '('")
			}
			s.braces = s.braces[:len(s.braces)-1]
			s.emit(c)
			s.stmtStart = true
		case c == '(':
			s.parens = append(s.parens, s.pos)
			s.emit(c)
			s.stmtStart = false
		case c == ')':
			if len(s.parens) == 0 {
				return syntaxError(s.src, s.pos, "unexpected ')'")
			}
			s.parens = s.parens[:len(s.parens)-1]
			s.emit(c)
		case c == ';':
			s.emit(c)
			s.stmtStart = len(s.parens) == 0
		case c == '@':
			if err := s.at(); err != nil {
				return err
			}
		case isSpace(c):
			s.emit(c)
		default:
			s.emit(c)
			s.stmtStart = false
		}
	}
	if len(s.parens) > 0 {
		return syntaxError(s.src, s.parens[len(s.parens)-1], "unclosed '('")
	}
	if len(s.braces) > 0 {
		return syntaxError(s.src, s.braces[len(s.braces)-1], "unclosed block")
	}
	return nil
}

// at handles a variable declaration, variable reference or plain at-rule.
func (s *lessScanner) at() error {
	start := s.pos
	name := identAt(s.src, start+1)
	if name == "" {
		s.emit('@')
		s.stmtStart = false
		return nil
	}
	after := start + 1 + len(name)

	if s.stmtStart {
		colon := skipSpaces(s.src, after)
		if colon < len(s.src) && s.src[colon] == ':' {
			return s.declare(start, name, colon+1)
		}
		// At-rule such as @media or @import: keep the keyword verbatim.
		s.out.WriteString(s.src[start:after])
		s.pos = after
		s.stmtStart = false
		return nil
	}

	value, ok := s.vars[name]
	if !ok {
		return syntaxError(s.src, start, "undefined variable @%s", name)
	}
	s.out.WriteString(value)
	s.pos = after
	return nil
}

// declare consumes "@name: value;" and records the expanded value.
func (s *lessScanner) declare(start int, name string, valueStart int) error {
	i := valueStart
	depth := 0
	for i < len(s.src) {
		switch c := s.src[i]; {
		case c == '"' || c == '\'':
			end, err := s.stringEnd(i)
			if err != nil {
				return err
			}
			i = end
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
		case (c == ';' || c == '}') && depth <= 0:
			value, err := s.expand(valueStart, i)
			if err != nil {
				return err
			}
			s.vars[name] = strings.TrimSpace(value)
			if c == ';' {
				i++
			}
			s.pos = i
			return nil
		}
		i++
	}
	return syntaxError(s.src, start, "unterminated declaration of @%s", name)
}

// expand substitutes variable references in src[from:to].
func (s *lessScanner) expand(from, to int) (string, error) {
	var b strings.Builder
	i := from
	for i < to {
		c := s.src[i]
		switch {
		case c == '"' || c == '\'':
			end, err := s.stringEnd(i)
			if err != nil {
				return "", err
			}
			b.WriteString(s.src[i:end])
			i = end
		case c == '@':
			name := identAt(s.src, i+1)
			if name == "" {
				b.WriteByte(c)
				i++
				continue
			}
			value, ok := s.vars[name]
			if !ok {
				return "", syntaxError(s.src, i, "undefined variable @%s", name)
			}
			b.WriteString(value)
			i += 1 + len(name)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func (s *lessScanner) stringEnd(start int) (int, error) {
	quote := s.src[start]
	for i := start + 1; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '\n':
			return 0, syntaxError(s.src, start, "unterminated string")
		case quote:
			return i + 1, nil
		}
	}
	return 0, syntaxError(s.src, start, "unterminated string")
}

func (s *lessScanner) blockCommentEnd(start int) (int, error) {
	idx := strings.Index(s.src[start+2:], "*/")
	if idx < 0 {
		return 0, syntaxError(s.src, start, "unterminated comment")
	}
	return start + 2 + idx + 2, nil
}

func (s *lessScanner) skipLine() {
	idx := strings.IndexByte(s.src[s.pos:], '\n')
	if idx < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += idx
}

func (s *lessScanner) emit(c byte) {
	s.out.WriteByte(c)
	s.pos++
}

func (s *lessScanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func identAt(src string, i int) string {
	start := i
	for i < len(src) {
		c := src[i]
		if c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			i++
			continue
		}
		break
	}
	return src[start:i]
}

func skipSpaces(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
