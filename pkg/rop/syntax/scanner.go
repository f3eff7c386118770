package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexKind uint8

const (
	lexEOF lexKind = iota
	lexIdent
	lexDot      // .
	lexPath     // ::
	lexQuestion // ?
	lexPipe     // |
	lexColon    // :
	lexArrow    // ->
	lexInvalid
)

type lexeme struct {
	kind lexKind
	text string
	pos  int
}

func (l lexeme) describe() string {
	if l.kind == lexEOF {
		return "end of step"
	}
	return "'" + l.text + "'"
}

// scanner splits the head of a step token into lexemes. Lambda bodies are
// taken verbatim with rest.
type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *scanner) next() lexeme {
	s.skipSpace()
	start := s.pos
	if start >= len(s.src) {
		return lexeme{kind: lexEOF, pos: start}
	}

	r, size := utf8.DecodeRuneInString(s.src[start:])
	switch {
	case isIdentStart(r):
		s.pos += size
		for s.pos < len(s.src) {
			r, size = utf8.DecodeRuneInString(s.src[s.pos:])
			if !isIdentPart(r) {
				break
			}
			s.pos += size
		}
		return lexeme{kind: lexIdent, text: s.src[start:s.pos], pos: start}
	case r == ':' && strings.HasPrefix(s.src[start:], "::"):
		s.pos += 2
		return lexeme{kind: lexPath, text: "::", pos: start}
	case r == '-' && strings.HasPrefix(s.src[start:], "->"):
		s.pos += 2
		return lexeme{kind: lexArrow, text: "->", pos: start}
	}

	s.pos += size
	kind := lexInvalid
	switch r {
	case '.':
		kind = lexDot
	case '?':
		kind = lexQuestion
	case '|':
		kind = lexPipe
	case ':':
		kind = lexColon
	}
	return lexeme{kind: kind, text: string(r), pos: start}
}

func (s *scanner) peek() lexeme {
	pos := s.pos
	l := s.next()
	s.pos = pos
	return l
}

// accept consumes the next lexeme when it has the given kind.
func (s *scanner) accept(kind lexKind) bool {
	if s.peek().kind == kind {
		s.next()
		return true
	}
	return false
}

// rest returns the unscanned input with surrounding space trimmed and the
// offset it starts at.
func (s *scanner) rest() (string, int) {
	s.skipSpace()
	return strings.TrimRightFunc(s.src[s.pos:], unicode.IsSpace), s.pos
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
