package lexer

import (
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// startsComment reports whether s begins with a comment.
func startsComment(s string) bool {
	switch {
	case strings.HasPrefix(s, "#"):
		return !strings.HasPrefix(s, "#{")
	case strings.HasPrefix(s, "//"), strings.HasPrefix(s, "/*"):
		return true
	case strings.HasPrefix(s, "{:"), strings.HasPrefix(s, "{?"):
		return true
	}
	return false
}

// lexComment collects "#" and "//" line comments, "#...#" closed comments,
// "/* */" blocks, and the documentation forms "#:", "#?", "{: }" and "{? }".
func lexComment(l *Lexer, chunk string) (int, error) {
	if !startsComment(chunk) {
		return 0, nil
	}

	var n int
	jsdoc, closed := false, false
	switch {
	case chunk[0] == '{':
		end, ok := matchBraces(chunk)
		if !ok {
			return 0, source.Errorf(source.KindSyntax, l.span(0, chunk[:2]), "This comment needs to be closed")
		}
		n = end
		jsdoc = true
	case strings.HasPrefix(chunk, "/*"):
		end := strings.Index(chunk[2:], "*/")
		if end < 0 {
			return 0, source.Errorf(source.KindSyntax, l.span(0, "/*"), "This comment needs to be closed")
		}
		n = end + 4
		jsdoc = strings.HasPrefix(chunk, "/**")
	default:
		n = strings.IndexByte(chunk, '\n')
		if n < 0 {
			n = len(chunk)
		}
		jsdoc = strings.HasPrefix(chunk, "#:") || strings.HasPrefix(chunk, "#?")
		// "#note#" ends at the second "#"; code may follow on the line.
		if chunk[0] == '#' && !jsdoc {
			if end := strings.IndexByte(chunk[1:n], '#'); end >= 0 {
				n = end + 2
				closed = true
			}
		}
	}

	text := chunk[:n]
	l.addComment(types.Comment{
		Text:        text,
		Loc:         l.span(0, text),
		Inline:      !closed && l.codeBefore(),
		JSDoc:       jsdoc,
		AddNewlines: countNewlines(chunk[n:]),
	})

	// A line break deferred over this comment applies once code follows it
	// on the same line.
	rest := skipBlanks(chunk[n:])
	if p := l.pending; p != nil && rest != "" && rest[0] != '\n' && !startsComment(rest) {
		l.pending = nil
		if l.prev() != nil {
			if err := l.lineBreak(p.level, p.blank, rest, n); err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}

// matchBraces returns the length of the balanced "{ ... }" at the head of s.
func matchBraces(s string) (int, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// codeBefore reports whether anything but indentation precedes the cursor on
// its line.
func (l *Lexer) codeBefore() bool {
	start := strings.LastIndexByte(l.src[:l.pos], '\n') + 1
	if start == 0 && l.cfg.Cursor != source.Start() {
		return true
	}
	return strings.TrimLeft(l.src[start:l.pos], " \t") != ""
}

// countNewlines counts the line breaks directly after a comment, ignoring
// indentation between them.
func countNewlines(s string) int {
	n := 0
	for _, ch := range s {
		switch ch {
		case '\n':
			n++
		case ' ', '\t':
		default:
			return n
		}
	}
	return n
}
