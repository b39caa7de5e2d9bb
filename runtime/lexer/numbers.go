package lexer

import (
	"regexp"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

var (
	radixRe   = regexp.MustCompile(`^0(?:[bB][01][01_]*|[oO][0-7][0-7_]*|[xX][0-9a-fA-F][0-9a-fA-F_]*)n?`)
	decimalRe = regexp.MustCompile(`^(?:\d[\d_]*(?:\.\d[\d_]*)?|\.\d[\d_]*)(?:[eE][+-]?\d[\d_]*)?n?`)
	indexRe   = regexp.MustCompile(`^\.\d+`)
)

// lexNumber handles numeric literals, including "a.0" index sugar.
func lexNumber(l *Lexer, chunk string) (int, error) {
	prev := l.prev()
	if chunk[0] == '.' && prev != nil && !l.spaced && prev.Type.IsIndexable() {
		m := indexRe.FindString(chunk)
		if m == "" {
			return 0, nil
		}
		l.indexSugar(m[1:], l.span(0, m))
		return len(m), nil
	}

	m := radixRe.FindString(chunk)
	if m == "" {
		m = decimalRe.FindString(chunk)
	}
	if m == "" {
		return 0, nil
	}
	if rest := chunk[len(m):]; rest != "" && identStart(firstRuneValue(rest)) {
		return 0, source.Errorf(source.KindSyntax, l.span(0, m+firstRune(rest)), "unexpected %s after number", firstRune(rest))
	}

	loc := l.span(0, m)
	if l.keyAhead(chunk[len(m):]) {
		l.key(types.NUMBER, m, loc, l.span(len(m), ":"), ":")
		return len(m) + 1, nil
	}
	l.startsValue(loc)
	l.emit(types.NUMBER, m, loc)
	return len(m), nil
}

// indexSugar expands ".digits" after a value into a generated index.
func (l *Lexer) indexSugar(digits string, loc source.Location) {
	pair := l.nextPair()
	l.generate(types.INDEX_START, "[", source.Point(loc.Start(), loc.Src), pair)
	l.spaced = false
	l.emit(types.NUMBER, digits, source.Span(loc.Start().Advance("."), digits, loc.Src))
	l.generate(types.INDEX_END, "]", source.Point(loc.End(), loc.Src), pair)
}
