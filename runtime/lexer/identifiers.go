package lexer

import (
	"strings"

	"github.com/relic-lang/relic/core/types"
)

// lexIdentifier handles names, object keys and property names.
func lexIdentifier(l *Lexer, chunk string) (int, error) {
	if l.cfg.ELSON {
		if m := elsonKeyRe.FindString(chunk); m != "" {
			eq := strings.IndexByte(m, '=')
			name := strings.TrimRight(m[:eq], " \t")
			l.key(types.PROPERTY, name, l.span(0, name), l.span(eq, "="), "=")
			return eq + 1, nil
		}
	}

	n := scanIdent(chunk)
	if n == 0 {
		return 0, nil
	}
	name := chunk[:n]
	loc := l.span(0, name)

	if prev := l.prev(); prev != nil && (prev.Is(types.DOT, types.PROTO) || (prev.Type == types.AT_SIGN && !l.spaced)) {
		l.emit(types.PROPERTY, name, loc)
		return n, nil
	}
	if l.keyAhead(chunk[n:]) {
		l.key(types.PROPERTY, name, loc, l.span(n, ":"), ":")
		return n + 1, nil
	}

	l.startsValue(loc)
	l.emit(types.IDENTIFIER, name, loc)
	l.addName(name)
	return n, nil
}
