package lexer

import (
	"errors"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// lexRegex recognizes /pattern/flags where a value may start. After a spaced
// callable ("foo /x/") it is only tried when no space or "=" follows the
// slash, and gives way to division when it does not close.
func lexRegex(l *Lexer, chunk string) (int, error) {
	if chunk[0] != '/' || len(chunk) < 2 {
		return 0, nil
	}
	prev := l.prev()
	strict := prev == nil || !prev.Type.IsValueEnd()
	soft := !strict && l.spaced && prev.Type.IsCallable() && chunk[1] != ' ' && chunk[1] != '='
	if !strict && !soft {
		return 0, nil
	}

	openLoc := l.span(0, "/")
	unclosed := func() (int, error) {
		if soft {
			return 0, nil
		}
		return 0, source.Errorf(source.KindSyntax, openLoc, "missing / (unclosed regex)")
	}

	// Scan without emitting so that a soft miss leaves no trace.
	end := -1
	inClass := false
	var marks []int // offsets of interpolation openers
	for i := 1; i < len(chunk) && end < 0; i++ {
		switch c := chunk[i]; {
		case c == '\\':
			i++
		case c == '\n':
			return unclosed()
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			end = i
		case !inClass && (c == '#' || c == '$') && i+1 < len(chunk) && chunk[i+1] == '{':
			depth, j := 0, i+1
			for ; j < len(chunk) && chunk[j] != '\n'; j++ {
				if chunk[j] == '{' {
					depth++
				} else if chunk[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if j >= len(chunk) || chunk[j] != '}' {
				return unclosed()
			}
			marks = append(marks, i)
			i = j
		}
	}
	if end < 0 {
		return unclosed()
	}
	if end == 1 {
		return 0, nil
	}

	flagsEnd := end + 1
	for flagsEnd < len(chunk) && chunk[flagsEnd] >= 'a' && chunk[flagsEnd] <= 'z' {
		flagsEnd++
	}
	text := chunk[:flagsEnd]
	loc := l.span(0, text)

	if len(marks) == 0 {
		l.startsValue(loc)
		l.emit(types.REGEX, text, loc)
		return flagsEnd, nil
	}

	var parts []fragment
	start := 1
	for _, m := range marks {
		parts = textFragment(parts, chunk, start, m)
		body, err := l.interpolate(chunk, m+2)
		if errors.Is(err, errUnclosedInterpolation) {
			return unclosed()
		}
		if err != nil {
			return 0, err
		}
		parts = append(parts, fragment{off: m, open: chunk[m : m+2], body: body})
		start = m + 2 + body.Length + 1
	}
	parts = textFragment(parts, chunk, start, end)

	l.startsValue(loc)
	pair := l.nextPair()
	l.emitPaired(types.REGEX_START, "/", openLoc, pair)
	l.emitFragments(parts)
	l.emitPaired(types.REGEX_END, chunk[end:flagsEnd], l.span(end, chunk[end:flagsEnd]), pair)
	return flagsEnd, nil
}
