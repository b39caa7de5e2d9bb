package lexer

import (
	"errors"
	"regexp"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// slingRe matches the "\word" string shorthand.
var slingRe = regexp.MustCompile("^\\\\[^\\s\\\\,;()\\[\\]{}\"'`]+")

// fragment is a piece of an interpolated literal: raw text, or a body lexed
// by a child lexer.
type fragment struct {
	off  int // offset in the chunk
	text string
	open string // "#{", "${" or "{"
	body *Result
}

func textFragment(parts []fragment, chunk string, start, end int) []fragment {
	if end > start {
		parts = append(parts, fragment{off: start, text: chunk[start:end]})
	}
	return parts
}

// interpolate lexes the interpolation body that starts off bytes into the
// chunk and stops at its closing "}".
func (l *Lexer) interpolate(chunk string, off int) (*Result, error) {
	l.logger.Debug("[LEXER] interpolation", "at", l.at(off).String(), "pairBase", l.pairSeq)
	res, err := Lex(chunk[off:], l.cfg.child(l.at(off), l.pairSeq)...)
	if err != nil {
		return nil, err
	}
	l.merge(res)
	return res, nil
}

// emitFragments appends the fragments of an interpolated literal.
func (l *Lexer) emitFragments(parts []fragment) {
	for _, p := range parts {
		if p.body == nil {
			l.emit(types.STRING, p.text, l.span(p.off, p.text))
			continue
		}
		pair := l.nextPair()
		l.emitPaired(types.INTERPOLATION_START, p.open, l.span(p.off, p.open), pair)
		l.tokens = append(l.tokens, p.body.Tokens...)
		l.emitPaired(types.INTERPOLATION_END, "}", l.span(p.off+len(p.open)+p.body.Length, "}"), pair)
	}
}

func interpolated(parts []fragment) bool {
	for _, p := range parts {
		if p.body != nil {
			return true
		}
	}
	return false
}

func lexString(l *Lexer, chunk string) (int, error) {
	if m := slingRe.FindString(chunk); m != "" {
		loc := l.span(0, m)
		l.startsValue(loc)
		l.emit(types.STRING, `"`+m[1:]+`"`, loc).Origin = m
		return len(m), nil
	}

	q := chunk[0]
	if q != '"' && q != '\'' && q != '`' {
		return 0, nil
	}
	quote := chunk[:1]
	quoteLoc := l.span(0, quote)
	unclosed := func() error {
		return source.Errorf(source.KindSyntax, quoteLoc, "This string needs to be closed")
	}

	var parts []fragment
	end := -1
	start := 1
	for i := 1; i < len(chunk) && end < 0; {
		c := chunk[i]
		switch {
		case c == '\\':
			i += 2
		case c == q:
			parts = textFragment(parts, chunk, start, i)
			end = i
		case q != '\'' && (c == '#' || c == '$') && i+1 < len(chunk) && chunk[i+1] == '{':
			parts = textFragment(parts, chunk, start, i)
			body, err := l.interpolate(chunk, i+2)
			if errors.Is(err, errUnclosedInterpolation) {
				return 0, unclosed()
			}
			if err != nil {
				return 0, err
			}
			parts = append(parts, fragment{off: i, open: chunk[i : i+2], body: body})
			i += 2 + body.Length + 1
			start = i
		default:
			i++
		}
	}
	if end < 0 {
		return 0, unclosed()
	}
	n := end + 1
	text := chunk[:n]
	loc := l.span(0, text)

	if !interpolated(parts) {
		if prev := l.prev(); prev != nil && prev.Type == types.IMPORT {
			return n, l.include(chunk[1:end], loc)
		}
		if l.keyAhead(chunk[n:]) {
			l.key(types.STRING, text, loc, l.span(n, ":"), ":")
			return n + 1, nil
		}
		l.startsValue(loc)
		l.emit(types.STRING, text, loc)
		return n, nil
	}

	l.startsValue(loc)
	pair := l.nextPair()
	l.emitPaired(types.STRING_START, quote, quoteLoc, pair)
	l.emitFragments(parts)
	l.emitPaired(types.STRING_END, quote, l.span(end, quote), pair)
	return n, nil
}
