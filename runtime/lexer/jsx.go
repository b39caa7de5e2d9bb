package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// jsxParser walks one JSX element. Markup is kept as raw text; "{expr}"
// bodies are lexed by child lexers as they are found.
type jsxParser struct {
	l     *Lexer
	chunk string
	pos   int
	parts []fragment
	start int // start of the pending markup text
}

// jsxError is a tag structure problem; it is reported in a strict position
// and means "not JSX" in a soft one.
type jsxError struct {
	off int
	msg string
}

func (e *jsxError) Error() string { return e.msg }

func lexJSX(l *Lexer, chunk string) (int, error) {
	if len(chunk) < 2 || chunk[0] != '<' {
		return 0, nil
	}
	if next, _ := utf8.DecodeRuneInString(chunk[1:]); next != '>' && next != '/' && !identStart(next) {
		return 0, nil
	}
	prev := l.prev()
	strict := prev == nil || (!prev.Type.IsValueEnd() && prev.Type != types.TYPE_END)
	soft := !strict && l.spaced && prev.Type.IsCallable() && chunk[1] != '/'
	if !strict && !soft {
		return 0, nil
	}

	p := &jsxParser{l: l, chunk: chunk}
	err := p.element()
	if err != nil {
		var jerr *jsxError
		if errors.As(err, &jerr) {
			if soft {
				return 0, nil
			}
			return 0, source.Errorf(source.KindSyntax, l.point(jerr.off), "%s", jerr.msg)
		}
		return 0, err
	}
	p.flush(p.pos)

	loc := l.span(0, chunk[:p.pos])
	l.startsValue(loc)
	pair := l.nextPair()
	l.generate(types.JSX_START, "", l.point(0), pair)
	l.emitFragments(p.parts)
	l.generate(types.JSX_END, "", l.point(p.pos), pair)
	return p.pos, nil
}

func (p *jsxParser) fail(off int, format string, args ...any) error {
	return &jsxError{off: off, msg: fmt.Sprintf(format, args...)}
}

func (p *jsxParser) flush(end int) {
	p.parts = textFragment(p.parts, p.chunk, p.start, end)
	p.start = end
}

func (p *jsxParser) name() string {
	n := 0
	for n < len(p.chunk[p.pos:]) {
		c := p.chunk[p.pos+n]
		if c < 128 && (isIdentPart[c] || c == '-' || c == '.' || c == ':') {
			n++
			continue
		}
		break
	}
	s := p.chunk[p.pos : p.pos+n]
	p.pos += n
	return s
}

func (p *jsxParser) skipSpace() {
	for p.pos < len(p.chunk) && strings.ContainsRune(" \t\n", rune(p.chunk[p.pos])) {
		p.pos++
	}
}

// embed lexes the "{expr}" at p.pos.
func (p *jsxParser) embed() error {
	p.flush(p.pos)
	body, err := p.l.interpolate(p.chunk, p.pos+1)
	if errors.Is(err, errUnclosedInterpolation) {
		return p.fail(p.pos, "missing } in JSX expression")
	}
	if err != nil {
		return err
	}
	p.parts = append(p.parts, fragment{off: p.pos, open: "{", body: body})
	p.pos += 1 + body.Length + 1
	p.start = p.pos
	return nil
}

// element parses "<tag attrs>children</tag>", "<tag/>" or "<>children</>".
func (p *jsxParser) element() error {
	open := p.pos
	p.pos++ // <
	if strings.HasPrefix(p.chunk[p.pos:], "/") {
		p.pos++
		tag := p.name()
		return p.fail(open, "<%s> must be opened first before closing it", tag)
	}
	tag := p.name()

	for {
		p.skipSpace()
		if p.pos >= len(p.chunk) {
			return p.fail(open, "missing closing </%s>", tag)
		}
		switch c := p.chunk[p.pos]; {
		case strings.HasPrefix(p.chunk[p.pos:], "/>"):
			p.pos += 2
			return nil
		case c == '>':
			p.pos++
			return p.children(open, tag)
		case c == '{':
			if err := p.embed(); err != nil {
				return err
			}
		case c < 128 && (isIdentStart[c] || c == '-'):
			p.name()
			if p.pos < len(p.chunk) && p.chunk[p.pos] == '=' {
				p.pos++
				if err := p.attrValue(open, tag); err != nil {
					return err
				}
			}
		default:
			return p.fail(p.pos, "unexpected %s in <%s>", firstRune(p.chunk[p.pos:]), tag)
		}
	}
}

func (p *jsxParser) attrValue(open int, tag string) error {
	if p.pos >= len(p.chunk) {
		return p.fail(open, "missing closing </%s>", tag)
	}
	switch q := p.chunk[p.pos]; q {
	case '"', '\'':
		end := strings.IndexByte(p.chunk[p.pos+1:], q)
		if end < 0 {
			return p.fail(p.pos, "missing %c in attribute of <%s>", q, tag)
		}
		p.pos += end + 2
		return nil
	case '{':
		return p.embed()
	default:
		return p.fail(p.pos, "unexpected %s in <%s>", firstRune(p.chunk[p.pos:]), tag)
	}
}

// children parses element content up to the closing tag of tag.
func (p *jsxParser) children(open int, tag string) error {
	for p.pos < len(p.chunk) {
		switch {
		case strings.HasPrefix(p.chunk[p.pos:], "</"):
			closeAt := p.pos
			p.pos += 2
			name := p.name()
			p.skipSpace()
			if strings.HasPrefix(p.chunk[p.pos:], "/>") {
				return p.fail(closeAt, "a JSX element may close itself, or may close another element, but not both")
			}
			if p.pos >= len(p.chunk) || p.chunk[p.pos] != '>' {
				return p.fail(closeAt, "missing > in </%s>", name)
			}
			p.pos++
			if name != tag {
				return p.fail(closeAt, "expected <%s> to be closed before closing <%s>", tag, name)
			}
			return nil
		case p.chunk[p.pos] == '<':
			if err := p.element(); err != nil {
				return err
			}
		case p.chunk[p.pos] == '{':
			if err := p.embed(); err != nil {
				return err
			}
		default:
			p.pos++
		}
	}
	return p.fail(open, "missing closing </%s>", tag)
}
