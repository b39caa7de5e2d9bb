package lexer

import (
	"errors"
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// ErrTypeNesting is returned by a TypeResolver that refuses to go deeper.
var ErrTypeNesting = errors.New("type annotation nesting too deep")

// lexInlineType handles generic lists "<...>" after a callable, and the
// ":Type", "?:Type" and ":= Type" annotations.
func lexInlineType(l *Lexer, chunk string) (int, error) {
	prev := l.prev()
	if prev == nil {
		return 0, nil
	}
	switch {
	case chunk[0] == '<':
		return l.genericList(prev, chunk)
	case strings.HasPrefix(chunk, ":=") && prev.Is(types.RPAREN, types.PARAM_END):
		return l.annotate(prev, chunk, 2, false, true)
	case strings.HasPrefix(chunk, "?:") && !l.spaced && prev.Is(types.IDENTIFIER, types.PROPERTY):
		return l.annotate(prev, chunk, 2, true, false)
	case chunk[0] == ':' && l.spaced && l.ternary == 0 && prev.Type.IsValueEnd() && len(chunk) > 1 &&
		!strings.ContainsRune(" \t\n:=", rune(chunk[1])):
		return l.annotate(prev, chunk, 1, false, false)
	}
	return 0, nil
}

// annotate attaches the type that starts skip bytes into chunk to tok.
func (l *Lexer) annotate(tok *types.Token, chunk string, skip int, optional, ret bool) (int, error) {
	off := skip + len(chunk[skip:]) - len(skipBlanks(chunk[skip:]))
	n := scanType(chunk[off:])
	if n == 0 {
		return 0, nil
	}
	text := chunk[off : off+n]
	loc := l.span(off, text)
	node, err := l.resolveType(text, loc)
	if err != nil {
		return 0, err
	}
	tok.Annotation = &types.TypeAnnotation{Text: text, Loc: loc, Optional: optional, Return: ret, Node: node}
	l.isTypeScript = true
	return off + n, nil
}

// genericList recognizes "<T, U>" directly after a callable when a call,
// an assignment or a type declaration follows.
func (l *Lexer) genericList(prev *types.Token, chunk string) (int, error) {
	if l.spaced || !prev.Type.IsCallable() || len(chunk) < 2 || blank(chunk[1]) || chunk[1] == '=' || chunk[1] == '<' {
		return 0, nil
	}
	end := matchAngles(chunk)
	if end < 0 {
		return 0, nil
	}
	rest := skipBlanks(chunk[end+1:])
	generic := l.typeDecl || (l.header != nil && l.header.kind == types.CLASS) ||
		strings.HasPrefix(rest, "(") || (strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "=="))
	if !generic {
		return 0, nil
	}

	text := chunk[1:end]
	loc := l.span(1, text)
	node, err := l.resolveType("["+text+"]", loc)
	if err != nil {
		return 0, err
	}
	pair := l.nextPair()
	start := l.emitPaired(types.TYPE_START, "<", l.span(0, "<"), pair)
	start.Annotation = &types.TypeAnnotation{Text: text, Loc: loc, Node: node}
	l.emitPaired(types.TYPE_END, ">", l.span(end, ">"), pair)
	l.isTypeScript = true
	return end + 1, nil
}

// resolveType compiles an annotation through the configured resolver.
func (l *Lexer) resolveType(text string, loc source.Location) (*types.Node, error) {
	if l.cfg.TypeResolver == nil {
		return nil, nil
	}
	node, err := l.cfg.TypeResolver(text, loc, l.cfg.Depth)
	switch {
	case err == nil:
		return node, nil
	case errors.Is(err, ErrTypeNesting):
		return nil, source.Errorf(source.KindError, loc, "%s", ErrTypeNesting)
	default:
		l.logger.Debug("[LEXER] type rejected", "text", text, "err", err)
		return nil, source.Errorf(source.KindSyntax, loc, "Invalid type")
	}
}

// matchAngles returns the index of the ">" closing the "<" at s[0] on the
// same line, or -1.
func matchAngles(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
			if depth == 0 {
				return i
			}
		case '\n', ';':
			return -1
		}
	}
	return -1
}

// scanType returns the length of the type expression at the head of s. It
// stops at a line break, or at a top-level ",", closer, "=" or "->".
func scanType(s string) int {
	var stack []byte
	end := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if len(stack) == 0 {
			if c == '\n' || c == ',' || c == ';' || c == '#' || c == ')' || c == ']' || c == '}' {
				break
			}
			if c == '=' && !strings.HasPrefix(s[i:], "=>") {
				break
			}
			if strings.HasPrefix(s[i:], "->") {
				break
			}
		}
		switch c {
		case '(', '[', '{', '<':
			stack = append(stack, c)
		case ')', ']', '}', '>':
			if len(stack) > 0 && !(c == '>' && i > 0 && s[i-1] == '=') {
				stack = stack[:len(stack)-1]
			}
		case '"', '\'':
			j := strings.IndexByte(s[i+1:], c)
			if j < 0 {
				return end
			}
			i += j + 1
		case '\n':
			return end
		}
		if !blank(c) {
			end = i + 1
		}
	}
	return end
}
