package lexer

import (
	"regexp"
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// separatorRe matches a line break, any blank lines after it, and the
// indentation of the next line.
var separatorRe = regexp.MustCompile(`^\n(?:[ \t]*\n)*[ \t]*`)

// clauseRe matches words that continue the statement before an OUTDENT.
var clauseRe = regexp.MustCompile(`^(?:else|otherwise|catch|finally)\b`)

func lexWhitespace(l *Lexer, chunk string) (int, error) {
	n := len(chunk) - len(skipBlanks(chunk))
	if n > 0 {
		l.spaced = true
	}
	return n, nil
}

func lexSeparator(l *Lexer, chunk string) (int, error) {
	if chunk[0] == ';' {
		return 1, l.semicolon(chunk[1:])
	}
	m := separatorRe.FindString(chunk)
	if m == "" {
		return 0, nil
	}
	rest := chunk[len(m):]
	blank := strings.Count(m, "\n") - 1
	level := l.measure(m[strings.LastIndexByte(m, '\n')+1:])
	if p := l.pending; p != nil {
		blank += p.blank
		l.pending = nil
	}
	l.spaced = false

	if startsComment(rest) {
		l.pending = &pendingBreak{level: level, blank: blank}
		return len(m), nil
	}
	if l.prev() == nil {
		return len(m), nil
	}
	if rest == "" {
		level = 0
	}
	return len(m), l.lineBreak(level, blank, rest, len(m))
}

// measure converts leading whitespace to indentation levels.
func (l *Lexer) measure(indent string) int {
	tabs := strings.Count(indent, "\t")
	spaces := len(indent) - tabs
	return tabs + spaces/l.cfg.TabSize
}

// lineBreak applies the indentation state machine to a line starting at
// level. off is where that line starts in the current chunk.
func (l *Lexer) lineBreak(level, blank int, rest string, off int) error {
	if l.continuesLine(level, rest) {
		return nil
	}
	switch {
	case level > l.indentLevel:
		l.indent(level-l.indentLevel, l.point(off))
		return nil
	case level < l.indentLevel:
		if err := l.outdent(level, rest, l.point(off)); err != nil {
			return err
		}
	}
	l.newline(blank, rest, l.point(0), "\n")
	return nil
}

// continuesLine reports whether the next line carries on the expression.
func (l *Lexer) continuesLine(level int, rest string) bool {
	prev := l.prev()
	if prev.Type.IsUnfinished() && !prev.Generated() && level >= l.indentLevel {
		return true
	}
	if strings.HasPrefix(rest, "?.") {
		return true
	}
	return len(rest) > 1 && rest[0] == '.' && rest[1] != '.' && !digit(rest[1])
}

func (l *Lexer) indent(n int, loc source.Location) {
	prev := l.prev()
	switch {
	case prev.Type.IsOpener() && !prev.Generated():
		l.openBlock(n, l.top().label, false, loc)

	case prev.Is(types.COLON, types.AS):
		l.openBlock(n, "", true, loc)

	case l.header != nil:
		l.openHeaderBlock(n, loc)

	case prev.Type.IsCallable() && !prev.Generated() && !l.cfg.ELSON:
		callPair := l.nextPair()
		l.generate(types.CALL_START, "(", loc, callPair)
		indentPair := l.nextPair()
		l.generate(types.INDENT, "", loc, indentPair)
		l.pushStage(&stage{kind: stageIndentCall, indent: n, pair: callPair, indentPair: indentPair})

	default:
		label := ""
		switch l.port {
		case types.IMPORT:
			label = "import"
		case types.EXPORT:
			label = "export"
		}
		l.openBlock(n, label, false, loc)
	}
}

func (l *Lexer) openBlock(n int, label string, value bool, loc source.Location) {
	pair := l.nextPair()
	tok := l.generate(types.INDENT, "", loc, pair)
	if value {
		tok.Flags |= types.FlagValueBlock
	}
	l.pushStage(&stage{kind: stageIndent, label: label, indent: n, pair: pair, value: value})
}

// thenHeaders take a generated THEN before their block.
var thenHeaders = map[types.TokenType]bool{
	types.IF:     true,
	types.UNLESS: true,
	types.WHILE:  true,
	types.UNTIL:  true,
	types.FOR:    true,
	types.WHEN:   true,
	types.SWITCH: true,
	types.WITH:   true,
}

// openHeaderBlock normalises a control header followed by a block: implicit
// calls and params on the header close, an if/unless condition is wrapped in
// parentheses, and THEN precedes the INDENT.
func (l *Lexer) openHeaderBlock(n int, loc source.Location) {
	h := l.header
	l.finishHeader(h, loc)
	if thenHeaders[h.kind] {
		l.generate(types.THEN, "then", loc, 0)
	}
	l.header = nil
	l.openBlock(n, h.label, false, loc)
}

// finishHeader closes what the header line left open.
func (l *Lexer) finishHeader(h *header, loc source.Location) {
	l.closeCallsAbove(h.depth)
	owner := l.owner()
	for len(owner.contains) > h.mark {
		l.closeImplicit(owner)
	}
	if h.kind == types.FUNCTION && !h.params {
		pair := l.nextPair()
		l.generate(types.PARAM_START, "(", loc, pair)
		l.generate(types.PARAM_END, ")", loc, pair)
		h.params = true
	}
	if h.kind == types.IF || h.kind == types.UNLESS {
		l.wrapCondition(h)
	}
}

// wrapCondition puts the tokens after the header keyword in generated
// parentheses unless they already form one group.
func (l *Lexer) wrapCondition(h *header) {
	cond := l.tokens[h.start+1:]
	if len(cond) == 0 {
		return
	}
	first, last := cond[0], cond[len(cond)-1]
	if first.Type == types.LPAREN && last.Type == types.RPAREN && first.Pair == last.Pair {
		return
	}
	pair := l.nextPair()
	open := l.newToken(types.LPAREN, "(", source.Point(first.Loc.Start(), first.Loc.Src), pair)
	open.Flags |= types.FlagGenerated
	open.Stage, open.Level = first.Stage, first.Level
	l.insert(h.start+1, open)
	l.generate(types.RPAREN, ")", source.Point(last.Loc.End(), last.Loc.Src), pair)
}

// outdent pops stages down to level.
func (l *Lexer) outdent(level int, rest string, loc source.Location) error {
	closing := rest != "" && strings.ContainsRune(")]}", rune(rest[0]))
	for {
		s := l.top()
		if s.kind == stageCall {
			l.closeStage()
			continue
		}
		if (s.kind == stageIndent || s.kind == stageIndentCall) && (s.base >= level || closing) {
			l.closeStage()
			continue
		}
		break
	}
	if s := l.top(); l.indentLevel != level && !closing && s.kind != stageExplicit {
		return source.Errorf(source.KindSyntax, loc, "unindent does not match any outer indentation level")
	}
	return nil
}

// newline ends a logical line at the current indentation.
func (l *Lexer) newline(blank int, rest string, loc source.Location, origin string) {
	l.closeCalls()
	if l.top().kind != stageExplicit {
		l.endLine()
	}
	l.closeAtLevel(l.owner(), l.indentLevel, rest, blank)

	prev := l.prev()
	switch {
	case prev == nil:
	case prev.Type == types.NEWLINE:
		prev.Count += blank
	case prev.Is(types.INDENT, types.COMMA) || prev.Type.IsOpener():
	case prev.Type == types.OUTDENT && clauseRe.MatchString(rest):
	default:
		tok := l.emit(types.NEWLINE, origin, loc)
		tok.Count = blank
		if origin != "\n" {
			tok.Origin = origin
		}
	}
}

// semicolon separates statements, or the clauses of a for header.
func (l *Lexer) semicolon(rest string) error {
	if l.forLine && len(l.explicit) > 0 {
		l.emit(types.SEMICOLON, ";", l.span(0, ";"))
		return nil
	}
	if l.prev() == nil {
		return nil
	}
	l.newline(0, skipBlanks(rest), l.span(0, ";"), ";")
	return nil
}
