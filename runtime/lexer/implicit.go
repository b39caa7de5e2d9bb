package lexer

import (
	"regexp"
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// keyStartRe matches a bare object key at the head of a line.
var keyStartRe = regexp.MustCompile(`^(?:[\p{L}_$][\p{L}\p{N}_$]*|"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|\d[\d_]*(?:\.\d+)?):(?:[^:=]|$)`)

// elsonKeyRe matches "name =" keys of the data dialect.
var elsonKeyRe = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$-]*[ \t]*=(?:[^=]|$)`)

// keyStart reports whether rest begins with "key:".
func (l *Lexer) keyStart(rest string) bool {
	if keyStartRe.MatchString(rest) {
		return true
	}
	return l.cfg.ELSON && elsonKeyRe.MatchString(rest)
}

// keyAhead reports whether the text after a name makes the name a key.
func (l *Lexer) keyAhead(rest string) bool {
	if l.ternary > 0 || rest == "" || rest[0] != ':' {
		return false
	}
	return len(rest) == 1 || (rest[1] != ':' && rest[1] != '=')
}

func bulletStart(rest string) bool {
	return len(rest) > 1 && (rest[0] == '-' || rest[0] == '*') && blank(rest[1])
}

// startsValue runs before a token that can begin a value. After a spaced
// callable it opens an implicit call, or the parameter list of a function
// header.
func (l *Lexer) startsValue(loc source.Location) {
	prev := l.prev()
	if prev == nil || !l.spaced || l.cfg.ELSON {
		return
	}
	if !prev.Type.IsCallable() || (prev.Generated() && prev.Type.IsCloser()) {
		return
	}
	loc = source.Point(loc.Start(), loc.Src)

	if h := l.header; h != nil && h.kind == types.FUNCTION && !h.params {
		pair := l.nextPair()
		l.generate(types.PARAM_START, "(", loc, pair)
		owner := l.owner()
		owner.contains = append(owner.contains, implicit{kind: implicitParam, pair: pair, level: l.indentLevel})
		h.params = true
		return
	}

	pair := l.nextPair()
	l.generate(types.CALL_START, "(", loc, pair)
	l.pushStage(&stage{kind: stageCall, pair: pair})
}

// key emits "key :" and opens an implicit object when one is needed.
func (l *Lexer) key(tt types.TokenType, value string, loc, colon source.Location, origin string) {
	l.startsValue(loc)
	l.openObject(loc)
	l.emit(tt, value, loc)
	tok := l.emit(types.COLON, ":", colon)
	if origin != ":" {
		tok.Origin = origin
	}
}

func (l *Lexer) openObject(loc source.Location) {
	if l.explicitMember() {
		return
	}
	owner := l.owner()
	prev := l.prev()
	if e := owner.last(); e != nil && e.kind == implicitObject && e.level == l.indentLevel &&
		prev != nil && prev.Is(types.COMMA, types.NEWLINE) {
		return
	}
	pair := l.nextPair()
	l.generate(types.LBRACE, "{", source.Point(loc.Start(), loc.Src), pair)
	owner.contains = append(owner.contains, implicit{kind: implicitObject, pair: pair, level: l.indentLevel})
}

// explicitMember reports whether a key sits directly in an explicit "{ }".
func (l *Lexer) explicitMember() bool {
	prev := l.prev()
	if prev == nil {
		return false
	}
	i := len(l.stages) - 1
	for i > 0 && l.stages[i].kind == stageIndent && !l.stages[i].value {
		i--
	}
	s := l.stages[i]
	if s.kind != stageExplicit || s.closer != "}" || len(s.contains) > 0 {
		return false
	}
	switch prev.Type {
	case types.LBRACE:
		return !prev.Generated()
	case types.COMMA, types.NEWLINE:
		return true
	case types.INDENT:
		return !prev.Flags.Has(types.FlagValueBlock)
	}
	return false
}

// comma handles "," including the implicit array it may start.
func (l *Lexer) comma(loc source.Location, rest string) {
	owner := l.owner()
	if !l.keyStart(strings.TrimLeft(rest, " \t\n")) {
		for e := owner.last(); e != nil && e.kind == implicitObject && e.level == l.indentLevel; e = owner.last() {
			l.closeImplicit(owner)
		}
	}
	if l.possibleArray(owner) {
		l.openArray(owner)
	}
	l.emit(types.COMMA, ",", loc)
}

func (l *Lexer) possibleArray(owner *stage) bool {
	if owner.kind != stageRoot && owner.kind != stageIndent {
		return false
	}
	if top := l.top().kind; top == stageCall || top == stageExplicit {
		return false
	}
	if owner.label == "import" || owner.label == "export" {
		return false
	}
	if l.port != types.ILLEGAL || l.forLine || l.typeDecl || l.header != nil {
		return false
	}
	for _, e := range owner.contains {
		if e.level == l.indentLevel {
			return false
		}
	}
	return true
}

// openArray inserts a generated "[" after the most recent accepting token,
// stepping over closed groups.
func (l *Lexer) openArray(owner *stage) {
	i := len(l.tokens) - 1
	for i >= 0 {
		t := l.tokens[i]
		if t.Type.IsCloser() && t.Pair != 0 {
			if j := l.openerIndex(i); j < i {
				i = j - 1
				continue
			}
		}
		if t.Flags.Has(types.FlagAccept) {
			break
		}
		i--
	}
	at := i + 1

	pair := l.nextPair()
	var tok types.Token
	if at < len(l.tokens) {
		next := l.tokens[at]
		tok = l.newToken(types.LBRACKET, "[", source.Point(next.Loc.Start(), next.Loc.Src), pair)
		tok.Stage, tok.Level = next.Stage, next.Level
	} else {
		tok = l.newToken(types.LBRACKET, "[", l.point(0), pair)
	}
	tok.Flags |= types.FlagGenerated
	l.insert(at, tok)
	owner.contains = append(owner.contains, implicit{kind: implicitArray, pair: pair, level: l.indentLevel})
}

// bullet handles a "-" or "*" item marker of the data dialect.
func (l *Lexer) bullet(loc source.Location) {
	owner := l.owner()
	prev := l.prev()
	if e := owner.last(); e != nil && e.kind == implicitArray && e.bullet && e.level == l.indentLevel &&
		prev != nil && prev.Type == types.NEWLINE {
		l.tokens = l.tokens[:len(l.tokens)-1]
		l.generate(types.COMMA, ",", loc, 0)
		return
	}
	pair := l.nextPair()
	l.generate(types.LBRACKET, "[", loc, pair)
	owner.contains = append(owner.contains, implicit{kind: implicitArray, pair: pair, level: l.indentLevel, bullet: true})
}
