package lexer

import (
	"github.com/relic-lang/relic/core/invariant"
	"github.com/relic-lang/relic/core/types"
)

type stageKind int

const (
	stageRoot stageKind = iota
	stageIndent
	stageExplicit
	stageCall       // implicit call closed at the end of its line
	stageIndentCall // implicit call whose arguments form an indented block
)

func (k stageKind) String() string {
	switch k {
	case stageRoot:
		return "root"
	case stageIndent:
		return "indent"
	case stageExplicit:
		return "explicit"
	case stageCall:
		return "call"
	case stageIndentCall:
		return "indent&call"
	default:
		return "unknown"
	}
}

type implicitKind int

const (
	implicitObject implicitKind = iota
	implicitArray
	implicitParam
)

// implicit is an open implicit construct awaiting its generated closer.
type implicit struct {
	kind   implicitKind
	pair   int
	level  int // indentation level it was opened at
	bullet bool
}

func (e implicit) closer() (types.TokenType, string) {
	switch e.kind {
	case implicitObject:
		return types.RBRACE, "}"
	case implicitArray:
		return types.RBRACKET, "]"
	default:
		return types.PARAM_END, ")"
	}
}

// stage is one frame of the nesting stack.
type stage struct {
	kind   stageKind
	label  string
	id     int
	base   int // indentation level before the stage opened
	indent int // levels added by the stage
	pair   int // pair of the opening token
	// indentPair is the INDENT pair of an indent&call stage.
	indentPair int

	// value marks an indent block opened after ":" or "=". Implicit
	// constructs inside it are recorded on the enclosing stage.
	value bool

	// opener and closer of an explicit stage.
	opener types.TokenType
	closer string

	contains []implicit
}

func (s *stage) last() *implicit {
	if len(s.contains) == 0 {
		return nil
	}
	return &s.contains[len(s.contains)-1]
}

func (l *Lexer) top() *stage {
	return l.stages[len(l.stages)-1]
}

// owner is the innermost stage that records implicit constructs.
func (l *Lexer) owner() *stage {
	for i := len(l.stages) - 1; i > 0; i-- {
		if !l.stages[i].value {
			return l.stages[i]
		}
	}
	return l.stages[0]
}

func (l *Lexer) pushStage(s *stage) *stage {
	l.stageSeq++
	s.id = l.stageSeq
	s.base = l.indentLevel
	l.stages = append(l.stages, s)
	l.indentLevel += s.indent
	l.logger.Debug("[LEXER] push stage",
		"kind", s.kind,
		"label", s.label,
		"id", s.id,
		"level", l.indentLevel)
	return s
}

// inClass reports whether the innermost block is a class body.
func (l *Lexer) inClass() bool {
	for i := len(l.stages) - 1; i > 0; i-- {
		s := l.stages[i]
		if s.kind == stageIndent && !s.value {
			return s.label == "class"
		}
	}
	return false
}

// inParams reports whether the lexer is inside a parameter list.
func (l *Lexer) inParams() bool {
	if s := l.top(); s.kind == stageExplicit && s.opener == types.PARAM_START {
		return true
	}
	e := l.owner().last()
	return e != nil && e.kind == implicitParam
}

// closeStage pops the top stage and emits its closers.
func (l *Lexer) closeStage() {
	s := l.top()
	invariant.Invariant(s.kind != stageRoot && s.kind != stageExplicit,
		"%s stage cannot be closed implicitly", s.kind)

	if !s.value {
		l.closeAll(s)
	}
	l.stages = l.stages[:len(l.stages)-1]
	loc := l.point(0)

	l.logger.Debug("[LEXER] pop stage", "kind", s.kind, "id", s.id, "level", s.base)

	switch s.kind {
	case stageIndent:
		l.trimNewlines()
		l.generate(types.OUTDENT, "", loc, s.pair)
		l.indentLevel = s.base
		if s.value {
			l.closeAbove(l.owner(), l.indentLevel)
		}
	case stageIndentCall:
		l.trimNewlines()
		l.generate(types.OUTDENT, "", loc, s.indentPair)
		l.indentLevel = s.base
		l.generate(types.CALL_END, ")", loc, s.pair)
	case stageCall:
		l.generate(types.CALL_END, ")", loc, s.pair)
	}
}

// closeCalls closes the implicit calls opened on the current line.
func (l *Lexer) closeCalls() {
	for l.top().kind == stageCall {
		l.closeStage()
	}
}

// closeCallsAbove closes implicit calls opened above stage depth.
func (l *Lexer) closeCallsAbove(depth int) {
	for len(l.stages) > depth && l.top().kind == stageCall {
		l.closeStage()
	}
}

// closeImplicit closes the innermost construct recorded on s.
func (l *Lexer) closeImplicit(s *stage) {
	e := s.contains[len(s.contains)-1]
	s.contains = s.contains[:len(s.contains)-1]
	l.trimNewlines()
	tt, value := e.closer()
	l.generate(tt, value, l.point(0), e.pair)
}

func (l *Lexer) closeAll(s *stage) {
	for len(s.contains) > 0 {
		l.closeImplicit(s)
	}
}

// closeAbove closes constructs on s opened deeper than level.
func (l *Lexer) closeAbove(s *stage, level int) {
	for e := s.last(); e != nil && e.level > level; e = s.last() {
		l.closeImplicit(s)
	}
}

// closeFrom closes constructs on s opened at level or deeper.
func (l *Lexer) closeFrom(s *stage, level int) {
	for e := s.last(); e != nil && e.level >= level; e = s.last() {
		l.closeImplicit(s)
	}
}

// closeAtLevel runs at a line break: constructs deeper than level close,
// and those at level close unless the next line continues them.
func (l *Lexer) closeAtLevel(s *stage, level int, rest string, blank int) {
	for e := s.last(); e != nil && e.level >= level; e = s.last() {
		if e.level == level && l.continues(*e, rest, blank) {
			return
		}
		l.closeImplicit(s)
	}
}

// continues reports whether the line at rest carries on construct e.
func (l *Lexer) continues(e implicit, rest string, blank int) bool {
	if blank > 0 {
		return false
	}
	switch {
	case e.kind == implicitObject:
		return l.keyStart(rest)
	case e.kind == implicitArray && e.bullet:
		return bulletStart(rest)
	}
	return false
}
