package lexer

import (
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// operators in longest-match order.
var operators = []struct {
	text string
	tt   types.TokenType
}{
	{">>>=", types.MATH_BIN},
	{"===", types.STRICT_EQ},
	{"!==", types.STRICT_NOT_EQ},
	{">>>", types.USHR},
	{"**=", types.MATH_BIN},
	{"<<=", types.MATH_BIN},
	{">>=", types.MATH_BIN},
	{"&&=", types.MATH_BIN},
	{"||=", types.MATH_BIN},
	{"??=", types.MATH_BIN},
	{"...", types.SPREAD},
	{"->", types.FUNC_DIRECTIVE},
	{"=>", types.FUNC_DIRECTIVE},
	{"?.", types.DOT},
	{"::", types.PROTO},
	{"==", types.EQ},
	{"!=", types.NOT_EQ},
	{"<=", types.LT_EQ},
	{">=", types.GT_EQ},
	{"<<", types.SHL},
	{">>", types.SHR},
	{"**", types.POW},
	{"&&", types.LAND},
	{"||", types.LOR},
	{"??", types.NULLISH},
	{"++", types.INCR},
	{"--", types.DECR},
	{"+=", types.MATH_BIN},
	{"-=", types.MATH_BIN},
	{"*=", types.MATH_BIN},
	{"/=", types.MATH_BIN},
	{"%=", types.MATH_BIN},
	{"^=", types.MATH_BIN},
	{"&=", types.MATH_BIN},
	{"|=", types.MATH_BIN},
	{"(", types.LPAREN},
	{")", types.RPAREN},
	{"[", types.LBRACKET},
	{"]", types.RBRACKET},
	{"{", types.LBRACE},
	{"}", types.RBRACE},
	{",", types.COMMA},
	{":", types.COLON},
	{".", types.DOT},
	{"?", types.QUESTION},
	{"@", types.AT_SIGN},
	{"+", types.PLUS},
	{"-", types.MINUS},
	{"*", types.STAR},
	{"/", types.DIVISION},
	{"%", types.PERCENT},
	{"^", types.CARET},
	{"&", types.AMP},
	{"|", types.PIPE},
	{"!", types.BANG},
	{"~", types.TILDE},
	{"<", types.LT},
	{">", types.GT},
}

// controlKeywords mark a "(" that follows them directly.
var controlKeywords = map[types.TokenType]bool{
	types.WHILE: true,
	types.UNTIL: true,
	types.FOR:   true,
	types.CATCH: true,
	types.WITH:  true,
}

func matchOperator(chunk string) (string, types.TokenType) {
	for _, op := range operators {
		if strings.HasPrefix(chunk, op.text) {
			return op.text, op.tt
		}
	}
	return "", types.ILLEGAL
}

// lexLiteral handles punctuation and operators.
func lexLiteral(l *Lexer, chunk string) (int, error) {
	op, tt := matchOperator(chunk)
	if op == "" {
		return 0, nil
	}
	loc := l.span(0, op)
	prev := l.prev()

	switch tt {
	case types.LPAREN, types.LBRACKET, types.LBRACE:
		l.openBracket(tt, op, loc)
		return 1, nil
	case types.RPAREN, types.RBRACKET, types.RBRACE:
		return l.closeBracket(op, loc)
	case types.COMMA:
		l.comma(loc, chunk[1:])
		return 1, nil
	case types.COLON:
		if l.ternary > 0 {
			l.ternary--
		}
	case types.QUESTION:
		if prev != nil && !l.spaced && prev.Type.IsValueEnd() {
			if strings.HasPrefix(chunk[1:], "(") {
				tt = types.FUNC_EXISTS
			} else {
				tt = types.SYMBOL_EXISTS
			}
			break
		}
		l.ternary++
	case types.FUNC_DIRECTIVE:
		l.arrow(op, loc)
		return len(op), nil
	case types.MATH_BIN:
		l.emit(tt, op, loc).Origin = op
		return len(op), nil
	case types.DOT:
		if op == "?." {
			l.emit(tt, ".", loc).Origin = op
			return len(op), nil
		}
	case types.PIPE, types.AMP:
		if l.typeDecl {
			tt = types.TYPE_JOIN
		}
	case types.MINUS, types.STAR:
		if l.cfg.ELSON && (prev == nil || prev.Is(types.NEWLINE, types.INDENT)) && bulletStart(chunk) {
			l.bullet(loc)
			return 1, nil
		}
		if tt == types.MINUS && unaryStart(chunk[1:]) {
			l.startsValue(loc)
		}
	case types.PLUS:
		if unaryStart(chunk[1:]) {
			l.startsValue(loc)
		}
	case types.BANG, types.TILDE, types.SPREAD, types.AT_SIGN:
		l.startsValue(loc)
	case types.INCR, types.DECR:
		if unaryStart(chunk[len(op):]) {
			l.startsValue(loc)
		}
	}

	l.emit(tt, op, loc)
	return len(op), nil
}

// unaryStart reports whether an operator followed by rest is a prefix
// operator in argument position ("foo -1" but not "foo - 1").
func unaryStart(rest string) bool {
	return rest != "" && !blank(rest[0]) && rest[0] != '\n' && rest[0] != '='
}

// openBracket emits an explicit opener and pushes its stage.
func (l *Lexer) openBracket(tt types.TokenType, op string, loc source.Location) {
	prev := l.prev()
	control := false

	switch tt {
	case types.LPAREN:
		switch h := l.header; {
		case prev != nil && prev.Type == types.FUNC_EXISTS:
			tt = types.CALL_START
		case h != nil && h.kind == types.FUNCTION && !h.params && prev != nil && (prev.Type == types.FUNCTION || (prev.Type == types.IDENTIFIER && len(l.tokens)-1 == h.start+1)):
			tt = types.PARAM_START
			h.params = true
		case prev != nil && !l.spaced && prev.Type.IsCallable():
			tt = types.CALL_START
		default:
			control = prev != nil && controlKeywords[prev.Type]
			l.startsValue(loc)
		}
	case types.LBRACKET:
		if prev != nil && !l.spaced && prev.Type.IsIndexable() {
			tt = types.INDEX_START
		} else {
			l.startsValue(loc)
		}
	default:
		l.startsValue(loc)
	}

	pair := l.nextPair()
	tok := l.emitPaired(tt, op, loc, pair)
	if control {
		tok.Flags |= types.FlagControlParen
	}
	l.explicit = append(l.explicit, explicitRecord{
		closer:       closerOf(op),
		indentAtOpen: l.indentLevel,
		pair:         pair,
		stageDepth:   len(l.stages),
		controlParen: control,
		opener:       *tok,
	})
	l.pushStage(&stage{kind: stageExplicit, label: l.top().label, pair: pair, opener: tt, closer: closerOf(op)})
}

func closerOf(op string) string {
	switch op {
	case "(":
		return ")"
	case "[":
		return "]"
	default:
		return "}"
	}
}

// closeBracket matches an explicit closer against the innermost opener.
func (l *Lexer) closeBracket(op string, loc source.Location) (int, error) {
	n := len(l.explicit)
	if n == 0 {
		if l.cfg.Interpolation && op == "}" {
			l.done = true
			return 0, nil
		}
		return 0, source.Errorf(source.KindSyntax, loc, "unmatched %q", op)
	}
	rec := l.explicit[n-1]
	if rec.closer != op {
		return 0, source.Errorf(source.KindError, rec.opener.Loc, "missing %q for this token", rec.closer)
	}

	for len(l.stages) > rec.stageDepth+1 {
		l.closeStage()
	}
	s := l.top()
	l.closeAll(s)
	l.trimNewlines()
	l.stages = l.stages[:len(l.stages)-1]
	l.explicit = l.explicit[:n-1]
	l.indentLevel = rec.indentAtOpen
	l.logger.Debug("[LEXER] pop stage", "kind", s.kind, "id", s.id, "level", l.indentLevel)

	l.emitPaired(rec.opener.Type.Closer(), op, loc, rec.pair)
	return 1, nil
}

// arrow emits "->" or "=>". A parenthesised group right before it becomes
// the parameter list; without one an empty list is generated.
func (l *Lexer) arrow(op string, loc source.Location) {
	prev := l.prev()
	switch {
	case prev != nil && prev.Type == types.RPAREN:
		i := len(l.tokens) - 1
		j := l.openerIndex(i)
		l.tokens[j].Type = types.PARAM_START
		l.tokens[i].Type = types.PARAM_END
		for k := j + 1; k < i; k++ {
			if t := &l.tokens[k]; t.Type == types.AS && t.Origin == "=" {
				t.Type = types.DEFAULTS
				t.Origin = ""
			}
		}
	case prev != nil && prev.Type == types.PARAM_END:
	default:
		l.startsValue(loc)
		pair := l.nextPair()
		at := source.Point(loc.Start(), loc.Src)
		l.generate(types.PARAM_START, "(", at, pair)
		l.generate(types.PARAM_END, ")", at, pair)
	}
	l.emit(types.FUNC_DIRECTIVE, op, loc)
	l.setHeader(types.FUNC_DIRECTIVE, "")
}
