package lexer

import (
	"regexp"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// keywords maps reserved words to their tags.
var keywords = map[string]types.TokenType{
	"true":       types.BOOL,
	"false":      types.BOOL,
	"yes":        types.BOOL,
	"no":         types.BOOL,
	"null":       types.NULL,
	"nil":        types.NULL,
	"undefined":  types.UNDEFINED,
	"this":       types.THIS,
	"super":      types.SUPER,
	"Infinity":   types.INFINITY,
	"function":   types.FUNCTION,
	"const":      types.CONST,
	"var":        types.VAR,
	"let":        types.LET,
	"local":      types.LET,
	"default":    types.DEFAULT,
	"if":         types.IF,
	"else":       types.ELSE,
	"otherwise":  types.ELSE,
	"unless":     types.UNLESS,
	"while":      types.WHILE,
	"until":      types.UNTIL,
	"for":        types.FOR,
	"loop":       types.LOOP,
	"switch":     types.SWITCH,
	"case":       types.CASE,
	"when":       types.WHEN,
	"then":       types.THEN,
	"do":         types.DO,
	"try":        types.TRY,
	"catch":      types.CATCH,
	"finally":    types.FINALLY,
	"throw":      types.THROW,
	"return":     types.RETURN,
	"break":      types.BREAK,
	"continue":   types.CONTINUE,
	"debugger":   types.DEBUGGER,
	"class":      types.CLASS,
	"extends":    types.EXTENDS,
	"extending":  types.EXTENDS,
	"implements": types.IMPLEMENTS,
	"static":     types.STATIC,
	"get":        types.GET,
	"set":        types.SET,
	"readonly":   types.READONLY,
	"async":      types.ASYNC,
	"await":      types.AWAIT,
	"yield":      types.YIELD,
	"new":        types.NEW,
	"delete":     types.DELETE,
	"typeof":     types.TYPEOF,
	"keyof":      types.KEYOF,
	"instanceof": types.INSTANCEOF,
	"void":       types.VOID,
	"and":        types.AND,
	"or":         types.OR,
	"not":        types.NOT,
	"is":         types.IS,
	"isnt":       types.ISNT,
	"in":         types.IN,
	"of":         types.OF,
	"exists":     types.EXISTS,
	"includes":   types.INCLUDES,
	"with":       types.WITH,
	"using":      types.USING,
	"type":       types.TYPE,
	"interface":  types.INTERFACE,
}

// aliases keep their spelling as the token origin.
var aliases = map[string]bool{
	"yes":       true,
	"no":        true,
	"nil":       true,
	"local":     true,
	"otherwise": true,
	"extending": true,
}

// contextual words are keywords only in a class body.
var contextual = map[string]bool{
	"get":      true,
	"set":      true,
	"static":   true,
	"readonly": true,
}

// valueKeywords can begin a value, so they may open an implicit call.
var valueKeywords = map[types.TokenType]bool{
	types.BOOL:      true,
	types.NULL:      true,
	types.UNDEFINED: true,
	types.THIS:      true,
	types.SUPER:     true,
	types.INFINITY:  true,
	types.NEW:       true,
	types.TYPEOF:    true,
	types.KEYOF:     true,
	types.AWAIT:     true,
	types.NOT:       true,
	types.DELETE:    true,
	types.VOID:      true,
	types.FUNCTION:  true,
	types.DO:        true,
	types.ASYNC:     true,
}

// headerLabels lists the keywords that open a control header, with the
// label given to the block that follows.
var headerLabels = map[types.TokenType]string{
	types.IF:       "",
	types.UNLESS:   "",
	types.WHILE:    "",
	types.UNTIL:    "",
	types.FOR:      "",
	types.SWITCH:   "switch",
	types.CLASS:    "class",
	types.FUNCTION: "",
	types.TRY:      "",
	types.CATCH:    "",
	types.FINALLY:  "",
	types.ELSE:     "",
	types.LOOP:     "",
	types.WHEN:     "",
	types.WITH:     "",
	types.DO:       "",
}

var postfix = map[types.TokenType]types.TokenType{
	types.IF:     types.POSTIF,
	types.UNLESS: types.POSTUNLESS,
	types.WHILE:  types.POSTWHILE,
	types.UNTIL:  types.POSTUNTIL,
	types.FOR:    types.POSTFOR,
}

// callClosers end the implicit calls of their line.
var callClosers = map[types.TokenType]bool{
	types.AND:        true,
	types.OR:         true,
	types.IS:         true,
	types.ISNT:       true,
	types.IN:         true,
	types.OF:         true,
	types.EXTENDS:    true,
	types.IMPLEMENTS: true,
	types.INSTANCEOF: true,
}

var forKeywords = map[types.TokenType]types.TokenType{
	types.IN:   types.FOR_IN,
	types.OF:   types.FOR_OF,
	types.AT:   types.FOR_AT,
	types.FROM: types.FOR_FROM,
}

// typeStatementRe matches "type Name" and "interface Name".
var typeStatementRe = regexp.MustCompile(`^(type|interface)[ \t]+[\p{L}_$]`)

// importExportRe matches a statement-initial import or export.
var importExportRe = regexp.MustCompile(`^(import|export)(?:[ \t]|$)`)

// word returns the identifier at the head of chunk when it is a whole word
// that is not a property name or an object key.
func (l *Lexer) word(chunk string) string {
	n := scanIdent(chunk)
	if n == 0 {
		return ""
	}
	if prev := l.prev(); prev != nil && (prev.Is(types.DOT, types.PROTO) || (prev.Type == types.AT_SIGN && !l.spaced)) {
		return ""
	}
	if l.keyAhead(chunk[n:]) {
		return ""
	}
	return chunk[:n]
}

func lexImportExport(l *Lexer, chunk string) (int, error) {
	m := importExportRe.FindStringSubmatch(chunk)
	if m == nil || l.word(chunk) != m[1] {
		return 0, nil
	}
	tt := types.IMPORT
	if m[1] == "export" {
		tt = types.EXPORT
	}
	l.emit(tt, m[1], l.span(0, m[1]))
	l.port = tt
	return len(m[1]), nil
}

// lexAssign handles "=".
func lexAssign(l *Lexer, chunk string) (int, error) {
	if chunk[0] != '=' || (len(chunk) > 1 && (chunk[1] == '=' || chunk[1] == '>')) {
		return 0, nil
	}
	loc := l.span(0, "=")
	if l.inParams() {
		l.emit(types.DEFAULTS, "=", loc)
		return 1, nil
	}
	owner := l.owner()
	for e := owner.last(); e != nil && e.kind == implicitArray && e.level == l.indentLevel; e = owner.last() {
		l.closeImplicit(owner)
	}
	l.emit(types.AS, "=", loc).Origin = "="
	return 1, nil
}

// lexAssignKeyword handles "as", "at" and "from".
func lexAssignKeyword(l *Lexer, chunk string) (int, error) {
	w := l.word(chunk)
	var tt types.TokenType
	switch w {
	case "as":
		tt = types.AS
	case "at":
		tt = types.AT
	case "from":
		tt = types.FROM
	default:
		return 0, nil
	}
	if l.forLine && tt != types.AS {
		tt = forKeywords[tt]
	}
	tok := l.emit(tt, w, l.span(0, w))
	if tt == types.AS {
		tok.Origin = "as"
	}
	return len(w), nil
}

func lexKeyword(l *Lexer, chunk string) (int, error) {
	w := l.word(chunk)
	tt, ok := keywords[w]
	if !ok {
		return 0, nil
	}
	if contextual[w] && !l.inClass() {
		return 0, nil
	}
	if (tt == types.TYPE || tt == types.INTERFACE) && !typeStatementRe.MatchString(chunk) {
		return 0, nil
	}
	loc := l.span(0, w)
	if l.cfg.ELSON {
		tok := l.emit(tt, w, loc)
		if aliases[w] {
			tok.Origin = w
		}
		return len(w), nil
	}
	l.keyword(tt, w, loc)
	return len(w), nil
}

// keyword emits a reserved word and applies its effect on the line state.
func (l *Lexer) keyword(tt types.TokenType, w string, loc source.Location) {
	prev := l.prev()

	if post, ok := postfix[tt]; ok && prev != nil && prev.Type.IsValueEnd() {
		l.closeCalls()
		l.closeFrom(l.owner(), l.indentLevel)
		l.emit(post, w, loc)
		if post == types.POSTFOR {
			l.forLine = true
		}
		return
	}
	if callClosers[tt] {
		l.closeCalls()
	}
	if ft, ok := forKeywords[tt]; ok && l.forLine {
		tt = ft
	}

	switch tt {
	case types.THEN:
		if h := l.header; h != nil && thenHeaders[h.kind] {
			l.finishHeader(h, loc)
			l.emit(types.THEN, w, loc)
			l.header = nil
			return
		}
		l.emit(types.CHAIN, w, loc)
		return
	case types.TYPE, types.INTERFACE:
		l.typeDecl = true
		l.isTypeScript = true
	case types.WHEN:
		l.forLine = false
	}

	if valueKeywords[tt] {
		l.startsValue(loc)
	}
	tok := l.emit(tt, w, loc)
	if aliases[w] {
		tok.Origin = w
	}

	if label, ok := headerLabels[tt]; ok {
		l.setHeader(tt, label)
		if tt == types.FOR {
			l.forLine = true
		}
	}
}
