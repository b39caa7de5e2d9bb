package types

// TokenType is a terminal of the Relic grammar.
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota

	// Structure
	NEWLINE             // line break, ";" outside for headers
	INDENT              // indentation increase
	OUTDENT             // indentation decrease
	CALL_START          // "(" of a call, explicit or implied
	CALL_END            // ")" of a call
	PARAM_START         // "(" of a parameter list
	PARAM_END           // ")" of a parameter list
	INDEX_START         // "[" directly after an indexable value
	INDEX_END           // "]" of an index
	INTERPOLATION_START // #{ or ${
	INTERPOLATION_END   // } closing an interpolation
	STRING_START        // opening quote of an interpolated string
	STRING_END          // closing quote of an interpolated string
	REGEX_START         // opening slash of an interpolated regex
	REGEX_END           // closing slash and flags
	JSX_START           // first "<" of a JSX element
	JSX_END             // end of the outermost JSX element
	TYPE_START          // "<" opening generic arguments, spelled <(
	TYPE_END            // ">" closing generic arguments, spelled )>

	// Literals
	IDENTIFIER
	PROPERTY // member name after "." or an object key
	NUMBER
	INFINITY
	STRING
	REGEX
	BOOL      // true false yes no
	NULL      // null nil
	UNDEFINED // undefined
	THIS      // this
	SUPER     // super

	// Keywords
	FUNCTION
	AS // =, as
	AT
	FROM
	CONST
	VAR
	LET // let, local
	TYPE
	INTERFACE
	IMPORT
	EXPORT
	DEFAULT
	DEFAULTS // "=" in a parameter list
	IF
	POSTIF
	ELSE // else, otherwise
	UNLESS
	POSTUNLESS
	WHILE
	POSTWHILE
	UNTIL
	POSTUNTIL
	FOR
	POSTFOR
	FOR_IN
	FOR_OF
	FOR_AT
	FOR_FROM
	LOOP
	SWITCH
	CASE
	WHEN
	THEN
	CHAIN // "then" outside a header
	DO
	TRY
	CATCH
	FINALLY
	THROW
	RETURN
	BREAK
	CONTINUE
	DEBUGGER
	CLASS
	EXTENDS
	IMPLEMENTS
	STATIC
	GET
	SET
	ASYNC
	AWAIT
	YIELD
	NEW
	DELETE
	TYPEOF
	KEYOF
	INSTANCEOF
	VOID
	READONLY
	AND
	OR
	NOT
	IS
	ISNT
	IN
	OF
	EXISTS
	INCLUDES
	WITH
	USING

	// Normalised operators
	TYPE_JOIN      // | and & inside type declarations
	FUNC_DIRECTIVE // -> =>
	FUNC_EXISTS    // ?( soaked call
	SYMBOL_EXISTS  // ? directly after a value
	MATH_BIN       // compound assignment: += -= *= ...
	DIVISION       // /

	// Punctuation
	LPAREN        // (
	RPAREN        // )
	LBRACKET      // [
	RBRACKET      // ]
	LBRACE        // {
	RBRACE        // }
	COMMA         // ,
	COLON         // :
	SEMICOLON     // ; inside a for header
	DOT           // . and ?.
	SPREAD        // ...
	QUESTION      // ?
	AT_SIGN       // @
	PROTO         // ::
	PLUS          // +
	MINUS         // -
	STAR          // *
	POW           // **
	PERCENT       // %
	CARET         // ^
	AMP           // &
	PIPE          // |
	LAND          // &&
	LOR           // ||
	NULLISH       // ??
	BANG          // !
	TILDE         // ~
	EQ            // ==
	STRICT_EQ     // ===
	NOT_EQ        // !=
	STRICT_NOT_EQ // !==
	LT            // <
	GT            // >
	LT_EQ         // <=
	GT_EQ         // >=
	SHL           // <<
	SHR           // >>
	USHR          // >>>
	INCR          // ++
	DECR          // --

	tokenTypeCount
)

// terminals holds the grammar spelling of every tag.
var terminals = [tokenTypeCount]string{
	ILLEGAL:             "ILLEGAL",
	NEWLINE:             "NEWLINE",
	INDENT:              "INDENT",
	OUTDENT:             "OUTDENT",
	CALL_START:          "CALL_START",
	CALL_END:            "CALL_END",
	PARAM_START:         "PARAM_START",
	PARAM_END:           "PARAM_END",
	INDEX_START:         "INDEX_START",
	INDEX_END:           "INDEX_END",
	INTERPOLATION_START: "INTERPOLATION_START",
	INTERPOLATION_END:   "INTERPOLATION_END",
	STRING_START:        "STRING_START",
	STRING_END:          "STRING_END",
	REGEX_START:         "REGEX_START",
	REGEX_END:           "REGEX_END",
	JSX_START:           "JSX_START",
	JSX_END:             "JSX_END",
	TYPE_START:          "<(",
	TYPE_END:            ")>",
	IDENTIFIER:          "IDENTIFIER",
	PROPERTY:            "PROPERTY",
	NUMBER:              "NUMBER",
	INFINITY:            "INFINITY",
	STRING:              "STRING",
	REGEX:               "REGEX",
	BOOL:                "BOOL",
	NULL:                "NULL",
	UNDEFINED:           "UNDEFINED",
	THIS:                "THIS",
	SUPER:               "SUPER",
	FUNCTION:            "FUNCTION",
	AS:                  "AS",
	AT:                  "AT",
	FROM:                "FROM",
	CONST:               "CONST",
	VAR:                 "VAR",
	LET:                 "LET",
	TYPE:                "TYPE",
	INTERFACE:           "INTERFACE",
	IMPORT:              "IMPORT",
	EXPORT:              "EXPORT",
	DEFAULT:             "DEFAULT",
	DEFAULTS:            "DEFAULTS",
	IF:                  "IF",
	POSTIF:              "POSTIF",
	ELSE:                "ELSE",
	UNLESS:              "UNLESS",
	POSTUNLESS:          "POSTUNLESS",
	WHILE:               "WHILE",
	POSTWHILE:           "POSTWHILE",
	UNTIL:               "UNTIL",
	POSTUNTIL:           "POSTUNTIL",
	FOR:                 "FOR",
	POSTFOR:             "POSTFOR",
	FOR_IN:              "FOR_IN",
	FOR_OF:              "FOR_OF",
	FOR_AT:              "FOR_AT",
	FOR_FROM:            "FOR_FROM",
	LOOP:                "LOOP",
	SWITCH:              "SWITCH",
	CASE:                "CASE",
	WHEN:                "WHEN",
	THEN:                "THEN",
	CHAIN:               "CHAIN",
	DO:                  "DO",
	TRY:                 "TRY",
	CATCH:               "CATCH",
	FINALLY:             "FINALLY",
	THROW:               "THROW",
	RETURN:              "RETURN",
	BREAK:               "BREAK",
	CONTINUE:            "CONTINUE",
	DEBUGGER:            "DEBUGGER",
	CLASS:               "CLASS",
	EXTENDS:             "EXTENDS",
	IMPLEMENTS:          "IMPLEMENTS",
	STATIC:              "STATIC",
	GET:                 "GET",
	SET:                 "SET",
	ASYNC:               "ASYNC",
	AWAIT:               "AWAIT",
	YIELD:               "YIELD",
	NEW:                 "NEW",
	DELETE:              "DELETE",
	TYPEOF:              "TYPEOF",
	KEYOF:               "KEYOF",
	INSTANCEOF:          "INSTANCEOF",
	VOID:                "VOID",
	READONLY:            "READONLY",
	AND:                 "AND",
	OR:                  "OR",
	NOT:                 "NOT",
	IS:                  "IS",
	ISNT:                "ISNT",
	IN:                  "IN",
	OF:                  "OF",
	EXISTS:              "EXISTS",
	INCLUDES:            "INCLUDES",
	WITH:                "WITH",
	USING:               "USING",
	TYPE_JOIN:           "TYPE_JOIN",
	FUNC_DIRECTIVE:      "FUNC_DIRECTIVE",
	FUNC_EXISTS:         "FUNC_EXISTS",
	SYMBOL_EXISTS:       "SYMBOL_EXISTS",
	MATH_BIN:            "MATH_BIN",
	DIVISION:            "DIVISION",
	LPAREN:              "(",
	RPAREN:              ")",
	LBRACKET:            "[",
	RBRACKET:            "]",
	LBRACE:              "{",
	RBRACE:              "}",
	COMMA:               ",",
	COLON:               ":",
	SEMICOLON:           ";",
	DOT:                 ".",
	SPREAD:              "...",
	QUESTION:            "?",
	AT_SIGN:             "@",
	PROTO:               "::",
	PLUS:                "+",
	MINUS:               "-",
	STAR:                "*",
	POW:                 "**",
	PERCENT:             "%",
	CARET:               "^",
	AMP:                 "&",
	PIPE:                "|",
	LAND:                "&&",
	LOR:                 "||",
	NULLISH:             "??",
	BANG:                "!",
	TILDE:               "~",
	EQ:                  "==",
	STRICT_EQ:           "===",
	NOT_EQ:              "!=",
	STRICT_NOT_EQ:       "!==",
	LT:                  "<",
	GT:                  ">",
	LT_EQ:               "<=",
	GT_EQ:               ">=",
	SHL:                 "<<",
	SHR:                 ">>",
	USHR:                ">>>",
	INCR:                "++",
	DECR:                "--",
}

var terminalTypes = func() map[string]TokenType {
	m := make(map[string]TokenType, len(terminals))
	for i, name := range terminals {
		m[name] = TokenType(i)
	}
	return m
}()

// String returns the grammar terminal spelling of t.
func (t TokenType) String() string {
	if t < 0 || t >= tokenTypeCount {
		return "ILLEGAL"
	}
	return terminals[t]
}

// ParseTokenType maps a grammar terminal spelling back to its tag.
func ParseTokenType(s string) (TokenType, bool) {
	t, ok := terminalTypes[s]
	return t, ok
}

// MarshalText encodes the tag as its terminal spelling.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Closer returns the closing tag paired with an opening tag, or ILLEGAL.
func (t TokenType) Closer() TokenType {
	switch t {
	case LPAREN:
		return RPAREN
	case LBRACKET:
		return RBRACKET
	case LBRACE:
		return RBRACE
	case INDENT:
		return OUTDENT
	case CALL_START:
		return CALL_END
	case PARAM_START:
		return PARAM_END
	case INDEX_START:
		return INDEX_END
	case INTERPOLATION_START:
		return INTERPOLATION_END
	case STRING_START:
		return STRING_END
	case REGEX_START:
		return REGEX_END
	case JSX_START:
		return JSX_END
	case TYPE_START:
		return TYPE_END
	default:
		return ILLEGAL
	}
}

// IsOpener reports whether t opens a paired group.
func (t TokenType) IsOpener() bool {
	return t.Closer() != ILLEGAL
}

// IsCloser reports whether t closes a paired group.
func (t TokenType) IsCloser() bool {
	switch t {
	case RPAREN, RBRACKET, RBRACE, OUTDENT, CALL_END, PARAM_END, INDEX_END,
		INTERPOLATION_END, STRING_END, REGEX_END, JSX_END, TYPE_END:
		return true
	}
	return false
}

// IsCallable reports whether a value ending in t can be called.
func (t TokenType) IsCallable() bool {
	switch t {
	case IDENTIFIER, PROPERTY, SUPER, RPAREN, RBRACKET, RBRACE,
		CALL_END, INDEX_END, SYMBOL_EXISTS, TYPE_END:
		return true
	}
	return false
}

// IsIndexable reports whether a "[" directly after t is an index.
func (t TokenType) IsIndexable() bool {
	switch t {
	case IDENTIFIER, PROPERTY, THIS, SUPER, RPAREN, RBRACKET, RBRACE,
		CALL_END, INDEX_END, STRING, STRING_END, REGEX, REGEX_END, SYMBOL_EXISTS:
		return true
	}
	return false
}

// IsValueEnd reports whether t can end an operand, so that what follows is
// an operator rather than the start of a new value.
func (t TokenType) IsValueEnd() bool {
	switch t {
	case IDENTIFIER, PROPERTY, NUMBER, INFINITY, STRING, STRING_END, REGEX, REGEX_END,
		JSX_END, BOOL, NULL, UNDEFINED, THIS, SUPER, RPAREN, RBRACKET, RBRACE,
		CALL_END, INDEX_END, TYPE_END, SYMBOL_EXISTS, INCR, DECR:
		return true
	}
	return false
}

// IsUnfinished reports whether a line ending in t continues on the next line.
func (t TokenType) IsUnfinished() bool {
	switch t {
	case COMMA, DOT, PLUS, MINUS, STAR, POW, PERCENT, DIVISION, CARET, AMP, PIPE,
		LAND, LOR, NULLISH, EQ, STRICT_EQ, NOT_EQ, STRICT_NOT_EQ, LT, GT, LT_EQ, GT_EQ,
		SHL, SHR, USHR, AND, OR, IS, ISNT, INSTANCEOF, MATH_BIN, TYPE_JOIN, QUESTION,
		EXTENDS, IMPLEMENTS:
		return true
	}
	return false
}
