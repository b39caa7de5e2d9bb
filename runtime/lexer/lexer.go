// Package lexer converts Relic source text into the position-accurate token
// stream consumed by the parser.
//
// Relic has no mandatory delimiters: calls, arrays and object literals may be
// written implicitly, and blocks are delimited by indentation. The lexer
// infers that structure while it scans, keeping a stack of stages (indent
// blocks, bracket groups, implicit calls) and closing them consistently on
// dedent, on explicit punctuation, or at end of input.
//
// Interpolation bodies and imported files are lexed by child lexers; a child
// shares nothing with its parent except the values passed through options
// and returned in its Result.
package lexer

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/relic-lang/relic/core/invariant"
	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// Result is the output of one compile unit.
type Result struct {
	Tokens       []types.Token
	Comments     []types.Comment
	Names        []string // identifier names in first-seen order
	IsTypeScript bool

	// Length is the number of bytes consumed. For an interpolation body it
	// stops before the closing "}".
	Length int

	// NextPair is the last pair id used, to continue numbering in the parent.
	NextPair int
}

type recognizer struct {
	name string
	fn   func(l *Lexer, chunk string) (int, error)
}

// Recognizers in priority order. The first one to consume input wins.
var (
	fullRecognizers  []recognizer
	elsonRecognizers []recognizer
)

func init() {
	fullRecognizers = []recognizer{
		{"separator", lexSeparator},
		{"whitespace", lexWhitespace},
		{"comment", lexComment},
		{"jsx", lexJSX},
		{"string", lexString},
		{"import path", lexImportPath},
		{"regex", lexRegex},
		{"assign", lexAssign},
		{"assign keyword", lexAssignKeyword},
		{"import/export", lexImportExport},
		{"keyword", lexKeyword},
		{"inline type", lexInlineType},
		{"number", lexNumber},
		{"literal", lexLiteral},
		{"identifier", lexIdentifier},
	}
	elsonRecognizers = []recognizer{
		{"separator", lexSeparator},
		{"whitespace", lexWhitespace},
		{"comment", lexComment},
		{"string", lexString},
		{"keyword", lexKeyword},
		{"number", lexNumber},
		{"literal", lexLiteral},
		{"identifier", lexIdentifier},
	}
}

// errUnclosedInterpolation is returned by an interpolation body that reached
// the end of input; the parent reports it at its own opening delimiter.
var errUnclosedInterpolation = errors.New("unclosed interpolation")

// explicitRecord tracks one open explicit bracket.
type explicitRecord struct {
	closer       string
	indentAtOpen int
	pair         int
	stageDepth   int
	controlParen bool
	opener       types.Token
}

// header is an open control-construct header (if, while, class, ->, ...)
// that an indented block may follow.
type header struct {
	kind   types.TokenType
	start  int // token index of the header keyword
	depth  int // stage depth when the header began
	mark   int // owner's open implicit constructs when the header began
	params bool
	label  string
}

// pendingBreak is a line break deferred over a comment-only line.
type pendingBreak struct {
	level int
	blank int
}

// Lexer holds the state of one compile unit. Use Lex.
type Lexer struct {
	cfg    Config
	src    string
	pos    int
	cursor source.Cursor

	tokens   []types.Token
	comments []types.Comment
	names    []string
	seen     map[string]bool

	stages   []*stage
	explicit []explicitRecord

	indentLevel int
	pairSeq     int
	stageSeq    int

	// spaced is set by horizontal whitespace since the last real token.
	spaced  bool
	pending *pendingBreak

	// Line state, reset at every line break outside brackets.
	header   *header
	forLine  bool
	port     types.TokenType // IMPORT or EXPORT on an import/export line
	typeDecl bool
	ternary  int

	isTypeScript bool
	done         bool // interpolation body reached its closing "}"

	recognizers []recognizer
	logger      *slog.Logger
}

// Lex tokenizes src.
func Lex(src string, opts ...LexerOpt) (*Result, error) {
	l := newLexer(src, opts...)
	if err := l.run(); err != nil {
		var serr *source.Error
		if errors.As(err, &serr) && l.ownsSource(serr) {
			serr.WithSource(l.src)
		}
		return nil, err
	}
	return l.result(), nil
}

func newLexer(src string, opts ...LexerOpt) *Lexer {
	cfg := Config{Cursor: source.Start()}
	for _, opt := range opts {
		opt(&cfg)
	}

	src = strings.ReplaceAll(src, "\r\n", "\n")
	if cfg.TabSize <= 0 {
		cfg.TabSize = source.GuessTabSize(src)
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultLogger()
	}
	if cfg.ImportGuard == nil {
		cfg.ImportGuard = map[string]bool{}
	}

	l := &Lexer{
		cfg:     cfg,
		src:     src,
		cursor:  cfg.Cursor,
		seen:    make(map[string]bool),
		pairSeq: cfg.PairBase,
		port:    types.ILLEGAL,
		logger:  cfg.Logger,
	}
	l.stages = []*stage{{kind: stageRoot, label: "Root"}}
	l.recognizers = fullRecognizers
	if cfg.ELSON {
		l.recognizers = elsonRecognizers
	}
	return l
}

// ownsSource reports whether err points into this lexer's own text, so the
// offending line can be taken from it.
func (l *Lexer) ownsSource(err *source.Error) bool {
	return !l.cfg.Interpolation && l.cfg.Cursor == source.Start() && err.Filename == l.cfg.Filename
}

func (l *Lexer) run() error {
	for l.pos < len(l.src) && !l.done {
		chunk := l.src[l.pos:]
		n, err := l.step(chunk)
		if err != nil {
			return err
		}
		if l.done {
			break
		}
		if n == 0 {
			ch := firstRune(chunk)
			return source.Errorf(source.KindSyntax, l.span(0, ch), "unexpected token %s", ch)
		}
		l.cursor = l.cursor.Advance(chunk[:n])
		l.pos += n
	}
	return l.finish()
}

// step runs the recognizers over chunk and returns the consumed length.
func (l *Lexer) step(chunk string) (int, error) {
	for _, r := range l.recognizers {
		before := len(l.tokens)
		n, err := r.fn(l, chunk)
		if err != nil {
			return 0, err
		}
		invariant.Invariant(n <= len(chunk), "%s consumed %d bytes of a %d byte chunk", r.name, n, len(chunk))
		if n == 0 && !l.done {
			invariant.Invariant(len(l.tokens) == before, "%s emitted tokens without consuming input", r.name)
			continue
		}
		if n > 0 {
			l.logger.Debug("[LEXER] recognized",
				"rule", r.name,
				"at", l.cursor.String(),
				"text", strings.ReplaceAll(chunk[:n], "\n", "\\n"),
				"stages", len(l.stages),
				"level", l.indentLevel)
		}
		return n, nil
	}
	return 0, nil
}

func (l *Lexer) finish() error {
	if l.cfg.Interpolation && !l.done {
		return errUnclosedInterpolation
	}
	if n := len(l.explicit); n > 0 {
		rec := l.explicit[n-1]
		return source.Errorf(source.KindError, rec.opener.Loc, "missing %q for this token", rec.closer)
	}

	for len(l.stages) > 1 {
		l.closeStage()
	}
	l.closeAll(l.stages[0])
	if l.cfg.Interpolation {
		l.trimNewlines()
	}

	i := 0
	for i < len(l.tokens) && l.tokens[i].Type == types.NEWLINE {
		i++
	}
	l.tokens = l.tokens[i:]

	if !l.cfg.Interpolation {
		return l.readDefinitions()
	}
	return nil
}

func (l *Lexer) result() *Result {
	return &Result{
		Tokens:       l.tokens,
		Comments:     l.comments,
		Names:        l.names,
		IsTypeScript: l.isTypeScript,
		Length:       l.pos,
		NextPair:     l.pairSeq,
	}
}

// at returns the cursor off bytes into the current chunk.
func (l *Lexer) at(off int) source.Cursor {
	return l.cursor.Advance(l.src[l.pos : l.pos+off])
}

// span returns the location of text starting off bytes into the chunk.
func (l *Lexer) span(off int, text string) source.Location {
	return source.Span(l.at(off), text, l.cfg.Filename)
}

// point returns a zero-width location off bytes into the chunk.
func (l *Lexer) point(off int) source.Location {
	return source.Point(l.at(off), l.cfg.Filename)
}

func (l *Lexer) prev() *types.Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

func (l *Lexer) nextPair() int {
	l.pairSeq++
	return l.pairSeq
}

// accepting tags may be followed directly by an implicit array or object.
var accepting = map[types.TokenType]bool{
	types.INDENT:              true,
	types.NEWLINE:             true,
	types.AS:                  true,
	types.COLON:               true,
	types.LPAREN:              true,
	types.LBRACKET:            true,
	types.LBRACE:              true,
	types.CALL_START:          true,
	types.INDEX_START:         true,
	types.PARAM_START:         true,
	types.INTERPOLATION_START: true,
	types.RETURN:              true,
	types.THROW:               true,
	types.YIELD:               true,
	types.THEN:                true,
	types.ELSE:                true,
	types.FUNC_DIRECTIVE:      true,
}

func (l *Lexer) newToken(tt types.TokenType, value string, loc source.Location, pair int) types.Token {
	tok := types.Token{
		Type:  tt,
		Value: value,
		Loc:   loc,
		Pair:  pair,
		Stage: l.top().id,
		Level: l.indentLevel,
	}
	if accepting[tt] {
		tok.Flags |= types.FlagAccept
	}
	return tok
}

// emit appends a token read from the source.
func (l *Lexer) emit(tt types.TokenType, value string, loc source.Location) *types.Token {
	return l.emitPaired(tt, value, loc, 0)
}

func (l *Lexer) emitPaired(tt types.TokenType, value string, loc source.Location, pair int) *types.Token {
	invariant.Precondition(tt != types.ILLEGAL, "cannot emit an illegal token")
	tok := l.newToken(tt, value, loc, pair)
	if l.spaced {
		tok.Flags |= types.FlagSpaced
	}
	l.spaced = false
	l.tokens = append(l.tokens, tok)
	return &l.tokens[len(l.tokens)-1]
}

// generate appends a synthesized token. It leaves the spacing of the next
// real token alone.
func (l *Lexer) generate(tt types.TokenType, value string, loc source.Location, pair int) *types.Token {
	tok := l.newToken(tt, value, loc, pair)
	tok.Flags |= types.FlagGenerated
	l.tokens = append(l.tokens, tok)
	return &l.tokens[len(l.tokens)-1]
}

// insert places tok at index i.
func (l *Lexer) insert(i int, tok types.Token) {
	invariant.InRange(i, 0, len(l.tokens), "insert index")
	l.tokens = append(l.tokens, types.Token{})
	copy(l.tokens[i+1:], l.tokens[i:])
	l.tokens[i] = tok
}

// trimNewlines drops trailing NEWLINE tokens before a closer.
func (l *Lexer) trimNewlines() {
	for len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Type == types.NEWLINE {
		l.tokens = l.tokens[:len(l.tokens)-1]
	}
}

// openerIndex returns the index of the opener paired with the closer at i,
// or i when there is none.
func (l *Lexer) openerIndex(i int) int {
	pair := l.tokens[i].Pair
	if pair == 0 {
		return i
	}
	for j := i - 1; j >= 0; j-- {
		if l.tokens[j].Pair == pair && l.tokens[j].Type.IsOpener() {
			return j
		}
	}
	return i
}

func (l *Lexer) addName(name string) {
	if l.seen[name] {
		return
	}
	l.seen[name] = true
	l.names = append(l.names, name)
}

func (l *Lexer) addComment(c types.Comment) {
	c.ID = len(l.comments)
	l.comments = append(l.comments, c)
}

// merge takes the names, comments and pair numbering of a child unit.
func (l *Lexer) merge(res *Result) {
	for _, name := range res.Names {
		l.addName(name)
	}
	for _, c := range res.Comments {
		l.addComment(c)
	}
	if res.IsTypeScript {
		l.isTypeScript = true
	}
	l.pairSeq = res.NextPair
}

// endLine resets the state that only lasts for one logical line.
func (l *Lexer) endLine() {
	l.header = nil
	l.forLine = false
	l.port = types.ILLEGAL
	l.typeDecl = false
	l.ternary = 0
}

// setHeader records the control header whose keyword was just emitted.
func (l *Lexer) setHeader(kind types.TokenType, label string) {
	l.header = &header{
		kind:  kind,
		start: len(l.tokens) - 1,
		depth: len(l.stages),
		mark:  len(l.owner().contains),
		label: label,
	}
}
