// Package compiler drives a compilation unit through the lexer and a parser.
// It also resolves inline type annotations for the lexer by compiling them
// as small "type" programs.
package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
	"github.com/relic-lang/relic/runtime/lexer"
)

// typePrefix turns an annotation into a program the parser accepts.
const typePrefix = "type PARTIAL = "

// Parser turns a token stream into an array-shaped tree.
type Parser interface {
	Parse(tokens []types.Token) (*types.Node, error)
}

// Output is the result of compiling one unit.
type Output struct {
	Tokens       []types.Token
	Comments     []types.Comment
	Names        []string
	Nodes        *types.Node
	IsTypeScript bool
	TabSize      int
}

// Compiler compiles units with one configuration.
type Compiler struct {
	cfg    Config
	logger *slog.Logger
}

// New returns a compiler configured by opts.
func New(opts ...Opt) *Compiler {
	cfg := Config{MaxTypeDepth: DefaultMaxTypeDepth, cursor: source.Start()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Parser == nil {
		cfg.Parser = StructuralParser{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{cfg: cfg, logger: cfg.Logger}
}

// Compile compiles src with a compiler configured by opts.
func Compile(src string, opts ...Opt) (*Output, error) {
	return New(opts...).Compile(src)
}

// Compile lexes and parses src. User errors are returned as *source.Error
// carrying the offending source line.
func (c *Compiler) Compile(src string) (*Output, error) {
	tabSize := c.cfg.TabSize
	if tabSize <= 0 {
		tabSize = source.GuessTabSize(src)
	}

	opts := []lexer.LexerOpt{
		lexer.WithFilename(c.cfg.Filename),
		lexer.WithDirname(c.cfg.Dirname),
		lexer.WithTabSize(tabSize),
		lexer.WithCursor(c.cfg.cursor),
		lexer.WithDepth(c.cfg.depth),
		lexer.WithTypeResolver(c.ResolveType),
		lexer.WithLogger(c.logger),
	}
	if c.cfg.ELSON {
		opts = append(opts, lexer.WithELSON())
	}
	if c.cfg.Definitions {
		opts = append(opts, lexer.WithDefinitions())
	}

	res, err := lexer.Lex(src, opts...)
	if err != nil {
		return nil, c.resolveError(err, src)
	}
	c.logger.Debug("[COMPILER] lexed", "file", c.cfg.Filename, "tokens", len(res.Tokens), "typescript", res.IsTypeScript)

	nodes, err := c.cfg.Parser.Parse(res.Tokens)
	if err != nil {
		return nil, c.resolveError(err, src)
	}

	return &Output{
		Tokens:       res.Tokens,
		Comments:     res.Comments,
		Names:        res.Names,
		Nodes:        nodes,
		IsTypeScript: res.IsTypeScript,
		TabSize:      tabSize,
	}, nil
}

// ResolveType compiles the annotation text found at loc in a unit nested
// depth levels deep. It is the lexer's TypeResolver.
func (c *Compiler) ResolveType(text string, loc source.Location, depth int) (*types.Node, error) {
	if depth+1 > c.cfg.MaxTypeDepth {
		return nil, fmt.Errorf("depth %d: %w", depth+1, lexer.ErrTypeNesting)
	}

	filename := loc.Src
	if filename == "" {
		filename = c.cfg.Filename
	}
	cursor := source.Cursor{X: loc.FirstColumn - len(typePrefix), Y: loc.FirstLine}
	nested := New(
		WithFilename(filename),
		WithDirname(c.cfg.Dirname),
		WithTabSize(max(c.cfg.TabSize, 1)),
		WithMaxTypeDepth(c.cfg.MaxTypeDepth),
		WithParser(c.cfg.Parser),
		WithLogger(c.logger),
		withUnit(cursor, depth+1),
	)
	out, err := nested.Compile(typePrefix + text)
	if err != nil {
		var serr *source.Error
		if errors.As(err, &serr) && serr.Message == lexer.ErrTypeNesting.Error() {
			return nil, fmt.Errorf("depth %d: %w", depth+1, lexer.ErrTypeNesting)
		}
		return nil, err
	}

	decl := firstStatement(out.Nodes)
	if decl == nil || decl.Kind != KindTypeDecl || len(decl.Children) < 2 {
		return nil, fmt.Errorf("annotation %q is not a single type", text)
	}
	return decl.Children[1], nil
}

func firstStatement(program *types.Node) *types.Node {
	if program == nil || len(program.Children) != 1 {
		return nil
	}
	return program.Children[0]
}

// resolveError attaches the offending source to a user error. An error that
// points into another file, such as an import, takes its excerpt from that
// file on disk.
func (c *Compiler) resolveError(err error, src string) error {
	var serr *source.Error
	if !errors.As(err, &serr) || serr.Code != "" {
		return err
	}
	ref := serr.Location.Src
	if ref == "" {
		ref = serr.Filename
	}
	if ref != "" && ref != c.cfg.Filename && ref != source.StdinName {
		if data, ok := c.readOrigin(ref); ok {
			serr.WithSource(data)
			return err
		}
	}
	if c.cfg.cursor == source.Start() {
		serr.WithSource(src)
	}
	return err
}

// readOrigin loads the file an error location names, relative to the
// compiler's directory. A path that does not exist is retried without its
// first segment.
func (c *Compiler) readOrigin(ref string) (string, bool) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.cfg.Dirname, ref)
		if _, err := os.Stat(path); err != nil && strings.ContainsRune(ref, filepath.Separator) {
			parts := strings.SplitN(ref, string(filepath.Separator), 2)
			path = filepath.Join(c.cfg.Dirname, parts[1])
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Debug("[COMPILER] error origin unreadable", "ref", ref, "err", err)
		return "", false
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), true
}
