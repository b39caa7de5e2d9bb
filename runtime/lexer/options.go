package lexer

import (
	"log/slog"
	"os"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// debugEnv switches on recognizer tracing on stderr.
const debugEnv = "RELIC_DEBUG_LEXER"

// TypeResolver compiles an inline type annotation. depth is the nesting of
// the unit that contains the annotation; implementations must reject
// unbounded recursion.
type TypeResolver func(text string, loc source.Location, depth int) (*types.Node, error)

// Config holds the options of one lexer instance.
type Config struct {
	Filename string
	Dirname  string

	// TabSize is the number of spaces per indentation level; zero guesses it
	// from the source.
	TabSize int

	// Cursor is where the unit starts in its file.
	Cursor source.Cursor

	ELSON         bool // data-literal dialect
	Interpolation bool // stop at the "}" that closes an interpolation

	// ImportGuard holds absolute paths that may not be imported again.
	ImportGuard map[string]bool

	// PairBase is the last pair id already used by an enclosing unit.
	PairBase int

	// Depth is the inline-type nesting of this unit.
	Depth int

	TypeResolver TypeResolver
	Logger       *slog.Logger

	// Definitions reads comments from a sibling .d.rc file.
	Definitions bool
}

// LexerOpt configures a lexer.
type LexerOpt func(*Config)

// WithFilename names the unit in locations and errors.
func WithFilename(name string) LexerOpt {
	return func(c *Config) { c.Filename = name }
}

// WithDirname sets the directory imports resolve against.
func WithDirname(dir string) LexerOpt {
	return func(c *Config) { c.Dirname = dir }
}

// WithTabSize fixes the indentation width instead of guessing it.
func WithTabSize(n int) LexerOpt {
	return func(c *Config) { c.TabSize = n }
}

// WithCursor starts the unit at c instead of 1:1.
func WithCursor(cur source.Cursor) LexerOpt {
	return func(c *Config) { c.Cursor = cur }
}

// WithELSON selects the data-literal dialect.
func WithELSON() LexerOpt {
	return func(c *Config) { c.ELSON = true }
}

// WithInterpolation lexes an interpolation body.
func WithInterpolation() LexerOpt {
	return func(c *Config) { c.Interpolation = true }
}

// WithImportGuard forbids importing any of paths.
func WithImportGuard(paths map[string]bool) LexerOpt {
	return func(c *Config) { c.ImportGuard = paths }
}

// WithPairBase continues pair numbering after base.
func WithPairBase(base int) LexerOpt {
	return func(c *Config) { c.PairBase = base }
}

// WithDepth sets the inline-type nesting depth.
func WithDepth(depth int) LexerOpt {
	return func(c *Config) { c.Depth = depth }
}

// WithTypeResolver compiles inline type annotations with r.
func WithTypeResolver(r TypeResolver) LexerOpt {
	return func(c *Config) { c.TypeResolver = r }
}

// WithLogger replaces the default debug logger.
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *Config) { c.Logger = logger }
}

// WithDefinitions reads definition comments from a sibling .d.rc file.
func WithDefinitions() LexerOpt {
	return func(c *Config) { c.Definitions = true }
}

// defaultLogger writes recognizer traces to stderr when RELIC_DEBUG_LEXER is set.
func defaultLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv(debugEnv) != "" {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// child returns the options for a nested unit lexed from this one.
func (c Config) child(cursor source.Cursor, pairBase int) []LexerOpt {
	return []LexerOpt{
		WithFilename(c.Filename),
		WithDirname(c.Dirname),
		WithTabSize(c.TabSize),
		WithCursor(cursor),
		WithInterpolation(),
		WithImportGuard(c.ImportGuard),
		WithPairBase(pairBase),
		WithDepth(c.Depth),
		WithTypeResolver(c.TypeResolver),
		WithLogger(c.Logger),
	}
}
