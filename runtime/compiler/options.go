package compiler

import (
	"log/slog"

	"github.com/relic-lang/relic/core/source"
)

// DefaultMaxTypeDepth bounds how deeply inline type annotations may nest.
const DefaultMaxTypeDepth = 8

// Config holds compiler configuration.
type Config struct {
	Filename     string
	Dirname      string
	TabSize      int
	ELSON        bool
	Definitions  bool
	MaxTypeDepth int
	Parser       Parser
	Logger       *slog.Logger

	// cursor and depth position a nested type unit inside its file.
	cursor source.Cursor
	depth  int
}

// Opt is a compiler configuration option.
type Opt func(*Config)

// WithFilename names the compilation unit.
func WithFilename(name string) Opt {
	return func(c *Config) { c.Filename = name }
}

// WithDirname sets the directory imports and error excerpts resolve against.
func WithDirname(dir string) Opt {
	return func(c *Config) { c.Dirname = dir }
}

// WithTabSize fixes the indentation width; zero guesses it.
func WithTabSize(n int) Opt {
	return func(c *Config) { c.TabSize = n }
}

// WithELSON compiles the data-literal dialect.
func WithELSON() Opt {
	return func(c *Config) { c.ELSON = true }
}

// WithDefinitions reads definition comments from a sibling .d.rc file.
func WithDefinitions() Opt {
	return func(c *Config) { c.Definitions = true }
}

// WithMaxTypeDepth overrides DefaultMaxTypeDepth.
func WithMaxTypeDepth(n int) Opt {
	return func(c *Config) { c.MaxTypeDepth = n }
}

// WithParser replaces the structural parser.
func WithParser(p Parser) Opt {
	return func(c *Config) { c.Parser = p }
}

// WithLogger sets the debug logger shared with the lexer.
func WithLogger(logger *slog.Logger) Opt {
	return func(c *Config) { c.Logger = logger }
}

func withUnit(cursor source.Cursor, depth int) Opt {
	return func(c *Config) {
		c.cursor = cursor
		c.depth = depth
	}
}
