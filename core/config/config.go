// Package config loads relic.toml, the per-project settings file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
)

// FileName is the name of the project file looked up from the source file
// directory upwards.
const FileName = "relic.toml"

// Config is the decoded relic.toml.
type Config struct {
	// Requires is the lowest toolchain version the project accepts, as
	// "0.3", "v0.3.1" or ">= 0.3.1".
	Requires string `toml:"requires"`

	Lexer  LexerConfig  `toml:"lexer"`
	Output OutputConfig `toml:"output"`

	// Path is where the file was read from; empty for defaults.
	Path string `toml:"-"`
}

// LexerConfig holds the [lexer] table.
type LexerConfig struct {
	TabSize     int  `toml:"tab_size"`
	ELSON       bool `toml:"elson"`
	Definitions bool `toml:"definitions"`
}

// OutputConfig holds the [output] table.
type OutputConfig struct {
	Format string `toml:"format"`
	Color  *bool  `toml:"color"`
}

// Default returns the settings used when no relic.toml exists.
func Default() *Config {
	return &Config{Output: OutputConfig{Format: "text"}}
}

// ColorEnabled reports whether colored output is on; it defaults to true.
func (c *Config) ColorEnabled() bool {
	return c.Output.Color == nil || *c.Output.Color
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes relic.toml content, checking it against the embedded schema.
func Parse(data []byte) (*Config, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return cfg, nil
}

// Find returns the relic.toml governing start, searching its directory and
// then each parent. It returns "" when there is none.
func Find(start string) string {
	info, err := os.Stat(start)
	if err != nil {
		return ""
	}
	dir := start
	if !info.IsDir() {
		dir = filepath.Dir(start)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// CheckRequires fails when the running toolchain version is older than the
// project's requires floor.
func (c *Config) CheckRequires(current string) error {
	if c.Requires == "" {
		return nil
	}
	floor := canonicalVersion(strings.TrimPrefix(strings.TrimSpace(c.Requires), ">="))
	if !semver.IsValid(floor) {
		return fmt.Errorf("invalid requires %q", c.Requires)
	}
	running := canonicalVersion(current)
	if !semver.IsValid(running) {
		return fmt.Errorf("invalid toolchain version %q", current)
	}
	if semver.Compare(running, floor) < 0 {
		return fmt.Errorf("project requires relic %s or newer, running %s", semver.Canonical(floor), semver.Canonical(running))
	}
	return nil
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
