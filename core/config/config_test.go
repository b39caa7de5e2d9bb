package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
requires = ">= 0.2"

[lexer]
tab_size = 4
elson = true

[output]
format = "json"
color = false
`))
	require.NoError(t, err)
	assert.Equal(t, ">= 0.2", cfg.Requires)
	assert.Equal(t, 4, cfg.Lexer.TabSize)
	assert.True(t, cfg.Lexer.ELSON)
	assert.False(t, cfg.Lexer.Definitions)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.ColorEnabled())
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.ColorEnabled())
	assert.Zero(t, cfg.Lexer.TabSize)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		problem string
	}{
		{"unknown table", "[codegen]\ntarget = \"es5\"\n", "additionalProperties"},
		{"unknown key", "[lexer]\nindent = 2\n", "additionalProperties"},
		{"tab size range", "[lexer]\ntab_size = 0\n", "/lexer/tab_size"},
		{"tab size type", "[lexer]\ntab_size = \"two\"\n", "/lexer/tab_size"},
		{"format enum", "[output]\nformat = \"yaml\"\n", "/output/format"},
		{"requires pattern", "requires = \"latest\"\n", "/requires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T: %v", err, err)
			assert.Contains(t, ve.Error(), tt.problem)
		})
	}
}

func TestValidateDocument(t *testing.T) {
	err := validate(map[string]any{
		"requires": "0.1",
		"lexer":    map[string]any{"tab_size": int64(4), "definitions": true},
		"output":   map[string]any{"color": true},
	})
	require.NoError(t, err)

	err = validate(map[string]any{"lexer": map[string]any{"tab_size": int64(17)}})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T: %v", err, err)
	require.NotEmpty(t, ve.Problems)
	assert.Contains(t, ve.Error(), "/lexer/tab_size")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("[lexer\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse:")
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[lexer]\ntab_size = 2\n"), 0o644))
	file := filepath.Join(nested, "main.rc")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	found := Find(file)
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, found)

	cfg, err := Load(found)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Lexer.TabSize)
	assert.Equal(t, found, cfg.Path)

	assert.Empty(t, Find(filepath.Join(root, "missing.rc")))
}

func TestCheckRequires(t *testing.T) {
	tests := []struct {
		requires string
		current  string
		wantErr  string
	}{
		{"", "0.1.0", ""},
		{"0.1", "0.1.0", ""},
		{">= 0.1.0", "v0.2.0", ""},
		{">=v1.0.0", "0.9.3", "project requires relic v1.0.0 or newer, running v0.9.3"},
		{"0.3", "0.2.9", "project requires relic v0.3.0 or newer"},
		{"banana", "0.1.0", `invalid requires "banana"`},
		{"0.1", "dev", `invalid toolchain version "dev"`},
	}

	for _, tt := range tests {
		t.Run(tt.requires+"/"+tt.current, func(t *testing.T) {
			cfg := &Config{Requires: tt.requires}
			err := cfg.CheckRequires(tt.current)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
