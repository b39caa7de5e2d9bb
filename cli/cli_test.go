package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/tokfmt"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), append(args, "--no-color"), strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCheckFile(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.rc", "x = 1\n")

	res := run(t, "", "check", path)

	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "ok "+path+": "), res.stdout)
	assert.Contains(t, res.stdout, "tokens")
}

func TestCheckReportsSourceError(t *testing.T) {
	path := writeSource(t, t.TempDir(), "bad.rc", "s = \"abc\n")

	res := run(t, "", "check", path)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "This string needs to be closed")
	assert.Contains(t, res.stderr, `s = "abc`)
	assert.Contains(t, res.stderr, "^")
}

func TestTokensFromStdin(t *testing.T) {
	res := run(t, "x = 1\n", "tokens", "-", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	var got struct {
		File   string `json:"file"`
		Tokens []struct {
			Tag   string `json:"tag"`
			Value string `json:"value"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, source.StdinName, got.File)
	require.GreaterOrEqual(t, len(got.Tokens), 3)
	assert.Equal(t, "IDENTIFIER", got.Tokens[0].Tag)
	assert.Equal(t, "x", got.Tokens[0].Value)
	assert.Equal(t, "NUMBER", got.Tokens[2].Tag)
}

func TestTokensTable(t *testing.T) {
	res := run(t, "x = 1\n", "tokens")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "IDENTIFIER")
	assert.Contains(t, res.stdout, `"x"`)
	assert.Contains(t, res.stdout, "1:1-2")
}

func TestTokensRejectsUnknownFormat(t *testing.T) {
	res := run(t, "x = 1\n", "tokens", "--format", "yaml")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `unknown format "yaml"`)
	assert.Contains(t, res.stderr, "Hint:")
}

func TestDumpWritesReadableFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.rc", "greet = (name) -> \"hi #{name}\"\n")
	out := filepath.Join(dir, "main.rtok")

	res := run(t, "", "dump", path, "-o", out)
	require.Equal(t, 0, res.code, res.stderr)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	d, digest, err := tokfmt.Read(f)
	require.NoError(t, err)

	assert.Equal(t, path, d.Source)
	assert.NotEmpty(t, d.Tokens)
	assert.Equal(t, "wrote "+out+" blake2b:"+hex.EncodeToString(digest[:])+"\n", res.stdout)
}

func TestDumpDefaultTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.rc", "x = 1\n")

	res := run(t, "", "dump", path)
	require.Equal(t, 0, res.code, res.stderr)

	_, err := os.Stat(path + ".rtok")
	assert.NoError(t, err)
}

func TestDumpRemovesPartialFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "broken.rtok")

	_, err := writeDump(target, func(w io.Writer) ([32]byte, error) {
		_, _ = w.Write([]byte(tokfmt.Magic))
		return [32]byte{}, errors.New("disk full")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "partial dump left at %s", target)
}

func TestDumpStdinNeedsOutput(t *testing.T) {
	res := run(t, "x = 1\n", "dump", "-")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no output file for standard input")
}

func TestConfigFromProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "relic.toml", "[output]\nformat = \"json\"\n")
	path := writeSource(t, dir, "main.rc", "x = 1\n")

	res := run(t, "", "tokens", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, json.Valid([]byte(res.stdout)), res.stdout)

	res = run(t, "", "tokens", path, "--format", "text")
	require.Equal(t, 0, res.code, res.stderr)
	assert.False(t, json.Valid([]byte(res.stdout)))
}

func TestConfigRequires(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "relic.toml", "requires = \"9.0\"\n")
	path := writeSource(t, dir, "main.rc", "x = 1\n")

	res := run(t, "", "check", path)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "project requires relic v9.0.0 or newer")
}

func TestConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	cfg := writeSource(t, dir, "custom.toml", "[lexer]\ntab_size = 0\n")
	path := writeSource(t, dir, "main.rc", "x = 1\n")

	res := run(t, "", "check", path, "--config", cfg)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid relic.toml")
}

func TestWatchNeedsFile(t *testing.T) {
	res := run(t, "x = 1\n", "check", "-", "--watch")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--watch needs a file")
}

func TestTraceFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.rc", "x = 1\n")
	trace := filepath.Join(dir, "trace.jsonl")

	res := run(t, "", "check", path, "--trace", trace)
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(trace)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[COMPILER] lexed")
}
