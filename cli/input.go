package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/relic-lang/relic/core/source"
)

// unit is one source file to compile.
type unit struct {
	name string // display name; source.StdinName for standard input
	dir  string
	path string // absolute path on disk, empty for standard input
	src  string
}

// stdin reports whether the unit came from standard input.
func (u *unit) stdin() bool { return u.path == "" }

// readUnit handles the input modes:
// 1. Explicit stdin with "-"
// 2. Piped input when no file is named
// 3. File input
func readUnit(args []string, in io.Reader, piped bool) (*unit, error) {
	if len(args) == 0 && !piped {
		return nil, &CLIError{
			Type:    "input",
			Message: "no input file",
			Hint:    "pass a .rc file, or - to read standard input",
		}
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}
		return &unit{name: source.StdinName, dir: ".", src: string(data)}, nil
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", args[0], err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("cannot read %s", args[0]),
			Details: err.Error(),
		}
	}
	return &unit{name: args[0], dir: filepath.Dir(path), path: path, src: string(data)}, nil
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Pipes may not report a size, so only the mode is checked.
	return (stat.Mode() & os.ModeCharDevice) == 0
}
