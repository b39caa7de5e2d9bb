package source

import (
	"fmt"
	"strings"
)

// Kind classifies a positioned error.
type Kind int

const (
	KindError  Kind = iota // generic lexing failure
	KindSyntax             // unexpected or malformed construct
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	default:
		return "error"
	}
}

// StdinName is shown for anonymous compile units.
const StdinName = "[stdin]"

const (
	colorRed   = "\x1b[0;31m"
	colorReset = "\x1b[0m"
)

// Error is a fatal, positioned problem in user source.
type Error struct {
	Kind     Kind
	Message  string
	Location Location
	Code     string // the offending source line, when known
	Filename string
}

// Errorf builds an Error at loc.
func Errorf(kind Kind, loc Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc, Filename: loc.Src}
}

func (e *Error) Error() string {
	return e.Format(false)
}

// WithSource fills Code from the line of src the error points at, if Code
// is not already set.
func (e *Error) WithSource(src string) *Error {
	if e.Code != "" || src == "" {
		return e
	}
	lines := strings.Split(src, "\n")
	if n := e.Location.FirstLine; n >= 1 && n <= len(lines) {
		e.Code = strings.TrimSuffix(lines[n-1], "\r")
	}
	return e
}

// DisplayName is the file name used in the error header.
func (e *Error) DisplayName() string {
	if e.Filename == "" || strings.HasPrefix(e.Filename, "<anonymous") {
		return StdinName
	}
	return e.Filename
}

// Format renders the error as
//
//	file:line:col -> Kind: message
//	<source line>
//	    ^^^
//
// with the offending range in red when color is set.
func (e *Error) Format(color bool) string {
	red := func(s string) string {
		if !color || s == "" {
			return s
		}
		return colorRed + s + colorReset
	}

	loc := e.Location
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d%s%d%s %s: %s",
		red(e.DisplayName()), loc.FirstLine, red(":"), loc.FirstColumn, red(" ->"), e.Kind, e.Message)

	if e.Code == "" {
		return b.String()
	}

	line := []rune(e.Code)
	start := clamp(loc.FirstColumn-1, 0, len(line))
	end := loc.LastColumn - 1
	if loc.LastLine > loc.FirstLine {
		end = len(line)
	}
	end = clamp(end, start, len(line))

	width := end - start
	if width < 1 {
		width = 1
	}

	b.WriteString("\n")
	b.WriteString(string(line[:start]))
	b.WriteString(red(string(line[start:end])))
	b.WriteString(string(line[end:]))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", start))
	b.WriteString(red(strings.Repeat("^", width)))
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
