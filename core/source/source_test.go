package source

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCursorAdvance(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Cursor
	}{
		{"empty", "", Cursor{X: 1, Y: 1}},
		{"ascii", "abc", Cursor{X: 4, Y: 1}},
		{"newline", "ab\ncd", Cursor{X: 3, Y: 2}},
		{"trailing newline", "a\n", Cursor{X: 1, Y: 2}},
		{"runes", "héllo", Cursor{X: 6, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Start().Advance(tt.text))
		})
	}
}

func TestSpan(t *testing.T) {
	got := Span(Cursor{X: 5, Y: 2}, "\"a\nbc\"", "main.rc")
	want := Location{FirstLine: 2, FirstColumn: 5, LastLine: 3, LastColumn: 4, Src: "main.rc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("span mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2:5-3:4", got.Position())
	assert.Equal(t, Cursor{X: 4, Y: 3}, got.End())
}

func TestGuessTabSize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"no indentation", "a\nb\nc\n", 2},
		{"two spaces", "if a\n  b\n  if c\n    d\ne\n", 2},
		{"four spaces", "if a\n    b\n    if c\n        d\ne\nf\n    g\n", 4},
		{"eight and four prefer four", "a\n        b\nc\n    d\ne\n        f\n", 4},
		{"three spaces", "a\n   b\nc\n   d\ne\n   f\n", 3},
		{"alignment is ignored", "x = a,\n  b\ny\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessTabSize(tt.src))
		})
	}
}

func TestErrorFormat(t *testing.T) {
	src := "x = 1\ny = \"abc\n"
	err := Errorf(KindSyntax, Location{FirstLine: 2, FirstColumn: 5, LastLine: 2, LastColumn: 6}, "This string needs to be closed")
	err.WithSource(src)

	want := strings.Join([]string{
		"[stdin]:2:5 -> SyntaxError: This string needs to be closed",
		`y = "abc`,
		"    ^",
	}, "\n")
	assert.Equal(t, want, err.Error())
}

func TestErrorFormatNamedFileAndMultiline(t *testing.T) {
	err := &Error{
		Kind:     KindError,
		Message:  `Missing ")" for this token`,
		Location: Location{FirstLine: 1, FirstColumn: 4, LastLine: 3, LastColumn: 2},
		Code:     "foo(a,",
		Filename: "lib/util.rc",
	}
	got := err.Format(false)
	assert.True(t, strings.HasPrefix(got, "lib/util.rc:1:4 -> error: Missing"))
	assert.True(t, strings.HasSuffix(got, "\n   ^^^"), "caret should run to end of line, got %q", got)
}

func TestErrorFormatColor(t *testing.T) {
	err := Errorf(KindError, Location{FirstLine: 1, FirstColumn: 1, LastLine: 1, LastColumn: 2}, "unexpected token %s", "§")
	err.Code = "§"
	got := err.Format(true)
	assert.Contains(t, got, colorRed)
	assert.Contains(t, got, "unexpected token §")
	assert.NotContains(t, err.Format(false), colorRed)
}

func TestErrorWithoutCode(t *testing.T) {
	err := Errorf(KindError, Location{FirstLine: 3, FirstColumn: 7}, "file not found")
	err.Filename = "<anonymous>"
	assert.Equal(t, "[stdin]:3:7 -> error: file not found", err.Error())
}
