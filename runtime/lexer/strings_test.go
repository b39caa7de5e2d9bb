package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-lang/relic/core/types"
)

func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "double quoted",
			input: `x = "hello world"`,
			expected: []tokenExpectation{
				{types.IDENTIFIER, "x", 1, 1},
				{types.AS, "=", 1, 3},
				{types.STRING, `"hello world"`, 1, 5},
			},
		},
		{
			name:  "single quoted does not interpolate",
			input: `'a#{b}'`,
			expected: []tokenExpectation{
				{types.STRING, `'a#{b}'`, 1, 1},
			},
		},
		{
			name:  "backtick spans lines",
			input: "`line1\nline2`",
			expected: []tokenExpectation{
				{types.STRING, "`line1\nline2`", 1, 1},
			},
		},
		{
			name:  "escaped quote",
			input: `"a\"b"`,
			expected: []tokenExpectation{
				{types.STRING, `"a\"b"`, 1, 1},
			},
		},
		{
			name:  "dollar interpolation",
			input: "`${a}`",
			expected: []tokenExpectation{
				{types.STRING_START, "`", 1, 1},
				{types.INTERPOLATION_START, "${", 1, 2},
				{types.IDENTIFIER, "a", 1, 4},
				{types.INTERPOLATION_END, "}", 1, 5},
				{types.STRING_END, "`", 1, 6},
			},
		},
		{
			name:  "string argument",
			input: `log "hi"`,
			expected: []tokenExpectation{
				{types.IDENTIFIER, "log", 1, 1},
				{types.CALL_START, "(", 1, 5},
				{types.STRING, `"hi"`, 1, 5},
				{types.CALL_END, ")", 1, 9},
			},
		},
		{
			name:  "string key",
			input: `"a": 1`,
			expected: []tokenExpectation{
				{types.LBRACE, "{", 1, 1},
				{types.STRING, `"a"`, 1, 1},
				{types.COLON, ":", 1, 4},
				{types.NUMBER, "1", 1, 6},
				{types.RBRACE, "}", 1, 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestSlingString(t *testing.T) {
	res := lexResult(t, `x = \foo`)
	require.Len(t, res.Tokens, 3)
	tok := res.Tokens[2]
	assert.Equal(t, types.STRING, tok.Type)
	assert.Equal(t, `"foo"`, tok.Value)
	assert.Equal(t, `\foo`, tok.Origin)
}

func TestInterpolationWithCall(t *testing.T) {
	res := lexResult(t, `"#{f x}"`)
	assert.Equal(t, []string{
		"STRING_START", "INTERPOLATION_START", "IDENTIFIER", "CALL_START", "IDENTIFIER", "CALL_END", "INTERPOLATION_END", "STRING_END",
	}, tagsOf(res.Tokens))
	assert.Equal(t, []string{"f", "x"}, res.Names)
	assertBalanced(t, res.Tokens)
}

func TestNestedBracesInInterpolation(t *testing.T) {
	assertTags(t, `"#{ {a: 1} }"`, []string{
		"STRING_START", "INTERPOLATION_START", "{", "PROPERTY", ":", "NUMBER", "}", "INTERPOLATION_END", "STRING_END",
	})
}

func TestRegex(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		assertTokens(t, "regex", "x = /ab+c/gi", []tokenExpectation{
			{types.IDENTIFIER, "x", 1, 1},
			{types.AS, "=", 1, 3},
			{types.REGEX, "/ab+c/gi", 1, 5},
		})
	})

	t.Run("class holds slash", func(t *testing.T) {
		assertTokens(t, "class", "x = /[/]/", []tokenExpectation{
			{types.IDENTIFIER, "x", 1, 1},
			{types.AS, "=", 1, 3},
			{types.REGEX, "/[/]/", 1, 5},
		})
	})

	t.Run("division", func(t *testing.T) {
		assertTags(t, "a / b / c", []string{"IDENTIFIER", "DIVISION", "IDENTIFIER", "DIVISION", "IDENTIFIER"})
	})

	t.Run("argument", func(t *testing.T) {
		assertTags(t, "foo /x/", []string{"IDENTIFIER", "CALL_START", "REGEX", "CALL_END"})
	})

	t.Run("interpolated", func(t *testing.T) {
		assertTokens(t, "interpolated regex", "/a#{b}c/g", []tokenExpectation{
			{types.REGEX_START, "/", 1, 1},
			{types.STRING, "a", 1, 2},
			{types.INTERPOLATION_START, "#{", 1, 3},
			{types.IDENTIFIER, "b", 1, 5},
			{types.INTERPOLATION_END, "}", 1, 6},
			{types.STRING, "c", 1, 7},
			{types.REGEX_END, "/g", 1, 8},
		})
	})

	t.Run("unclosed", func(t *testing.T) {
		serr := lexError(t, "x = /abc\n")
		assert.Equal(t, "missing / (unclosed regex)", serr.Message)
		assert.Equal(t, 5, serr.Location.FirstColumn)
	})
}

func TestJSX(t *testing.T) {
	t.Run("element", func(t *testing.T) {
		assertTokens(t, "element", "x = <div>hi</div>", []tokenExpectation{
			{types.IDENTIFIER, "x", 1, 1},
			{types.AS, "=", 1, 3},
			{types.JSX_START, "", 1, 5},
			{types.STRING, "<div>hi</div>", 1, 5},
			{types.JSX_END, "", 1, 18},
		})
	})

	t.Run("embedded expression", func(t *testing.T) {
		assertTokens(t, "embed", "<a>{b}</a>", []tokenExpectation{
			{types.JSX_START, "", 1, 1},
			{types.STRING, "<a>", 1, 1},
			{types.INTERPOLATION_START, "{", 1, 4},
			{types.IDENTIFIER, "b", 1, 5},
			{types.INTERPOLATION_END, "}", 1, 6},
			{types.STRING, "</a>", 1, 7},
			{types.JSX_END, "", 1, 11},
		})
	})

	t.Run("self closing and fragment", func(t *testing.T) {
		assertTags(t, "x = <br/>", []string{"IDENTIFIER", "AS", "JSX_START", "STRING", "JSX_END"})
		assertTags(t, "x = <>a<b/></>", []string{"IDENTIFIER", "AS", "JSX_START", "STRING", "JSX_END"})
	})

	t.Run("comparison", func(t *testing.T) {
		assertTags(t, "a < b", []string{"IDENTIFIER", "<", "IDENTIFIER"})
	})

	tests := []struct {
		input   string
		message string
	}{
		{"x = <a>hi</b>", "expected <a> to be closed before closing <b>"},
		{"x = <a>hi", "missing closing </a>"},
		{"x = </a>", "<a> must be opened first before closing it"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			serr := lexError(t, tt.input)
			assert.Equal(t, tt.message, serr.Message)
		})
	}
}
