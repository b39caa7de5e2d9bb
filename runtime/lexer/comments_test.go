package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-lang/relic/core/types"
)

func TestTrailingComment(t *testing.T) {
	res := lexResult(t, "x = 1 # note\ny = 2\n")
	assert.Equal(t, []string{"IDENTIFIER", "AS", "NUMBER", "NEWLINE", "IDENTIFIER", "AS", "NUMBER", "NEWLINE"}, tagsOf(res.Tokens))
	require.Len(t, res.Comments, 1)
	c := res.Comments[0]
	assert.Equal(t, "# note", c.Text)
	assert.True(t, c.Inline)
	assert.False(t, c.JSDoc)
	assert.Equal(t, 1, c.AddNewlines)
	assert.Equal(t, 7, c.Loc.FirstColumn)
}

func TestClosedHashComment(t *testing.T) {
	assertTokens(t, "code after closing hash", "x = 1 #c# + 2\n", []tokenExpectation{
		{types.IDENTIFIER, "x", 1, 1},
		{types.AS, "=", 1, 3},
		{types.NUMBER, "1", 1, 5},
		{types.PLUS, "+", 1, 11},
		{types.NUMBER, "2", 1, 13},
		{types.NEWLINE, "\n", 1, 14},
	})

	res := lexResult(t, "x = 1 #c# + 2\n")
	require.Len(t, res.Comments, 1)
	assert.Equal(t, "#c#", res.Comments[0].Text)
	assert.False(t, res.Comments[0].Inline)
	assert.Equal(t, 0, res.Comments[0].AddNewlines)

	t.Run("doc comments run to end of line", func(t *testing.T) {
		res := lexResult(t, "#: a # b\nx\n")
		require.Len(t, res.Comments, 1)
		assert.Equal(t, "#: a # b", res.Comments[0].Text)
	})
}

func TestCommentLinesKeepOneBreak(t *testing.T) {
	res := lexResult(t, "a = 1\n# c\nb = 2\n")
	assert.Equal(t, []string{"IDENTIFIER", "AS", "NUMBER", "NEWLINE", "IDENTIFIER", "AS", "NUMBER", "NEWLINE"}, tagsOf(res.Tokens))
	require.Len(t, res.Comments, 1)
	assert.False(t, res.Comments[0].Inline)
	assert.Equal(t, 2, res.Comments[0].Loc.FirstLine)
}

func TestCommentInsideBlock(t *testing.T) {
	assertTags(t, "if a\n  # why\n  b\n", []string{
		"IF", "(", "IDENTIFIER", ")", "THEN", "INDENT", "IDENTIFIER", "OUTDENT", "NEWLINE",
	})
}

func TestCommentForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		jsdoc bool
	}{
		{"hash", "# plain", "# plain", false},
		{"slashes", "// plain", "// plain", false},
		{"doc hash", "#: documented", "#: documented", true},
		{"block", "/* a\nb */", "/* a\nb */", false},
		{"doc block", "/** a */", "/** a */", true},
		{"brace doc", "{: a {b} }", "{: a {b} }", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := lexResult(t, tt.input)
			assert.Empty(t, res.Tokens)
			require.Len(t, res.Comments, 1)
			assert.Equal(t, types.Comment{
				ID:    0,
				Text:  tt.text,
				Loc:   res.Comments[0].Loc,
				JSDoc: tt.jsdoc,
			}, res.Comments[0])
		})
	}
}

func TestCommentIDs(t *testing.T) {
	res := lexResult(t, "# one\nx = \"#{y # two\n}\"\n")
	require.Len(t, res.Comments, 2)
	assert.Equal(t, 0, res.Comments[0].ID)
	assert.Equal(t, 1, res.Comments[1].ID)
	assert.Equal(t, "# two", res.Comments[1].Text)
}

func TestUnclosedComment(t *testing.T) {
	for _, input := range []string{"/* open", "{: open"} {
		serr := lexError(t, input)
		assert.Equal(t, "This comment needs to be closed", serr.Message)
		assert.Equal(t, 1, serr.Location.FirstColumn)
	}
}
