package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalSpellingRoundTrip(t *testing.T) {
	for tt := TokenType(0); tt < tokenTypeCount; tt++ {
		name := tt.String()
		got, ok := ParseTokenType(name)
		require.True(t, ok, "terminal %q does not parse", name)
		assert.Equal(t, tt, got, name)
	}
	_, ok := ParseTokenType("NOT_A_TAG")
	assert.False(t, ok)
	assert.Equal(t, "ILLEGAL", TokenType(-1).String())
}

func TestOpenersHaveClosers(t *testing.T) {
	for tt := TokenType(0); tt < tokenTypeCount; tt++ {
		if !tt.IsOpener() {
			continue
		}
		assert.True(t, tt.Closer().IsCloser(), "%s closes with %s", tt, tt.Closer())
	}
	assert.Equal(t, TYPE_END, TYPE_START.Closer())
	assert.Equal(t, OUTDENT, INDENT.Closer())
	assert.False(t, RPAREN.IsOpener())
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "", Flags(0).String())
	assert.Equal(t, "generated,spaced", (FlagGenerated | FlagSpaced).String())
	assert.True(t, (FlagAccept | FlagValueBlock).Has(FlagValueBlock))
	assert.False(t, FlagAccept.Has(FlagControlParen))
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "NEWLINE(2)", Token{Type: NEWLINE, Value: "\n", Count: 2}.String())
	assert.Equal(t, `IDENTIFIER("x")`, Token{Type: IDENTIFIER, Value: "x"}.String())
	assert.Equal(t, "CALL_START", Token{Type: CALL_START, Flags: FlagGenerated}.String())
}

func TestTokenJSONUsesTerminalNames(t *testing.T) {
	data, err := json.Marshal(Token{Type: CALL_START, Flags: FlagGenerated})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tag":"CALL_START"`)
}

func TestNodeString(t *testing.T) {
	n := &Node{Kind: "Call", Children: []*Node{
		{Kind: "IDENTIFIER", Value: "f"},
		{Kind: "Array"},
	}}
	assert.Equal(t, "(Call IDENTIFIER:f Array)", n.String())
	assert.Equal(t, "<nil>", (*Node)(nil).String())

	punct := &Node{Kind: "Object", Children: []*Node{
		{Kind: "PROPERTY", Value: "a"},
		{Kind: ":", Value: ":"},
		{Kind: "NUMBER", Value: "1"},
	}}
	assert.Equal(t, "(Object PROPERTY:a : NUMBER:1)", punct.String())
}
