package tokfmt_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/tokfmt"
	"github.com/relic-lang/relic/core/types"
)

func sampleDump() *tokfmt.Dump {
	loc := func(col int, text string) source.Location {
		return source.Span(source.Cursor{X: col, Y: 1}, text, "main.rc")
	}
	return &tokfmt.Dump{
		Flags:  tokfmt.FlagTypeScript,
		Source: "main.rc",
		Tokens: []types.Token{
			{Type: types.IDENTIFIER, Value: "x", Loc: loc(1, "x"), Stage: 1, Annotation: &types.TypeAnnotation{Text: "number", Loc: loc(4, "number")}},
			{Type: types.AS, Value: "=", Loc: loc(11, "="), Flags: types.FlagSpaced, Origin: "=", Stage: 1},
			{Type: types.NUMBER, Value: "1", Loc: loc(13, "1"), Flags: types.FlagSpaced, Stage: 1},
			{Type: types.NEWLINE, Value: "\n", Loc: loc(14, "\n"), Stage: 1, Count: 2},
			{Type: types.CALL_START, Value: "(", Loc: source.Point(source.Cursor{X: 2, Y: 4}, "main.rc"), Flags: types.FlagGenerated, Pair: 1},
			{Type: types.CALL_END, Value: ")", Loc: source.Point(source.Cursor{X: 5, Y: 4}, "main.rc"), Flags: types.FlagGenerated, Pair: 1},
		},
		Comments: []types.Comment{
			{ID: 0, Text: " note", Loc: loc(15, "# note"), Inline: true, AddNewlines: 1},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	in := sampleDump()

	var buf bytes.Buffer
	written, err := tokfmt.Write(&buf, in)
	require.NoError(t, err)

	out, read, err := tokfmt.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, written, read)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("dump mismatch (-written +read):\n%s", diff)
	}
}

func TestPreamble(t *testing.T) {
	var buf bytes.Buffer
	_, err := tokfmt.Write(&buf, sampleDump())
	require.NoError(t, err)

	data := buf.Bytes()
	require.Greater(t, len(data), 16)
	assert.Equal(t, "RTOK", string(data[0:4]))
	assert.Equal(t, tokfmt.Version, binary.LittleEndian.Uint16(data[4:6]))
	assert.Equal(t, uint16(tokfmt.FlagTypeScript), binary.LittleEndian.Uint16(data[6:8]))
	assert.Equal(t, uint64(len(data)-16), binary.LittleEndian.Uint64(data[8:16]))
}

func TestDeterministic(t *testing.T) {
	first, err := tokfmt.Digest(sampleDump())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := tokfmt.Digest(sampleDump())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	changed := sampleDump()
	changed.Tokens[2].Value = "2"
	other, err := tokfmt.Digest(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestReadRejects(t *testing.T) {
	var buf bytes.Buffer
	_, err := tokfmt.Write(&buf, sampleDump())
	require.NoError(t, err)
	valid := buf.Bytes()

	corrupt := func(edit func([]byte) []byte) []byte {
		data := append([]byte(nil), valid...)
		return edit(data)
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{"short", valid[:10], "read preamble"},
		{"magic", corrupt(func(b []byte) []byte { copy(b, "OPAL"); return b }), "invalid magic"},
		{"version", corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 9); return b }), "unsupported version"},
		{"flags", corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[6:], 0x8000); return b }), "unsupported flags"},
		{"huge body", corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint64(b[8:], 1<<40); return b }), "exceeds maximum"},
		{"truncated body", valid[:len(valid)-3], "read body"},
		{"garbage body", corrupt(func(b []byte) []byte {
			for i := 16; i < len(b); i++ {
				b[i] = 0xff
			}
			return b
		}), "decode body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tokfmt.Read(bytes.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteRejectsUnknownFlags(t *testing.T) {
	d := sampleDump()
	d.Flags = 0x4000
	_, err := tokfmt.Write(&bytes.Buffer{}, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported flags")
}
