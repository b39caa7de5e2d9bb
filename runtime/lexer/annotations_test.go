package lexer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// recordingResolver returns a leaf node per annotation and remembers what
// it was asked to compile.
type recordingResolver struct {
	texts  []string
	depths []int
	fail   error
}

func (r *recordingResolver) resolve(text string, loc source.Location, depth int) (*types.Node, error) {
	r.texts = append(r.texts, text)
	r.depths = append(r.depths, depth)
	if r.fail != nil {
		return nil, r.fail
	}
	return &types.Node{Kind: "Type", Value: text, Loc: loc}, nil
}

func TestTypeAnnotations(t *testing.T) {
	t.Run("parameter", func(t *testing.T) {
		r := &recordingResolver{}
		res := lexResult(t, "f = (a :number) -> a\n", WithTypeResolver(r.resolve))
		require.Equal(t, []string{"IDENTIFIER", "AS", "PARAM_START", "IDENTIFIER", "PARAM_END", "FUNC_DIRECTIVE", "IDENTIFIER", "NEWLINE"}, tagsOf(res.Tokens))
		ann := res.Tokens[3].Annotation
		require.NotNil(t, ann)
		assert.Equal(t, "number", ann.Text)
		assert.Equal(t, 9, ann.Loc.FirstColumn)
		assert.Equal(t, "Type:number", ann.Node.String())
		assert.True(t, res.IsTypeScript)
		assert.Equal(t, []string{"number"}, r.texts)
	})

	t.Run("optional", func(t *testing.T) {
		res := lexResult(t, "f = (a?:string) -> a\n")
		ann := res.Tokens[3].Annotation
		require.NotNil(t, ann)
		assert.Equal(t, "string", ann.Text)
		assert.True(t, ann.Optional)
	})

	t.Run("return", func(t *testing.T) {
		res := lexResult(t, "f = (a) := number -> a\n")
		require.Equal(t, types.PARAM_END, res.Tokens[4].Type)
		ann := res.Tokens[4].Annotation
		require.NotNil(t, ann)
		assert.Equal(t, "number", ann.Text)
		assert.True(t, ann.Return)
	})

	t.Run("union with default", func(t *testing.T) {
		res := lexResult(t, "x :string | number = 1\n")
		require.Equal(t, []string{"IDENTIFIER", "AS", "NUMBER", "NEWLINE"}, tagsOf(res.Tokens))
		assert.Equal(t, "string | number", res.Tokens[0].Annotation.Text)
	})

	t.Run("function type", func(t *testing.T) {
		res := lexResult(t, "cb :(a: number) => void\n")
		require.Equal(t, []string{"IDENTIFIER", "NEWLINE"}, tagsOf(res.Tokens))
		assert.Equal(t, "(a: number) => void", res.Tokens[0].Annotation.Text)
	})
}

func TestGenericArguments(t *testing.T) {
	r := &recordingResolver{}
	res := lexResult(t, "x = useState<number>(0)\n", WithTypeResolver(r.resolve), WithDepth(2))
	require.Equal(t, []string{"IDENTIFIER", "AS", "IDENTIFIER", "<(", ")>", "CALL_START", "NUMBER", "CALL_END", "NEWLINE"}, tagsOf(res.Tokens))
	start, end := res.Tokens[3], res.Tokens[4]
	assert.Equal(t, start.Pair, end.Pair)
	require.NotNil(t, start.Annotation)
	assert.Equal(t, "number", start.Annotation.Text)
	assert.Equal(t, []string{"[number]"}, r.texts)
	assert.Equal(t, []int{2}, r.depths)
	assert.True(t, res.IsTypeScript)
}

func TestComparisonIsNotGeneric(t *testing.T) {
	assertTags(t, "a<b and c>d\n", []string{"IDENTIFIER", "<", "IDENTIFIER", "AND", "IDENTIFIER", ">", "IDENTIFIER", "NEWLINE"})
}

func TestTypeStatement(t *testing.T) {
	res := lexResult(t, "type ID = string | number\n")
	require.Equal(t, []string{"TYPE", "IDENTIFIER", "AS", "IDENTIFIER", "TYPE_JOIN", "IDENTIFIER", "NEWLINE"}, tagsOf(res.Tokens))
	assert.True(t, res.IsTypeScript)

	plain := lexResult(t, "type = a | b\n")
	assert.Equal(t, []string{"IDENTIFIER", "AS", "IDENTIFIER", "|", "IDENTIFIER", "NEWLINE"}, tagsOf(plain.Tokens))
	assert.False(t, plain.IsTypeScript)
}

func TestTypeErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		r := &recordingResolver{fail: fmt.Errorf("parse: unexpected token")}
		serr := lexError(t, "f = (a :number) -> a\n", WithTypeResolver(r.resolve))
		assert.Equal(t, "Invalid type", serr.Message)
		assert.Equal(t, 9, serr.Location.FirstColumn)
	})

	t.Run("too deep", func(t *testing.T) {
		r := &recordingResolver{fail: fmt.Errorf("depth 9: %w", ErrTypeNesting)}
		serr := lexError(t, "f = (a :number) -> a\n", WithTypeResolver(r.resolve))
		assert.Equal(t, source.KindError, serr.Kind)
		assert.Equal(t, "type annotation nesting too deep", serr.Message)
	})
}
