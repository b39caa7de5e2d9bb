package compiler

import (
	"strings"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

// Node kinds built by StructuralParser. Leaves use their token's terminal
// spelling as kind.
const (
	KindProgram   = "Program"
	KindBlock     = "Block"
	KindStatement = "Statement"
	KindTypeDecl  = "TypeDecl"
	KindType      = "Type"
)

var groupKinds = map[types.TokenType]string{
	types.INDENT:              KindBlock,
	types.LPAREN:              "Paren",
	types.LBRACKET:            "Array",
	types.LBRACE:              "Object",
	types.CALL_START:          "Call",
	types.PARAM_START:         "Params",
	types.INDEX_START:         "Index",
	types.INTERPOLATION_START: "Interpolation",
	types.STRING_START:        "String",
	types.REGEX_START:         "Regex",
	types.JSX_START:           "JSX",
	types.TYPE_START:          "TypeArgs",
}

// typeTerminals may appear in the value of a type declaration. Brackets
// must be explicit; a generated "[" is an implicit array.
var typeTerminals = map[types.TokenType]bool{
	types.IDENTIFIER: true, types.PROPERTY: true, types.STRING: true, types.NUMBER: true,
	types.BOOL: true, types.NULL: true, types.UNDEFINED: true, types.VOID: true,
	types.THIS: true, types.TYPEOF: true, types.KEYOF: true, types.TYPE_JOIN: true,
	types.FUNC_DIRECTIVE: true, types.COMMA: true, types.COLON: true, types.DOT: true,
	types.SPREAD: true, types.QUESTION: true, types.SYMBOL_EXISTS: true, types.READONLY: true,
	types.EXTENDS: true, types.IN: true, types.NEW: true, types.LT: true, types.GT: true,
	types.NEWLINE: true, types.LPAREN: true, types.RPAREN: true, types.LBRACE: true,
	types.LBRACKET: true, types.RBRACKET: true,
	types.RBRACE: true, types.PARAM_START: true, types.PARAM_END: true,
	types.INDEX_START: true, types.INDEX_END: true, types.TYPE_START: true, types.TYPE_END: true,
}

// StructuralParser builds a tree of balanced token groups. Each block is a
// list of statements split on NEWLINE; every other paired group becomes
// one node holding its inner tokens. "type X = ..." statements are checked
// to hold only type terminals.
type StructuralParser struct{}

type frame struct {
	node   *types.Node
	opener *types.Token
	stmt   *types.Node // open statement of a program or block
	start  int         // index of the open statement's first token
}

func (f *frame) statements() bool {
	return f.opener == nil || f.opener.Type == types.INDENT
}

// Parse implements Parser.
func (StructuralParser) Parse(tokens []types.Token) (*types.Node, error) {
	root := &types.Node{Kind: KindProgram}
	stack := []*frame{{node: root}}

	for i := range tokens {
		tok := &tokens[i]
		top := stack[len(stack)-1]

		switch {
		case tok.Type.IsOpener():
			group := &types.Node{Kind: groupKinds[tok.Type], Loc: tok.Loc}
			top.add(group, tokens, i)
			stack = append(stack, &frame{node: group, opener: tok})

		case tok.Type.IsCloser():
			if top.opener == nil || top.opener.Type.Closer() != tok.Type || top.opener.Pair != tok.Pair {
				return nil, unexpected(tok)
			}
			if err := top.closeStatement(tokens, i); err != nil {
				return nil, err
			}
			top.node.Loc = top.node.Loc.Through(tok.Loc)
			stack = stack[:len(stack)-1]

		case tok.Type == types.NEWLINE && top.statements():
			if err := top.closeStatement(tokens, i); err != nil {
				return nil, err
			}

		default:
			top.add(leaf(tok), tokens, i)
		}
	}

	if top := stack[len(stack)-1]; top.opener != nil {
		return nil, source.Errorf(source.KindSyntax, top.opener.Loc, "unexpected end of input")
	}
	if err := stack[0].closeStatement(tokens, len(tokens)); err != nil {
		return nil, err
	}
	return root, nil
}

func leaf(tok *types.Token) *types.Node {
	return &types.Node{Kind: tok.Type.String(), Value: tok.Value, Loc: tok.Loc}
}

// add appends n, built from tokens[i], to the frame, opening a statement
// in a block first.
func (f *frame) add(n *types.Node, tokens []types.Token, i int) {
	if !f.statements() {
		f.node.Children = append(f.node.Children, n)
		return
	}
	if f.stmt == nil {
		f.stmt = &types.Node{Kind: KindStatement, Loc: tokens[i].Loc}
		f.start = i
		f.node.Children = append(f.node.Children, f.stmt)
	}
	f.stmt.Children = append(f.stmt.Children, n)
	f.stmt.Loc = f.stmt.Loc.Through(n.Loc)
}

// closeStatement ends the open statement, whose tokens run up to end.
func (f *frame) closeStatement(tokens []types.Token, end int) error {
	stmt := f.stmt
	f.stmt = nil
	if stmt == nil || tokens[f.start].Type != types.TYPE {
		return nil
	}
	return typeDecl(stmt, tokens[f.start:end])
}

// typeDecl checks "type NAME = value" and folds the value into one node.
func typeDecl(stmt *types.Node, toks []types.Token) error {
	last := &toks[len(toks)-1]
	if len(toks) < 4 || toks[1].Type != types.IDENTIFIER || toks[2].Type != types.AS {
		if len(toks) >= 2 && toks[1].Type != types.IDENTIFIER {
			return unexpected(&toks[1])
		}
		if len(toks) >= 3 && toks[2].Type != types.AS {
			return unexpected(&toks[2])
		}
		return source.Errorf(source.KindSyntax, source.Point(last.Loc.End(), last.Loc.Src), "unexpected end of type declaration")
	}
	for i := 3; i < len(toks); i++ {
		tok := &toks[i]
		implicit := tok.Generated() && (tok.Type == types.LBRACKET || tok.Type == types.CALL_START)
		if implicit || !typeTerminals[tok.Type] {
			return unexpected(tok)
		}
	}

	stmt.Kind = KindTypeDecl
	name, value := stmt.Children[1], stmt.Children[3:]
	if len(value) == 1 {
		stmt.Children = []*types.Node{name, value[0]}
		return nil
	}
	typ := &types.Node{Kind: KindType, Loc: value[0].Loc.Through(value[len(value)-1].Loc), Children: value}
	stmt.Children = []*types.Node{name, typ}
	return nil
}

// unexpected reports tok the way users see it: generated tokens are named
// after the construct they stand for.
func unexpected(tok *types.Token) *source.Error {
	loc := tok.Loc
	var symbol string
	switch {
	case tok.Type == types.LBRACKET && tok.Generated():
		symbol = "implicit array"
	case tok.Type == types.CALL_START && tok.Generated():
		symbol = "implicit call"
	case tok.Type == types.NEWLINE:
		symbol = "end of line or expression"
	case tok.Type == types.INDENT:
		symbol = "indent"
		loc = source.Point(source.Cursor{X: 1, Y: loc.FirstLine + 1}, loc.Src)
	case tok.Origin != "":
		symbol = strings.ToLower(tok.Origin)
	default:
		symbol = strings.ToLower(tok.Type.String())
	}
	return source.Errorf(source.KindSyntax, loc, "unexpected %s", symbol)
}
