// Package types defines the token stream the Relic lexer produces and the
// parser consumes: tags, tokens, comments, and the AST node shape attached
// to inline type annotations.
package types

import (
	"fmt"
	"strings"

	"github.com/relic-lang/relic/core/source"
)

// Flags is a bitmask of token metadata.
type Flags uint8

const (
	// FlagGenerated marks tokens synthesised by the lexer.
	FlagGenerated Flags = 1 << iota

	// FlagSpaced marks tokens preceded by horizontal whitespace.
	FlagSpaced

	// FlagAccept marks tokens after which an implicit array may begin.
	FlagAccept

	// FlagValueBlock marks an INDENT opening the value of a key or assignment.
	FlagValueBlock

	// FlagControlParen marks the "(" directly after while, until, for, catch or with.
	FlagControlParen
)

// Has reports whether all bits of x are set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

func (f Flags) String() string {
	var parts []string
	names := []struct {
		flag Flags
		name string
	}{
		{FlagGenerated, "generated"},
		{FlagSpaced, "spaced"},
		{FlagAccept, "accept"},
		{FlagValueBlock, "value"},
		{FlagControlParen, "control"},
	}
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// Token is one terminal of the stream.
type Token struct {
	Type  TokenType       `json:"tag"`
	Value string          `json:"value"`
	Loc   source.Location `json:"loc"`
	Flags Flags           `json:"flags,omitempty"`

	// Pair links an opener to its closer; zero for unpaired tokens.
	Pair int `json:"pair,omitempty"`

	// Stage is the id of the lexer frame the token was emitted in.
	Stage int `json:"stage"`

	// Level is the indentation depth when the token was emitted.
	Level int `json:"lvl"`

	// Origin is the source spelling when the tag normalises it ("=" for AS).
	Origin string `json:"origin,omitempty"`

	// Count is the number of blank lines folded into a NEWLINE.
	Count int `json:"count,omitempty"`

	Annotation *TypeAnnotation `json:"type,omitempty"`
}

// Generated reports whether the lexer synthesised the token.
func (t Token) Generated() bool { return t.Flags.Has(FlagGenerated) }

// Spaced reports whether whitespace preceded the token.
func (t Token) Spaced() bool { return t.Flags.Has(FlagSpaced) }

// Is reports whether the token has one of the given tags.
func (t Token) Is(tags ...TokenType) bool {
	for _, tt := range tags {
		if t.Type == tt {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	if t.Type == NEWLINE {
		return fmt.Sprintf("NEWLINE(%d)", t.Count)
	}
	if t.Value == "" || t.Value == t.Type.String() {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// Comment is collected beside the token stream for the code generator.
type Comment struct {
	ID          int             `json:"id"`
	Text        string          `json:"text"`
	Loc         source.Location `json:"loc"`
	Inline      bool            `json:"inline,omitempty"`     // follows code on the same line
	JSDoc       bool            `json:"jsdoc,omitempty"`      // #: or a {: ... } block
	Definition  bool            `json:"definition,omitempty"` // read from a .d.rc file
	AddNewlines int             `json:"add_newlines,omitempty"`
}

// TypeAnnotation is an inline type attached to a token.
type TypeAnnotation struct {
	Text     string          `json:"text"`
	Loc      source.Location `json:"loc"`
	Optional bool            `json:"optional,omitempty"`
	Return   bool            `json:"return,omitempty"`
	Node     *Node           `json:"node,omitempty"`
}

// Node is an array-shaped AST node: a kind, an optional leaf value, and
// ordered children.
type Node struct {
	Kind     string          `json:"kind"`
	Value    string          `json:"value,omitempty"`
	Loc      source.Location `json:"loc"`
	Children []*Node         `json:"children,omitempty"`
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if len(n.Children) == 0 {
		if n.Value != "" && n.Value != n.Kind {
			fmt.Fprintf(b, "%s:%s", n.Kind, n.Value)
			return
		}
		b.WriteString(n.Kind)
		return
	}
	b.WriteString("(")
	b.WriteString(n.Kind)
	for _, c := range n.Children {
		b.WriteString(" ")
		c.write(b)
	}
	b.WriteString(")")
}
