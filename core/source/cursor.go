// Package source holds the position types shared by the lexer and the
// compiler: a moving Cursor, the Location stamped on every token, tab-size
// guessing, and the positioned Error reported to users.
package source

import (
	"fmt"
	"unicode/utf8"
)

// Cursor is a 1-based column (X) and line (Y) pair.
type Cursor struct {
	X int
	Y int
}

// Start is the cursor at the first column of the first line.
func Start() Cursor {
	return Cursor{X: 1, Y: 1}
}

// Advance returns the cursor moved past text. Columns count runes.
func (c Cursor) Advance(text string) Cursor {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '\n' {
			c.Y++
			c.X = 1
			continue
		}
		c.X++
	}
	return c
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Y, c.X)
}

// Location is the source range of a token, comment, or error.
// Lines and columns are 1-based; LastColumn is exclusive.
type Location struct {
	FirstLine   int    `json:"first_line" cbor:"1,keyasint"`
	FirstColumn int    `json:"first_column" cbor:"2,keyasint"`
	LastLine    int    `json:"last_line" cbor:"3,keyasint"`
	LastColumn  int    `json:"last_column" cbor:"4,keyasint"`
	Src         string `json:"src,omitempty" cbor:"5,keyasint,omitempty"`
}

// Span is the location covering text when it starts at start.
func Span(start Cursor, text, src string) Location {
	end := start.Advance(text)
	return Location{
		FirstLine:   start.Y,
		FirstColumn: start.X,
		LastLine:    end.Y,
		LastColumn:  end.X,
		Src:         src,
	}
}

// Point is a zero-width location at c, used for generated tokens.
func Point(c Cursor, src string) Location {
	return Location{FirstLine: c.Y, FirstColumn: c.X, LastLine: c.Y, LastColumn: c.X, Src: src}
}

// Start returns the cursor at the beginning of the location.
func (l Location) Start() Cursor {
	return Cursor{X: l.FirstColumn, Y: l.FirstLine}
}

// End returns the cursor just past the location.
func (l Location) End() Cursor {
	return Cursor{X: l.LastColumn, Y: l.LastLine}
}

// Through returns a location beginning at l and ending where other ends.
func (l Location) Through(other Location) Location {
	l.LastLine = other.LastLine
	l.LastColumn = other.LastColumn
	return l
}

// Position returns a formatted position string for error reporting.
func (l Location) Position() string {
	if l.FirstLine == l.LastLine {
		return fmt.Sprintf("%d:%d-%d", l.FirstLine, l.FirstColumn, l.LastColumn)
	}
	return fmt.Sprintf("%d:%d-%d:%d", l.FirstLine, l.FirstColumn, l.LastLine, l.LastColumn)
}
