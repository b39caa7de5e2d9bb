// Package tokfmt is the binary dump format for lexed token streams.
//
// Layout: MAGIC(4) | VERSION(2) | FLAGS(2) | BODY_LEN(8) | BODY, integers
// little-endian. BODY is the canonical CBOR encoding of the stream, so equal
// streams give equal bytes and equal BLAKE2b-256 digests.
package tokfmt

import (
	"fmt"

	"github.com/relic-lang/relic/core/source"
	"github.com/relic-lang/relic/core/types"
)

const (
	// Magic is the file magic number "RTOK".
	Magic = "RTOK"

	// Version is the format version, major.minor in one uint16.
	Version uint16 = 0x0001

	preambleLen = 16

	// MaxBodyLen bounds what Read allocates for a body.
	MaxBodyLen = 64 * 1024 * 1024
)

// Flags is a bitmask describing the stream.
type Flags uint16

const (
	// FlagTypeScript marks a stream that carries inline types.
	FlagTypeScript Flags = 1 << 0

	// FlagELSON marks a stream lexed in the data-literal dialect.
	FlagELSON Flags = 1 << 1

	knownFlags = FlagTypeScript | FlagELSON
)

// Dump is a token stream as stored on disk.
type Dump struct {
	Flags    Flags
	Source   string
	Tokens   []types.Token
	Comments []types.Comment
}

// Annotation nodes are not stored; a reader that needs them resolves the
// annotation text again.
type body struct {
	Version  uint16          `cbor:"1,keyasint"`
	Source   string          `cbor:"2,keyasint,omitempty"`
	Tokens   []tokenRecord   `cbor:"3,keyasint"`
	Comments []commentRecord `cbor:"4,keyasint,omitempty"`
}

type tokenRecord struct {
	Tag        string            `cbor:"1,keyasint"`
	Value      string            `cbor:"2,keyasint,omitempty"`
	Loc        source.Location   `cbor:"3,keyasint"`
	Flags      uint8             `cbor:"4,keyasint,omitempty"`
	Pair       int               `cbor:"5,keyasint,omitempty"`
	Stage      int               `cbor:"6,keyasint,omitempty"`
	Level      int               `cbor:"7,keyasint,omitempty"`
	Origin     string            `cbor:"8,keyasint,omitempty"`
	Count      int               `cbor:"9,keyasint,omitempty"`
	Annotation *annotationRecord `cbor:"10,keyasint,omitempty"`
}

type annotationRecord struct {
	Text     string          `cbor:"1,keyasint"`
	Loc      source.Location `cbor:"2,keyasint"`
	Optional bool            `cbor:"3,keyasint,omitempty"`
	Return   bool            `cbor:"4,keyasint,omitempty"`
}

type commentRecord struct {
	ID          int             `cbor:"1,keyasint"`
	Text        string          `cbor:"2,keyasint"`
	Loc         source.Location `cbor:"3,keyasint"`
	Inline      bool            `cbor:"4,keyasint,omitempty"`
	JSDoc       bool            `cbor:"5,keyasint,omitempty"`
	Definition  bool            `cbor:"6,keyasint,omitempty"`
	AddNewlines int             `cbor:"7,keyasint,omitempty"`
}

func toBody(d *Dump) body {
	b := body{Version: Version, Source: d.Source, Tokens: make([]tokenRecord, len(d.Tokens))}
	for i, tok := range d.Tokens {
		rec := tokenRecord{
			Tag:    tok.Type.String(),
			Value:  tok.Value,
			Loc:    tok.Loc,
			Flags:  uint8(tok.Flags),
			Pair:   tok.Pair,
			Stage:  tok.Stage,
			Level:  tok.Level,
			Origin: tok.Origin,
			Count:  tok.Count,
		}
		if a := tok.Annotation; a != nil {
			rec.Annotation = &annotationRecord{Text: a.Text, Loc: a.Loc, Optional: a.Optional, Return: a.Return}
		}
		b.Tokens[i] = rec
	}
	for _, c := range d.Comments {
		b.Comments = append(b.Comments, commentRecord(c))
	}
	return b
}

func fromBody(b *body, flags Flags) (*Dump, error) {
	d := &Dump{Flags: flags, Source: b.Source, Tokens: make([]types.Token, len(b.Tokens))}
	for i, rec := range b.Tokens {
		tt, ok := types.ParseTokenType(rec.Tag)
		if !ok {
			return nil, fmt.Errorf("token %d: unknown tag %q", i, rec.Tag)
		}
		tok := types.Token{
			Type:   tt,
			Value:  rec.Value,
			Loc:    rec.Loc,
			Flags:  types.Flags(rec.Flags),
			Pair:   rec.Pair,
			Stage:  rec.Stage,
			Level:  rec.Level,
			Origin: rec.Origin,
			Count:  rec.Count,
		}
		if a := rec.Annotation; a != nil {
			tok.Annotation = &types.TypeAnnotation{Text: a.Text, Loc: a.Loc, Optional: a.Optional, Return: a.Return}
		}
		d.Tokens[i] = tok
	}
	for _, c := range b.Comments {
		d.Comments = append(d.Comments, types.Comment(c))
	}
	return d, nil
}
