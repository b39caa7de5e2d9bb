package tokfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/relic-lang/relic/core/invariant"
)

var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	invariant.Invariant(err == nil, "canonical CBOR options: %v", err)
	return em
}()

// Write writes d to w and returns the BLAKE2b-256 digest of the body.
func Write(w io.Writer, d *Dump) ([32]byte, error) {
	invariant.NotNil(d, "dump")
	if d.Flags&^knownFlags != 0 {
		return [32]byte{}, fmt.Errorf("unsupported flags: 0x%04x", uint16(d.Flags))
	}

	data, err := encMode.Marshal(toBody(d))
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode body: %w", err)
	}
	if len(data) > MaxBodyLen {
		return [32]byte{}, fmt.Errorf("body length %d exceeds maximum %d", len(data), MaxBodyLen)
	}

	var preamble bytes.Buffer
	preamble.WriteString(Magic)
	_ = binary.Write(&preamble, binary.LittleEndian, Version)
	_ = binary.Write(&preamble, binary.LittleEndian, uint16(d.Flags))
	_ = binary.Write(&preamble, binary.LittleEndian, uint64(len(data)))
	invariant.Postcondition(preamble.Len() == preambleLen, "preamble is %d bytes", preamble.Len())

	if _, err := w.Write(preamble.Bytes()); err != nil {
		return [32]byte{}, fmt.Errorf("write preamble: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return [32]byte{}, fmt.Errorf("write body: %w", err)
	}
	return blake2b.Sum256(data), nil
}

// Digest returns the digest Write would report for d without writing it.
func Digest(d *Dump) ([32]byte, error) {
	return Write(io.Discard, d)
}
