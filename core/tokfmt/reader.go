package tokfmt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/relic-lang/relic/core/invariant"
)

var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: 16,
	}.DecMode()
	invariant.ExpectNoError(err, "CBOR decode options")
	return dm
}()

// Read reads a dump from r and returns it with the digest of its body.
func Read(r io.Reader) (*Dump, [32]byte, error) {
	var preamble [preambleLen]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return nil, [32]byte{}, fmt.Errorf("read preamble: %w", err)
	}

	if magic := string(preamble[0:4]); magic != Magic {
		return nil, [32]byte{}, fmt.Errorf("invalid magic: got %q, expected %q", magic, Magic)
	}
	if version := binary.LittleEndian.Uint16(preamble[4:6]); version != Version {
		return nil, [32]byte{}, fmt.Errorf("unsupported version: got 0x%04x, expected 0x%04x", version, Version)
	}
	flags := Flags(binary.LittleEndian.Uint16(preamble[6:8]))
	if flags&^knownFlags != 0 {
		return nil, [32]byte{}, fmt.Errorf("unsupported flags: 0x%04x (unknown bits: 0x%04x)", uint16(flags), uint16(flags&^knownFlags))
	}
	bodyLen := binary.LittleEndian.Uint64(preamble[8:16])
	if bodyLen > MaxBodyLen {
		return nil, [32]byte{}, fmt.Errorf("body length %d exceeds maximum %d", bodyLen, MaxBodyLen)
	}

	data := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, [32]byte{}, fmt.Errorf("read body: %w", err)
	}

	var b body
	if err := decMode.Unmarshal(data, &b); err != nil {
		return nil, [32]byte{}, fmt.Errorf("decode body: %w", err)
	}
	if b.Version != Version {
		return nil, [32]byte{}, fmt.Errorf("body version 0x%04x does not match preamble", b.Version)
	}
	d, err := fromBody(&b, flags)
	if err != nil {
		return nil, [32]byte{}, fmt.Errorf("decode body: %w", err)
	}
	return d, blake2b.Sum256(data), nil
}
