// Package catalog iterates and looks up entries in the packed device
// catalog: an opaque byte blob preceded by a 16-bit big-endian length,
// containing a sequence of NUL-terminated device names each immediately
// followed by a 9-byte payload (4-byte big-endian offset, 4-byte
// big-endian length, 1-byte type code).
//
// The low bit of the offset word flags a read-only device; the effective
// offset is that word with its two low bits masked off.
package catalog

import (
	"encoding/binary"
	"errors"
)

// ErrMalformed is returned when the catalog blob is truncated or an entry
// does not fit the expected layout.
var ErrMalformed = errors.New("catalog: malformed entry")

// Device describes one catalog entry.
type Device struct {
	Name     string
	Offset   uint32 // effective word-aligned offset within FPGA space, low 2 bits masked
	Length   uint32 // length in bytes
	Type     uint8
	ReadOnly bool
}

// Catalog wraps a raw catalog blob: a 2-byte big-endian length prefix
// followed by that many bytes of packed entries.
type Catalog struct {
	raw []byte
}

// New wraps raw as a Catalog. raw is not copied; the caller must not
// mutate it while the Catalog is in use.
func New(raw []byte) *Catalog {
	return &Catalog{raw: raw}
}

// entries returns the packed-entry region of the blob, bounded by the
// length prefix (and by the actual slice length, if the prefix overstates
// it).
func (c *Catalog) entries() []byte {
	if len(c.raw) < 2 {
		return nil
	}
	n := int(binary.BigEndian.Uint16(c.raw[:2]))
	end := 2 + n
	if end > len(c.raw) {
		end = len(c.raw)
	}
	return c.raw[2:end]
}

// Framed returns the catalog blob exactly as the listing-binary codec
// emits it: the 2-byte length prefix followed by the entries it covers.
func (c *Catalog) Framed() []byte {
	n := 2 + len(c.entries())
	if n > len(c.raw) {
		n = len(c.raw)
	}
	return c.raw[:n]
}

// Iterator walks catalog entries in blob order.
type Iterator struct {
	data []byte
	pos  int
}

// Iter returns an Iterator positioned at the first entry.
func (c *Catalog) Iter() *Iterator {
	return &Iterator{data: c.entries()}
}

// Next yields the next (name, device) pair, or ok == false when the
// catalog is exhausted.
func (it *Iterator) Next() (name string, dev Device, ok bool) {
	if it.pos >= len(it.data) {
		return "", Device{}, false
	}
	start := it.pos
	nameEnd := start
	for nameEnd < len(it.data) && it.data[nameEnd] != 0 {
		nameEnd++
	}
	if nameEnd >= len(it.data) {
		it.pos = len(it.data)
		return "", Device{}, false
	}
	payloadStart := nameEnd + 1
	const payloadLen = 9 // 4-byte offset + 4-byte length + 1-byte type
	if payloadStart+payloadLen > len(it.data) {
		it.pos = len(it.data)
		return "", Device{}, false
	}
	offsetWord := binary.BigEndian.Uint32(it.data[payloadStart : payloadStart+4])
	length := binary.BigEndian.Uint32(it.data[payloadStart+4 : payloadStart+8])
	typ := it.data[payloadStart+8]

	it.pos = payloadStart + payloadLen
	return string(it.data[start:nameEnd]), Device{
		Name:     string(it.data[start:nameEnd]),
		Offset:   offsetWord &^ 3,
		Length:   length,
		Type:     typ,
		ReadOnly: offsetWord&1 != 0,
	}, true
}

// Lookup scans the catalog linearly for name, returning its device and
// true if found. The catalog is expected to be small and static for a
// given gateware image, so a linear scan is sufficient.
func (c *Catalog) Lookup(name string) (Device, bool) {
	it := c.Iter()
	for {
		entryName, dev, ok := it.Next()
		if !ok {
			return Device{}, false
		}
		if entryName == name {
			return dev, true
		}
	}
}
