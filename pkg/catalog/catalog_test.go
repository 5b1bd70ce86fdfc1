package catalog

import (
	"context"
	"encoding/binary"
	"testing"
)

// buildBlob packs entries into a length-prefixed catalog blob matching the
// on-wire layout: name\x00 + 4-byte BE offset + 4-byte BE length + 1-byte type.
func buildBlob(t *testing.T, entries []Device) []byte {
	t.Helper()
	var body []byte
	for _, d := range entries {
		body = append(body, d.Name...)
		body = append(body, 0)
		offsetWord := d.Offset
		if d.ReadOnly {
			offsetWord |= 1
		}
		var off [4]byte
		binary.BigEndian.PutUint32(off[:], offsetWord)
		body = append(body, off[:]...)
		var ln [4]byte
		binary.BigEndian.PutUint32(ln[:], d.Length)
		body = append(body, ln[:]...)
		body = append(body, d.Type)
	}
	blob := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(blob[:2], uint16(len(body)))
	copy(blob[2:], body)
	return blob
}

func TestIterateAndLookup(t *testing.T) {
	want := []Device{
		{Name: "A", Offset: 0x100, Length: 0x20, Type: 0x05, ReadOnly: false},
		{Name: "B", Offset: 0x200, Length: 0x10, Type: 0x06, ReadOnly: true},
	}
	cat := New(buildBlob(t, want))

	it := cat.Iter()
	for i, w := range want {
		name, dev, ok := it.Next()
		if !ok {
			t.Fatalf("entry %d: Next() reported end early", i)
		}
		if name != w.Name || dev != w {
			t.Errorf("entry %d = (%q, %+v), want (%q, %+v)", i, name, dev, w.Name, w)
		}
	}
	if _, _, ok := it.Next(); ok {
		t.Error("Next() after last entry should report end")
	}

	dev, ok := cat.Lookup("B")
	if !ok || dev != want[1] {
		t.Errorf("Lookup(B) = (%+v, %v), want (%+v, true)", dev, ok, want[1])
	}
	if _, ok := cat.Lookup("unknown_name"); ok {
		t.Error("Lookup(unknown_name) should fail")
	}
}

func TestReadOnlyBit(t *testing.T) {
	blob := buildBlob(t, []Device{{Name: "ro", Offset: 0x204, Length: 4, Type: 1, ReadOnly: true}})
	cat := New(blob)
	dev, ok := cat.Lookup("ro")
	if !ok {
		t.Fatal("lookup failed")
	}
	if !dev.ReadOnly {
		t.Error("expected ReadOnly true")
	}
	if dev.Offset != 0x204 {
		t.Errorf("offset = %#x, want masked 0x204 (low bits cleared)", dev.Offset)
	}
}

func TestFramed(t *testing.T) {
	blob := buildBlob(t, []Device{{Name: "x", Offset: 0, Length: 4, Type: 0}})
	cat := New(blob)
	framed := cat.Framed()
	if len(framed) != len(blob) {
		t.Errorf("Framed() length = %d, want %d", len(framed), len(blob))
	}
}

func TestMemorySource(t *testing.T) {
	blob := buildBlob(t, []Device{{Name: "z", Offset: 0, Length: 4, Type: 0}})
	src := NewMemorySource(blob)
	cat, err := src.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat.Lookup("z"); !ok {
		t.Error("expected to find device z")
	}
}
