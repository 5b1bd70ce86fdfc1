package engine

import (
	"bytes"
	"io"
	"testing"

	"github.com/casper-tapcp/tapcpd/pkg/catalog"
	"github.com/casper-tapcp/tapcpd/pkg/membus"
	"github.com/casper-tapcp/tapcpd/pkg/resolver"
)

// fakeReaderFrom stands in for the io.ReaderFrom pin/tftp hands to a read
// handler: ReadFrom drains src into an in-memory buffer, the way the real
// library drains it onto the wire in fixed-size blocks.
type fakeReaderFrom struct {
	buf bytes.Buffer
}

func (f *fakeReaderFrom) ReadFrom(src io.Reader) (int64, error) {
	return f.buf.ReadFrom(src)
}

func (f *fakeReaderFrom) Mode() string { return "octet" }

// fakeWriterTo stands in for the io.WriterTo handed to a write handler:
// WriteTo pushes pre-seeded bytes at dst in small pieces to exercise
// chunk-boundary handling.
type fakeWriterTo struct {
	data []byte
}

func (f *fakeWriterTo) WriteTo(dst io.Writer) (int64, error) {
	var total int64
	for i := 0; i < len(f.data); i += 3 {
		end := i + 3
		if end > len(f.data) {
			end = len(f.data)
		}
		n, err := dst.Write(f.data[i:end])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (f *fakeWriterTo) Mode() string { return "octet" }

type fakeBus struct{ mem map[uint32]uint32 }

func (b *fakeBus) ReadWord(addr uint32) uint32     { return b.mem[addr] }
func (b *fakeBus) WriteWord(addr uint32, w uint32) { b.mem[addr] = w }

func newTestServer() *Server {
	bus := &fakeBus{mem: map[uint32]uint32{}}
	r := &resolver.Resolver{
		Catalog: catalog.NewMemorySource(nil),
		FPGA:    &membus.FPGA{Bus: bus, Base: 0, Size: 0x100},
		CPU:     &membus.CPU{Reader: nil, Base: 0, Size: 0},
	}
	return New(r)
}

func TestHandleReadHelp(t *testing.T) {
	s := newTestServer()
	rf := &fakeReaderFrom{}
	if err := s.handleRead("/help", rf); err != nil {
		t.Fatal(err)
	}
	if rf.buf.Len() == 0 {
		t.Error("expected non-empty help output")
	}
}

func TestHandleWriteFPGABinary(t *testing.T) {
	s := newTestServer()
	wt := &fakeWriterTo{data: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}}
	if err := s.handleWrite("/fpga.0", wt); err != nil {
		t.Fatal(err)
	}
}

func TestHandleReadUnknownFails(t *testing.T) {
	s := newTestServer()
	rf := &fakeReaderFrom{}
	if err := s.handleRead("nonexistent", rf); err == nil {
		t.Error("expected error for unknown resource")
	}
}
