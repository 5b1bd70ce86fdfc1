package membus

import "encoding/binary"

// MemoryBus is an in-process stand-in for the real memory-mapped bus,
// which is external to this module. It backs both Bus and CPUReader with
// a plain byte slice holding each word big-endian, so ReadWord/WriteWord
// hand back/accept the logical value and ReadByte sees a word's most
// significant byte first. No byte swap takes place.
//
// This lets `tapcpd serve` run end-to-end without real gateware attached,
// and is also useful as a test fixture beyond the package-local fakeBus
// doubles scattered through this module's other test files. A real
// deployment swaps this for a /dev/mem-backed Bus; nothing above this
// package depends on which one is plugged in.
type MemoryBus struct {
	mem []byte
}

// NewMemoryBus returns a MemoryBus large enough to back size bytes.
func NewMemoryBus(size uint32) *MemoryBus {
	return &MemoryBus{mem: make([]byte, size)}
}

// ReadWord loads the 32-bit word at addr, normalized to the logical
// (big-endian-on-the-wire) value.
func (b *MemoryBus) ReadWord(addr uint32) uint32 {
	if int(addr)+4 > len(b.mem) {
		return 0
	}
	return binary.BigEndian.Uint32(b.mem[addr : addr+4])
}

// WriteWord stores w at addr.
func (b *MemoryBus) WriteWord(addr uint32, w uint32) {
	if int(addr)+4 > len(b.mem) {
		return
	}
	binary.BigEndian.PutUint32(b.mem[addr:addr+4], w)
}

// ReadByte implements CPUReader over the same backing array, so a single
// MemoryBus can stand in for both address spaces in local development.
func (b *MemoryBus) ReadByte(addr uint32) byte {
	if int(addr) >= len(b.mem) {
		return 0
	}
	return b.mem[addr]
}
