package codec

import (
	"github.com/casper-tapcp/tapcpd/pkg/hexcodec"
	"github.com/casper-tapcp/tapcpd/pkg/membus"
	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// BytesBinary streams raw bytes from CPU space, grounded in
// casper_tapcp_read_mem_bytes_binary.
type BytesBinary struct {
	st  *transfer.State
	cpu *membus.CPU
}

func NewBytesBinary(st *transfer.State, cpu *membus.CPU) *BytesBinary {
	return &BytesBinary{st: st, cpu: cpu}
}

func (b *BytesBinary) Produce(out []byte) int {
	st := b.st
	n := 0
	for n < len(out) && st.Remaining > 0 {
		out[n] = b.cpu.ReadByte(st.Cursor)
		st.Cursor++
		st.Remaining--
		n++
	}
	return n
}

// BytesText renders CPU space as an ASCII hexdump, grounded in
// casper_tapcp_read_mem_bytes_ascii: an 8-digit running label, a colon, and
// sixteen space-grouped hex byte pairs per line. state.Scratch32 is the next
// line's label; state.LineIndex is the index of the next unsent byte of the
// line held in the per-transfer line buffer.
type BytesText struct {
	st  *transfer.State
	cpu *membus.CPU
}

func NewBytesText(st *transfer.State, cpu *membus.CPU) *BytesText {
	return &BytesText{st: st, cpu: cpu}
}

func (b *BytesText) Produce(out []byte) int {
	st := b.st
	n := 0
	for n < len(out) && (st.Remaining > 0 || st.LineIndex > 0) {
		if st.LineIndex == 0 {
			line := hexcodec.EmitWord(st.Scratch32, st.Line()[:0], true)
			st.Scratch32 += 16
			line = append(line, ':', ' ')
			for i := 0; i < 16; i++ {
				line = hexcodec.EmitByte(b.cpu.ReadByte(st.Cursor), line, hexcodec.ForceHigh|hexcodec.ForceLow)
				st.Cursor++
				st.Remaining--
				if i&3 == 3 && i != 15 {
					line = append(line, ' ')
				}
				if st.Remaining == 0 {
					break
				}
			}
			line = append(line, '\n')
			st.SetLine(line)
		}

		line := st.Line()
		for n < len(out) {
			c := line[st.LineIndex]
			out[n] = c
			n++
			if c == '\n' {
				st.LineIndex = 0
				break
			}
			st.LineIndex++
		}
	}
	return n
}
