package codec

import (
	"github.com/casper-tapcp/tapcpd/pkg/hexcodec"
	"github.com/casper-tapcp/tapcpd/pkg/membus"
	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// FPGAWordsBinary streams bytes drawn from word-aligned FPGA loads,
// grounded in casper_tapcp_read_fpga_words_binary. state.Scratch32 holds
// the word currently being drained a byte at a time.
type FPGAWordsBinary struct {
	st   *transfer.State
	fpga *membus.FPGA
}

func NewFPGAWordsBinary(st *transfer.State, fpga *membus.FPGA) *FPGAWordsBinary {
	return &FPGAWordsBinary{st: st, fpga: fpga}
}

func (f *FPGAWordsBinary) Produce(out []byte) int {
	st := f.st
	n := 0
	for n < len(out) && st.Remaining > 0 {
		st.Remaining--
		switch st.Remaining & 3 {
		case 3:
			st.Scratch32 = f.fpga.ReadWord(st.Cursor)
			st.Cursor += 4
			out[n] = byte(st.Scratch32 >> 24)
		case 2:
			out[n] = byte(st.Scratch32 >> 16)
		case 1:
			out[n] = byte(st.Scratch32 >> 8)
		case 0:
			out[n] = byte(st.Scratch32)
		}
		n++
	}
	return n
}

// FPGAWordsText renders FPGA space as a hexdump of four 4-byte word groups
// per line, each rendered with all 8 digits, grounded in
// casper_tapcp_read_fpga_words_ascii.
type FPGAWordsText struct {
	st   *transfer.State
	fpga *membus.FPGA
}

func NewFPGAWordsText(st *transfer.State, fpga *membus.FPGA) *FPGAWordsText {
	return &FPGAWordsText{st: st, fpga: fpga}
}

func (f *FPGAWordsText) Produce(out []byte) int {
	st := f.st
	n := 0
	for n < len(out) && (st.Remaining > 0 || st.LineIndex > 0) {
		if st.LineIndex == 0 {
			line := hexcodec.EmitWord(st.Scratch32, st.Line()[:0], true)
			st.Scratch32 += 16
			line = append(line, ':', ' ')
			for i := 0; i < 4; i++ {
				word := f.fpga.ReadWord(st.Cursor)
				st.Cursor += 4
				st.Remaining -= 4
				if i > 0 {
					line = append(line, ' ')
				}
				line = hexcodec.EmitWord(word, line, true)
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
