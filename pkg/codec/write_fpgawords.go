package codec

import (
	"encoding/binary"

	"github.com/casper-tapcp/tapcpd/pkg/hexcodec"
	"github.com/casper-tapcp/tapcpd/pkg/membus"
	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// WriteFPGAWordsBinary consumes a raw byte stream and writes it to FPGA
// space four bytes at a time, grounded in
// casper_tapcp_write_fpga_words_binary. It never flushes a partial
// trailing word; the protocol requires 4-byte-multiple writes. The
// in-progress word's bytes live in the transfer's line buffer; LineIndex
// is the count (0-3) already accumulated; Scratch32 is the running total
// of bytes written, as the source tracks in state->u32.
type WriteFPGAWordsBinary struct {
	st   *transfer.State
	fpga *membus.FPGA
}

func NewWriteFPGAWordsBinary(st *transfer.State, fpga *membus.FPGA) *WriteFPGAWordsBinary {
	buf := st.Line()
	if cap(buf) < 4 {
		buf = make([]byte, 4)
	}
	st.SetLine(buf[:4])
	return &WriteFPGAWordsBinary{st: st, fpga: fpga}
}

func (w *WriteFPGAWordsBinary) Consume(chain [][]byte) int {
	st := w.st
	total := 0
	buf := st.Line()
	for _, frag := range chain {
		for _, b := range frag {
			if st.Remaining == 0 {
				return -1
			}
			buf[st.LineIndex] = b
			st.LineIndex++
			st.Scratch32++
			total++
			if st.Remaining > 0 {
				st.Remaining--
			}
			if st.LineIndex == 4 {
				w.fpga.WriteWord(st.Cursor, binary.BigEndian.Uint32(buf))
				st.Cursor += 4
				st.LineIndex = 0
			}
		}
	}
	return total
}

// WriteFPGAWordsText parses an ASCII hexdump and writes the extracted
// words to FPGA space, grounded in casper_tapcp_write_fpga_words_ascii.
// Everything up to a line's first colon is a label and is discarded;
// LineIndex is the per-transfer line buffer's fill pointer; Scratch32 is
// the 0/1 flag recording whether the current line has already seen that
// colon.
type WriteFPGAWordsText struct {
	st   *transfer.State
	fpga *membus.FPGA
}

func NewWriteFPGAWordsText(st *transfer.State, fpga *membus.FPGA) *WriteFPGAWordsText {
	return &WriteFPGAWordsText{st: st, fpga: fpga}
}

func (w *WriteFPGAWordsText) Consume(chain [][]byte) int {
	st := w.st
	total := 0
	for _, frag := range chain {
		for _, c := range frag {
			if int(st.LineIndex) >= cap(st.Line()) {
				return -1
			}
			if st.LineIndex == 0 && isSpace(c) {
				total++
				continue
			}
			if c == ':' && st.Scratch32 == 0 {
				st.SetLine(st.Line()[:0])
				st.LineIndex = 0
				st.Scratch32 = 1
				total++
				continue
			}
			st.SetLine(append(st.Line(), c))
			st.LineIndex++
			total++
			if c == '\n' {
				if !w.processLine(st.Line()) {
					return -1
				}
				st.SetLine(st.Line()[:0])
				st.LineIndex = 0
				st.Scratch32 = 0
			}
		}
	}
	return total
}

func (w *WriteFPGAWordsText) processLine(line []byte) bool {
	st := w.st
	s := string(line)
	for len(s) > 0 && s[0] != '\n' {
		if isSpace(s[0]) {
			s = s[1:]
			continue
		}
		if !hexcodec.IsHexDigit(s[0]) {
			break
		}
		for len(s) > 0 && hexcodec.IsHexDigit(s[0]) {
			if st.Remaining >= 0 && st.Remaining < 4 {
				return false
			}
			var word uint32
			s, word = hexcodec.ParseWord(s)
			w.fpga.WriteWord(st.Cursor, word)
			st.Cursor += 4
			if st.Remaining > 0 {
				st.Remaining -= 4
			}
		}
	}
	return true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
