package codec

import (
	"github.com/casper-tapcp/tapcpd/pkg/catalog"
	"github.com/casper-tapcp/tapcpd/pkg/hexcodec"
	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// ListingText renders the catalog as tab-separated ASCII lines, grounded
// in casper_tapcp_read_listdev_ascii. state.LineIndex doubles as the "first
// call" sentinel (-1) and the index of the next unsent byte of the
// buffered line; the producer's own line slice holds the line currently
// draining.
type ListingText struct {
	st   *transfer.State
	iter *catalog.Iterator
	line []byte
}

// NewListingText returns a producer over cat. The opener is expected to
// have left state.LineIndex at -1.
func NewListingText(st *transfer.State, cat *catalog.Catalog) *ListingText {
	return &ListingText{st: st, iter: cat.Iter()}
}

func (l *ListingText) Produce(out []byte) int {
	st := l.st
	if st.LineIndex == -1 {
		st.LineIndex = 0
	}

	n := 0
	for n < len(out) {
		if st.LineIndex == 0 {
			name, dev, ok := l.iter.Next()
			if !ok {
				return n
			}
			l.line = l.line[:0]
			l.line = append(l.line, name...)
			l.line = append(l.line, '\t')
			if dev.ReadOnly {
				l.line = append(l.line, '1')
			} else {
				l.line = append(l.line, '3')
			}
			l.line = append(l.line, '\t')
			l.line = hexcodec.EmitWord(dev.Offset, l.line, false)
			l.line = append(l.line, '\t')
			l.line = hexcodec.EmitWord(dev.Length, l.line, false)
			l.line = append(l.line, '\t')
			l.line = hexcodec.EmitWord(uint32(dev.Type), l.line, false)
			l.line = append(l.line, '\n')
		}

		for n < len(out) {
			c := l.line[st.LineIndex]
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

// ListingBinary streams the catalog's raw wire bytes (the 2-byte
// big-endian length prefix plus the packed entries), grounded in
// casper_tapcp_open_listdev's binary branch which sends the CORE_INFO CSL
// including its length prefix.
type ListingBinary struct {
	st  *transfer.State
	raw []byte
}

// NewListingBinary returns a producer over cat's framed wire bytes. The
// opener must set state.Remaining to len(cat.Framed()) and state.Cursor to 0.
func NewListingBinary(st *transfer.State, cat *catalog.Catalog) *ListingBinary {
	return &ListingBinary{st: st, raw: cat.Framed()}
}

func (l *ListingBinary) Produce(out []byte) int {
	st := l.st
	n := len(out)
	if int64(n) > st.Remaining {
		n = int(st.Remaining)
	}
	copy(out[:n], l.raw[st.Cursor:int64(st.Cursor)+int64(n)])
	st.Cursor += uint32(n)
	st.Remaining -= int64(n)
	return n
}
