// Package transfer holds the per-transfer state: a single mutable State
// threaded through every chunk callback of one GET or PUT, plus the
// Producer and Consumer interfaces that the read and write codecs in
// pkg/codec implement to advance it.
//
// The line buffer lives on State rather than as shared static storage, so a
// caller that keeps one State per in-flight transfer already supports
// concurrent transfers to distinct resources without further rework.
package transfer

// lineBufCap is the line buffer capacity, enough to fit the widest listing
// or hexdump line with headroom.
const lineBufCap = 320

// State is the single mutable object threaded through every chunk call of
// a transfer.
type State struct {
	Write  bool // PUT if true, GET if false; fixed at open
	Binary bool // OCTET if true, TEXT if false; fixed at open

	Cursor    uint32 // next memory location to read from or write to
	Remaining int64  // reads: bytes left to produce (>=0); writes: upper bound, or -1 for unbounded

	LineIndex int32  // codec-private line-buffer index; -1 is the listing codec's "first call" sentinel
	Scratch32 uint32 // codec-private scratch: a line label (reads) or a flag/accumulator (writes)

	line []byte // per-transfer line buffer, see lineBufCap
}

// New returns a State ready for an opener to populate. write/binary are
// fixed for the lifetime of the transfer.
func New(write, binary bool) *State {
	return &State{
		Write:     write,
		Binary:    binary,
		Remaining: -1,
		line:      make([]byte, 0, lineBufCap),
	}
}

// Line returns the per-transfer line buffer, shared by every codec that
// needs to assemble output or input one line at a time. Codecs reslice it
// (typically via Line()[:0]) to build the next line without allocating.
func (s *State) Line() []byte { return s.line }

// SetLine replaces the line buffer, typically with the result of appending
// onto the slice returned by Line.
func (s *State) SetLine(b []byte) { s.line = b }

// Producer is the read-side (GET) codec contract. Produce fills up to
// len(out) bytes and returns how many it actually produced; a result
// smaller than len(out) signals end-of-transfer and the engine will not
// call again.
type Producer interface {
	Produce(out []byte) (n int)
}

// Consumer is the write-side (PUT) codec contract. Consume walks an
// entire chain of packet fragments in one call, returning the number of
// bytes successfully consumed, or a negative value on a fatal error (for
// example a write that would exceed the declared bound, or a line buffer
// overflow).
type Consumer interface {
	Consume(chain [][]byte) (n int)
}
