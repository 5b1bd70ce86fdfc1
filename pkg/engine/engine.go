// Package engine adapts the resolver/codec core to a real TFTP server
// engine, github.com/pin/tftp/v3: the wire protocol — retransmission,
// block numbering, timeouts — is entirely pin/tftp's concern. This
// package only translates its call-once ReaderFrom/WriterTo handler
// shape into the core's chunk-driven produce/consume contract.
package engine

import (
	"context"
	"errors"
	"io"
	"log"

	tftp "github.com/pin/tftp/v3"

	"github.com/casper-tapcp/tapcpd/pkg/resolver"
	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// ByteRecorder receives the total bytes moved once a transfer completes.
// It mirrors the two byte-counting methods of monitor.Recorder, again
// without importing pkg/monitor.
type ByteRecorder interface {
	BytesRead(n int)
	BytesWritten(n int)
}

type noopByteRecorder struct{}

func (noopByteRecorder) BytesRead(int)    {}
func (noopByteRecorder) BytesWritten(int) {}

// modeSetter is implemented by the io.ReaderFrom/io.WriterTo values
// pin/tftp hands to read/write handlers; it reports the negotiated
// transfer mode ("octet" or "netascii").
type modeSetter interface {
	Mode() string
}

// Server bridges a *resolver.Resolver to pin/tftp's handler functions.
type Server struct {
	Resolver *resolver.Resolver
	Logger   *log.Logger
	// ChunkSize is the buffer size used to drain a read codec into the
	// engine's ReaderFrom. The engine itself governs wire packet size;
	// this only bounds how much core state advances per Produce call.
	ChunkSize int
	// Metrics receives byte counts for every completed transfer. Nil
	// becomes a no-op, matching Resolver.Metrics's optionality.
	Metrics ByteRecorder
}

// New returns a Server wrapping r. A nil logger discards log output.
func New(r *resolver.Resolver) *Server {
	return &Server{Resolver: r, ChunkSize: 1024}
}

// TFTPServer builds a *tftp.Server wired to s's handlers. The caller
// drives it with ListenAndServe or Serve.
func (s *Server) TFTPServer() *tftp.Server {
	return tftp.NewServer(s.handleRead, s.handleWrite)
}

func (s *Server) handleRead(filename string, rf io.ReaderFrom) error {
	binary := true
	if ms, ok := rf.(modeSetter); ok {
		binary = ms.Mode() != "netascii"
	}
	opened, err := s.Resolver.Open(context.Background(), filename, false, binary)
	if err != nil {
		s.logf("open %q failed: %v", filename, err)
		return err
	}
	n, err := rf.ReadFrom(&producerReader{p: opened.Producer, chunk: s.chunkSize()})
	s.metrics().BytesRead(int(n))
	if err != nil {
		s.logf("read %q failed: %v", filename, err)
	}
	return err
}

func (s *Server) handleWrite(filename string, wt io.WriterTo) error {
	binary := true
	if ms, ok := wt.(modeSetter); ok {
		binary = ms.Mode() != "netascii"
	}
	opened, err := s.Resolver.Open(context.Background(), filename, true, binary)
	if err != nil {
		s.logf("open %q failed: %v", filename, err)
		return err
	}
	n, err := wt.WriteTo(&consumerWriter{c: opened.Consumer})
	s.metrics().BytesWritten(int(n))
	if err != nil {
		s.logf("write %q failed: %v", filename, err)
	}
	return err
}

func (s *Server) chunkSize() int {
	if s.ChunkSize <= 0 {
		return 1024
	}
	return s.ChunkSize
}

func (s *Server) metrics() ByteRecorder {
	if s.Metrics == nil {
		return noopByteRecorder{}
	}
	return s.Metrics
}

func (s *Server) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// producerReader turns a transfer.Producer into an io.Reader: Read
// returns io.EOF the call after Produce returns fewer bytes than
// requested, matching the codec contract's end-of-transfer signal.
type producerReader struct {
	p     transfer.Producer
	chunk int
	done  bool
}

func (r *producerReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	if r.chunk > 0 && len(p) > r.chunk {
		p = p[:r.chunk]
	}
	n := r.p.Produce(p)
	if n < len(p) {
		r.done = true
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// consumerWriter turns a transfer.Consumer into an io.Writer: Write feeds
// the whole slice as a one-fragment chain, matching Consume's chain
// contract.
type consumerWriter struct {
	c transfer.Consumer
}

var errConsumerRejected = errors.New("engine: consumer rejected data")

func (w *consumerWriter) Write(p []byte) (int, error) {
	n := w.c.Consume([][]byte{p})
	if n < 0 {
		return 0, errConsumerRejected
	}
	return n, nil
}
