// Package resolver parses the filename the engine hands it, consults the
// catalog and memory gateway, populates a transfer.State, and binds the
// matching read or write codec.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casper-tapcp/tapcpd/pkg/catalog"
	"github.com/casper-tapcp/tapcpd/pkg/codec"
	"github.com/casper-tapcp/tapcpd/pkg/hexcodec"
	"github.com/casper-tapcp/tapcpd/pkg/membus"
	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// Recorder receives an open-success or open-failure notification per
// transfer. It mirrors monitor.Recorder's transfer-lifecycle methods
// without importing pkg/monitor, so the resolver has no dependency on the
// concrete counters implementation.
type Recorder interface {
	TransferOpened(resource string)
	TransferFailed(resource string, err error)
}

// noopRecorder discards every call; it is the Resolver default so callers
// that do not care about metrics never need a nil check.
type noopRecorder struct{}

func (noopRecorder) TransferOpened(string)        {}
func (noopRecorder) TransferFailed(string, error) {}

// ErrNotFound covers every open failure the resolver can produce: unknown
// device, out-of-range offset/length, read-only violation, or malformed
// name. The engine adapter maps all of them to a single protocol-level
// file-not-found/access-violation response, so the core does not carry a
// richer error taxonomy.
var ErrNotFound = errors.New("resolver: open failed")

// Opened is the result of a successful open: a transfer.State plus
// whichever side of the codec pair applies to the request's direction.
type Opened struct {
	State    *transfer.State
	Producer transfer.Producer // set when !write
	Consumer transfer.Consumer // set when write
}

// Resolver binds the core's codecs to concrete address spaces and a
// catalog source.
type Resolver struct {
	Catalog catalog.Source
	FPGA    *membus.FPGA
	CPU     *membus.CPU
	Temp    codec.TempSource // optional; nil disables /temp
	Metrics Recorder         // optional; nil becomes noopRecorder
}

// Open parses name under the given direction/mode and returns a bound
// transfer, or ErrNotFound (wrapped with more detail) if the request
// cannot be satisfied. Every call reports to Metrics, success or failure.
func (r *Resolver) Open(ctx context.Context, name string, write, binary bool) (*Opened, error) {
	opened, err := r.open(ctx, name, write, binary)
	rec := r.Metrics
	if rec == nil {
		rec = noopRecorder{}
	}
	if err != nil {
		rec.TransferFailed(name, err)
	} else {
		rec.TransferOpened(name)
	}
	return opened, err
}

func (r *Resolver) open(ctx context.Context, name string, write, binary bool) (*Opened, error) {
	switch {
	case name == "/help":
		if write {
			return nil, errNotFound("help is read-only")
		}
		st := transfer.New(write, binary)
		st.Remaining = int64(len(codec.HelpBanner))
		return &Opened{State: st, Producer: codec.NewHelp(st)}, nil

	case name == "/listdev":
		if write {
			return nil, errNotFound("listdev is read-only")
		}
		cat, err := r.Catalog.Catalog(ctx)
		if err != nil {
			return nil, errNotFoundf("catalog unavailable: %v", err)
		}
		st := transfer.New(write, binary)
		if binary {
			st.Remaining = int64(len(cat.Framed()))
			return &Opened{State: st, Producer: codec.NewListingBinary(st, cat)}, nil
		}
		st.LineIndex = -1
		return &Opened{State: st, Producer: codec.NewListingText(st, cat)}, nil

	case name == "/temp":
		if write {
			return nil, errNotFound("temp is read-only")
		}
		if r.Temp == nil {
			return nil, errNotFound("no temperature source configured")
		}
		st := transfer.New(write, binary)
		p, err := codec.NewTemp(st, r.Temp)
		if err != nil {
			return nil, errNotFoundf("temp read failed: %v", err)
		}
		return &Opened{State: st, Producer: p}, nil

	case strings.HasPrefix(name, "/fpga."):
		return r.openMem(name[len("/fpga."):], true, write, binary)

	case strings.HasPrefix(name, "/cpu."):
		if write {
			return nil, errNotFound("cpu is read-only")
		}
		return r.openMem(name[len("/cpu."):], false, write, binary)

	default:
		return r.openDevice(ctx, name, write, binary)
	}
}

func (r *Resolver) openDevice(ctx context.Context, name string, write, binary bool) (*Opened, error) {
	fname := strings.TrimPrefix(name, "/dev/")

	devName := fname
	rest := ""
	if i := strings.IndexByte(fname, '.'); i >= 0 {
		devName = fname[:i]
		rest = fname[i+1:]
	}

	cat, err := r.Catalog.Catalog(ctx)
	if err != nil {
		return nil, errNotFoundf("catalog unavailable: %v", err)
	}
	dev, ok := cat.Lookup(devName)
	if !ok {
		return nil, errNotFoundf("device %q not found", devName)
	}
	if write && dev.ReadOnly {
		return nil, errNotFoundf("device %q is read-only", devName)
	}

	var off, length uint32
	if rest != "" {
		var next string
		next, off = hexcodec.ParseWord(rest)
		if !write && next != "" {
			next = strings.TrimPrefix(next, ".")
			_, length = hexcodec.ParseWord(next)
		}
	}

	devWords := dev.Length >> 2
	if length == 0 {
		if off > devWords {
			return nil, errNotFound("offset past end of device")
		}
		length = devWords - off
		if length == 0 {
			return nil, errNotFound("request too short")
		}
	}
	if !write && off+length > devWords {
		return nil, errNotFound("request too long")
	}

	st := transfer.New(write, binary)
	st.Cursor = dev.Offset + off*4
	st.Remaining = int64(length) * 4

	if !write {
		if binary {
			return &Opened{State: st, Producer: codec.NewFPGAWordsBinary(st, r.FPGA)}, nil
		}
		return &Opened{State: st, Producer: codec.NewFPGAWordsText(st, r.FPGA)}, nil
	}
	if binary {
		return &Opened{State: st, Consumer: codec.NewWriteFPGAWordsBinary(st, r.FPGA)}, nil
	}
	return &Opened{State: st, Consumer: codec.NewWriteFPGAWordsText(st, r.FPGA)}, nil
}

func (r *Resolver) openMem(rest string, fpga bool, write, binary bool) (*Opened, error) {
	var regionSize uint32
	if fpga {
		regionSize = r.FPGA.Size
	} else {
		regionSize = r.CPU.Size
	}

	if rest == "" {
		return nil, errNotFound("offset required")
	}
	next, off := hexcodec.ParseWord(rest)
	length := uint32(1)
	if !write && next != "" {
		next = strings.TrimPrefix(next, ".")
		_, length = hexcodec.ParseWord(next)
	}

	off = membus.AlignDown(off)
	length = membus.AlignUp(length)

	if !write {
		if length == 0 {
			return nil, errNotFound("request too short")
		}
		if fpga && off+length > regionSize {
			return nil, errNotFound("request too long")
		}
	}

	st := transfer.New(write, binary)
	st.Cursor = off
	if write {
		st.Remaining = int64(regionSize) - int64(off)
	} else {
		st.Remaining = int64(length)
	}

	if fpga {
		if !write {
			if binary {
				return &Opened{State: st, Producer: codec.NewFPGAWordsBinary(st, r.FPGA)}, nil
			}
			return &Opened{State: st, Producer: codec.NewFPGAWordsText(st, r.FPGA)}, nil
		}
		if binary {
			return &Opened{State: st, Consumer: codec.NewWriteFPGAWordsBinary(st, r.FPGA)}, nil
		}
		return &Opened{State: st, Consumer: codec.NewWriteFPGAWordsText(st, r.FPGA)}, nil
	}

	// CPU, read-only.
	if binary {
		return &Opened{State: st, Producer: codec.NewBytesBinary(st, r.CPU)}, nil
	}
	return &Opened{State: st, Producer: codec.NewBytesText(st, r.CPU)}, nil
}

func errNotFound(reason string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, reason)
}

func errNotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
