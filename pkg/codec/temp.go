package codec

import (
	"encoding/binary"
	"math"

	"github.com/casper-tapcp/tapcpd/pkg/transfer"
)

// TempSource is the external collaborator providing the gateware target's
// current temperature in degrees Celsius.
type TempSource interface {
	ReadTempC() (float32, error)
}

// Temp renders a single temperature reading, grounded in the source's
// commented-out casper_tapcp_read_temp: binary mode sends a 4-byte
// big-endian float, text mode sends "d.d\n" to one decimal place (up to
// three integer digits).
type Temp struct {
	st   *transfer.State
	body []byte
}

// NewTemp reads src once and returns a producer over the formatted
// result. It sets state.Remaining to the formatted body's length itself
// — the body (and so its length) isn't known until src has been read, so
// the opener can't set it in advance; it only needs to leave
// state.Cursor at 0, which transfer.New already does. src errors are
// returned to the caller instead of opening a transfer.
func NewTemp(st *transfer.State, src TempSource) (*Temp, error) {
	c, err := src.ReadTempC()
	if err != nil {
		return nil, err
	}

	var body []byte
	if st.Binary {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], math.Float32bits(c))
		body = buf[:]
	} else {
		t := int(10 * c) // deci-degrees
		if t >= 1000 {
			body = append(body, '0'+byte((t/1000)%10))
		}
		if t >= 100 {
			body = append(body, '0'+byte((t/100)%10))
		}
		body = append(body, '0'+byte((t/10)%10), '.', '0'+byte(t%10), '\n')
	}
	st.Remaining = int64(len(body))
	return &Temp{st: st, body: body}, nil
}

func (t *Temp) Produce(out []byte) int {
	st := t.st
	n := len(out)
	if int64(n) > st.Remaining {
		n = int(st.Remaining)
	}
	copy(out[:n], t.body[st.Cursor:int64(st.Cursor)+int64(n)])
	st.Cursor += uint32(n)
	st.Remaining -= int64(n)
	return n
}
