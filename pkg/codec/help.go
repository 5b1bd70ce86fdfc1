package codec

import "github.com/casper-tapcp/tapcpd/pkg/transfer"

// HelpBanner is copied verbatim by the help producer. Callers may replace
// it before serving (tapcpd serve loads the config's help_banner_path into
// it); the resolver only needs its length.
var HelpBanner = []byte(`tapcpd: TFTP Access for Program and Control Protocol

Special filenames:
  /help             this message
  /listdev          list known devices
  /temp             FPGA temperature
  /fpga.OFF[.LEN]   raw FPGA memory, byte offset/length
  /cpu.ADDR[.LEN]   raw CPU memory, byte address/length (read only)
  NAME[.OFF[.LEN]]  device register access, word offset/length
`)

// Help streams a fixed ASCII banner, grounded in casper_tapcp_read_help.
type Help struct {
	st *transfer.State
}

// NewHelp returns a Help producer over state. The opener must have set
// state.Remaining to len(HelpBanner) and state.Cursor to 0.
func NewHelp(st *transfer.State) *Help {
	return &Help{st: st}
}

func (h *Help) Produce(out []byte) int {
	st := h.st
	n := len(out)
	if int64(n) > st.Remaining {
		n = int(st.Remaining)
	}
	copy(out[:n], HelpBanner[st.Cursor:int64(st.Cursor)+int64(n)])
	st.Cursor += uint32(n)
	st.Remaining -= int64(n)
	return n
}
