// Command tapcpd serves a gateware/firmware target's registers, FPGA and
// CPU address spaces, and device catalog over TFTP.
package main

import "github.com/casper-tapcp/tapcpd/cmd/tapcpd/cmd"

func main() {
	cmd.Execute()
}
