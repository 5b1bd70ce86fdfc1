package cmd

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
	"testing"

	"github.com/casper-tapcp/tapcpd/internal/config"
)

// rawCatalog packs one device entry the way pkg/catalog expects: a
// NUL-terminated name followed by a 4-byte offset, 4-byte length, and
// 1-byte type, all wrapped in a 2-byte big-endian length prefix.
func rawCatalog(t *testing.T) []byte {
	t.Helper()
	entry := append([]byte("A\x00"), make([]byte, 9)...)
	binary.BigEndian.PutUint32(entry[2:6], 0x100)
	binary.BigEndian.PutUint32(entry[6:10], 0x20)
	entry[10] = 5

	var buf bytes.Buffer
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(entry)))
	buf.Write(lenPrefix[:])
	buf.Write(entry)
	return buf.Bytes()
}

func TestCatalogDumpText(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/catalog.bin"
	if err := os.WriteFile(path, rawCatalog(t), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg = &config.Config{Catalog: config.CatalogConfig{Backend: "memory", File: path}}
	out := new(bytes.Buffer)
	catalogDumpCmd.SetOut(out)
	catalogDumpBinary = false

	if err := catalogDumpCmd.RunE(catalogDumpCmd, nil); err != nil {
		t.Fatalf("RunE: %v", err)
	}
	if !strings.Contains(out.String(), "A\t3\t100\t20\t5") {
		t.Errorf("unexpected output: %q", out.String())
	}
}
