package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/casper-tapcp/tapcpd/pkg/hexcodec"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the device catalog",
}

var catalogDumpBinary bool

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the configured catalog's devices",
	Long: `Dump renders the same catalog the server would hand out over
GET /listdev: one tab-separated line per device, or (with --binary) the
raw wire bytes the binary-mode listing codec emits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, closeSrc, err := buildCatalogSource(cfg.Catalog)
		if err != nil {
			return err
		}
		defer closeSrc()

		cat, err := src.Catalog(context.Background())
		if err != nil {
			return fmt.Errorf("fetch catalog: %w", err)
		}

		if catalogDumpBinary {
			_, err := os.Stdout.Write(cat.Framed())
			return err
		}

		it := cat.Iter()
		for {
			name, dev, ok := it.Next()
			if !ok {
				break
			}
			mode := byte('3')
			if dev.ReadOnly {
				mode = '1'
			}
			off := string(hexcodec.EmitWord(dev.Offset, nil, false))
			length := string(hexcodec.EmitWord(dev.Length, nil, false))
			typ := string(hexcodec.EmitWord(uint32(dev.Type), nil, false))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%c\t%s\t%s\t%s\n", name, mode, off, length, typ)
		}
		return nil
	},
}

func init() {
	catalogDumpCmd.Flags().BoolVar(&catalogDumpBinary, "binary", false, "dump raw wire bytes instead of a formatted listing")
	catalogCmd.AddCommand(catalogDumpCmd)
	rootCmd.AddCommand(catalogCmd)
}
