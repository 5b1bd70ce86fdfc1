// Package cmd is tapcpd's cobra command tree: a persistent --config flag
// loaded in PersistentPreRunE, with subcommands reading the result from a
// package variable rather than threading it through every RunE.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/casper-tapcp/tapcpd/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tapcpd",
	Short: "TFTP Access for Program and Control Protocol daemon",
	Long: `tapcpd exposes a gateware/firmware target's memory-mapped device
registers, raw FPGA and CPU address space, and device catalog as a
hierarchical virtual filesystem accessible over TFTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: "+config.DefaultPath()+")")
}
