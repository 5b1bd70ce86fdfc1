package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/casper-tapcp/tapcpd/pkg/monitor"
	"github.com/casper-tapcp/tapcpd/pkg/tui"
)

// monitorCmd launches the live transfer dashboard in the same process as
// an embedded server. There is no separate metrics RPC for a standalone
// client to attach to (the Prometheus endpoint is the remote-monitoring
// path); `tapcpd monitor` is meant for a developer watching traffic on
// the box running tapcpd, so it starts serving and renders the dashboard
// in the foreground.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Start the TFTP server and show the live-transfer dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		counters := monitor.New()
		errCh := make(chan error, 1)
		go func() { errCh <- runServeWithCounters(cfg, counters) }()

		p := tea.NewProgram(tui.New(counters), tea.WithAltScreen())
		_, runErr := p.Run()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		default:
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
