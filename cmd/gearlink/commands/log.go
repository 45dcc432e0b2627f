package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Analyze protocol log files",
	Long: `Protocol logs are written by "gearlink connect" and "gearlink accessory"
when log.protocol_file is set.`,
}

var (
	viewLayer     string
	viewDirection string
	viewCategory  string
	viewChannel   int
	viewPeer      string
)

var logViewCmd = &cobra.Command{
	Use:   "view <file.glog>",
	Short: "View log file in human-readable format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildFilter(FilterOptions{
			Layer:     viewLayer,
			Direction: viewDirection,
			Category:  viewCategory,
			Channel:   viewChannel,
			PeerID:    viewPeer,
		})
		if err != nil {
			return err
		}
		filter := ViewFilter{
			Layer:     f.Layer,
			Direction: f.Direction,
			Category:  f.Category,
			Channel:   f.Channel,
			PeerID:    f.PeerID,
		}
		return RunView(args[0], filter, cmd.OutOrStdout())
	},
}

var logStatsCmd = &cobra.Command{
	Use:   "stats <file.glog>",
	Short: "Show statistics about the log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStats(args[0], cmd.OutOrStdout())
	},
}

var (
	exportFormat string
	exportOutput string
)

var logExportCmd = &cobra.Command{
	Use:   "export <file.glog>",
	Short: "Export log file to JSONL or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunExport(args[0], exportFormat, exportOutput, cmd.OutOrStdout())
	},
}

var filterOpts FilterOptions

var logFilterCmd = &cobra.Command{
	Use:   "filter <file.glog>",
	Short: "Filter log file and write to a new file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if filterOpts.Output == "" {
			return fmt.Errorf("-o/--output is required")
		}
		n, err := RunFilter(args[0], filterOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s\n", n, filterOpts.Output)
		return nil
	},
}

func init() {
	logViewCmd.Flags().StringVar(&viewLayer, "layer", "", "filter by layer (transport, wire, service)")
	logViewCmd.Flags().StringVar(&viewDirection, "direction", "", "filter by direction (in, out)")
	logViewCmd.Flags().StringVar(&viewCategory, "category", "", "filter by category (message, control, state, error, device)")
	logViewCmd.Flags().IntVar(&viewChannel, "channel", -1, "filter by channel")
	logViewCmd.Flags().StringVar(&viewPeer, "peer", "", "filter by peer ID")

	logExportCmd.Flags().StringVar(&exportFormat, "format", "jsonl", "output format (jsonl, csv)")
	logExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	logFilterCmd.Flags().StringVarP(&filterOpts.Output, "output", "o", "", "output file (required)")
	logFilterCmd.Flags().StringVar(&filterOpts.ConnID, "conn-id", "", "filter by connection ID")
	logFilterCmd.Flags().StringVar(&filterOpts.PeerID, "peer", "", "filter by peer ID")
	logFilterCmd.Flags().IntVar(&filterOpts.Channel, "channel", -1, "filter by channel")
	logFilterCmd.Flags().StringVar(&filterOpts.TimeStart, "time-start", "", "start time (RFC3339)")
	logFilterCmd.Flags().StringVar(&filterOpts.TimeEnd, "time-end", "", "end time (RFC3339)")
	logFilterCmd.Flags().StringVar(&filterOpts.Layer, "layer", "", "filter by layer")
	logFilterCmd.Flags().StringVar(&filterOpts.Direction, "direction", "", "filter by direction")
	logFilterCmd.Flags().StringVar(&filterOpts.Category, "category", "", "filter by category")

	logCmd.AddCommand(logViewCmd, logStatsCmd, logExportCmd, logFilterCmd)
}
