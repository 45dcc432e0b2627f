package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearlink/gearlink-go/pkg/history"
)

var (
	historyLimit int
	historyConn  string
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded connection history",
	Long: `Lists connection attempts recorded while history.enabled is set.
With --prune, entries older than the given age are deleted instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if historyPrune > 0 {
			n, err := store.Prune(ctx, time.Now().Add(-historyPrune))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", n)
			return nil
		}

		var entries []history.Entry
		if historyConn != "" {
			entries, err = store.ListConnection(ctx, historyConn)
		} else {
			entries, err = store.List(ctx, historyLimit)
		}
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries")
	historyCmd.Flags().StringVar(&historyConn, "conn-id", "", "show one connection, oldest first")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this age")
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCONN\tKIND\tPEER\tPROFILE\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime),
			shortenConnID(e.ConnectionID),
			e.Kind, e.Peer, e.Profile, e.Detail)
	}
	tw.Flush()
}
