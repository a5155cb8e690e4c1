package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/easyapply-agent/internal/history"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List recent application runs",
	RunE:  historyListCmd,
}

var (
	historyDBPath string
	historyLimit  int
)

func init() {
	historyCommand.Flags().StringVar(&historyDBPath, "history-db", "easyapply_history.db", "Path to the run history database")
	historyCommand.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCommand)
}

func historyListCmd(_ *cobra.Command, _ []string) error {
	st, err := history.Open(historyDBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := st.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tKEYWORDS\tLOCATION\tAPPLIED\tFAILED\tSKIPPED\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04"),
			e.Keywords, e.Location, e.Applied, e.Failed, e.Skipped, e.Status)
	}
	return w.Flush()
}
