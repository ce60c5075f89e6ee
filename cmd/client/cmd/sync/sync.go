package sync

import (
	"fmt"
	"io"
	"os"
	"time"

	"adledger/cmd/client/cmd/ui"
	domainsync "adledger/internal/domain/sync"

	"github.com/spf13/cobra"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reload the ledger and show its totals",
	Long: `Reload every record named in the shared index and print the totals by
status. Index entries whose record is missing, malformed or unreachable are
listed separately; they are skipped, not repaired.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := ui.App(cmd)
		if err != nil {
			return err
		}

		snap, err := app.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		if ui.OptionsFrom(cmd.Context()).JSON {
			return ui.PrintJSON(os.Stdout, newSummary(snap))
		}
		printSummary(os.Stdout, snap)
		return nil
	},
}

var IndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the raw shared index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := ui.App(cmd)
		if err != nil {
			return err
		}

		ids := app.IndexIDs(cmd.Context())
		if ui.OptionsFrom(cmd.Context()).JSON {
			return ui.PrintJSON(os.Stdout, ids)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

type summary struct {
	Stats    domainsync.Stats  `json:"stats"`
	Skipped  []domainsync.Skip `json:"skipped"`
	LoadedAt string            `json:"loaded_at"`
}

func newSummary(snap domainsync.Snapshot) summary {
	skipped := snap.Skipped
	if skipped == nil {
		skipped = []domainsync.Skip{}
	}
	return summary{
		Stats:    snap.Stats(),
		Skipped:  skipped,
		LoadedAt: snap.LoadedAt.UTC().Format(time.RFC3339),
	}
}

func printSummary(w io.Writer, snap domainsync.Snapshot) {
	st := snap.Stats()
	fmt.Fprintf(w, "Total:    %d\n", st.Total)
	fmt.Fprintf(w, "Verified: %d\n", st.Verified)
	fmt.Fprintf(w, "Pending:  %d\n", st.Pending)
	fmt.Fprintf(w, "Rejected: %d\n", st.Rejected)

	if len(snap.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSkipped %d index entries:\n", len(snap.Skipped))
	for _, s := range snap.Skipped {
		fmt.Fprintf(w, "  %s (%s)\n", s.ID, s.Reason)
	}
}
