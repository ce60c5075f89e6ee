package record

import (
	"fmt"
	"io"
	"os"

	"adledger/cmd/client/cmd/ui"
	"adledger/internal/domain/record"

	"github.com/spf13/cobra"
)

var (
	listFormat string
	listStatus string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed records, newest first",
	Long: `Reload every record named in the shared index and print them newest
first. Entries that could not be loaded are reported by "adledger sync".`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := ui.App(cmd)
		if err != nil {
			return err
		}

		snap, err := app.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		records := snap.Records
		if listStatus != "" {
			status, err := record.ParseStatus(listStatus)
			if err != nil {
				return err
			}
			records = snap.Filter(status)
		}

		format := listFormat
		if ui.OptionsFrom(cmd.Context()).JSON {
			format = formatJSON
		}
		return printRecords(os.Stdout, records, format)
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", formatSimple, "output format (simple, table, json, yaml)")
	ListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "only records with this status (pending, verified, rejected)")
}

func printRecords(w io.Writer, records []record.Record, format string) error {
	switch format {
	case formatJSON:
		return ui.PrintJSON(w, records)
	case formatYAML:
		return ui.PrintYAML(w, records)
	case formatTable:
		return printTable(w, records)
	case formatSimple:
		return printSimple(w, records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
