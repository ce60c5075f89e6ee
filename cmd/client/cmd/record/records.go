package record

import (
	"github.com/spf13/cobra"
)

// RecordCmd groups the commands that work on individual ledger records.
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Create, list and review records",
	Long:  `Create campaign records, list the shared ledger and verify or reject your own pending records.`,
}
