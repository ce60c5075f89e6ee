package record

import (
	"fmt"
	"os"

	"adledger/cmd/client/cmd/ui"

	"github.com/spf13/cobra"
)

var (
	getFormat string
	decrypt   bool
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one record",
	Long: `Read a record directly by id. This also finds records that were
written but never made it into the shared index.

With --decrypt the sealed payload is opened with your payload key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := ui.App(cmd)
		if err != nil {
			return err
		}

		rec, err := app.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format := getFormat
		if ui.OptionsFrom(cmd.Context()).JSON {
			format = formatJSON
		}

		if decrypt {
			if err := unlock(app); err != nil {
				return err
			}
			data, err := app.Open(*rec)
			if err != nil {
				return fmt.Errorf("open payload: %w", err)
			}
			switch format {
			case formatJSON:
				return ui.PrintJSON(os.Stdout, data)
			case formatYAML:
				return ui.PrintYAML(os.Stdout, data)
			}
			fmt.Printf("Sealed payload of %s:\n", rec.ID)
			fmt.Printf("  category=%s campaign=%s impressions=%d clicks=%d conversions=%d spend=%s\n",
				data.Category, data.CampaignID, data.Impressions, data.Clicks, data.Conversions, formatSpend(data.Spend))
			return nil
		}

		switch format {
		case formatJSON:
			return ui.PrintJSON(os.Stdout, rec)
		case formatYAML:
			return ui.PrintYAML(os.Stdout, rec)
		default:
			printDetail(os.Stdout, *rec)
			return nil
		}
	},
}

func init() {
	GetCmd.Flags().StringVarP(&getFormat, "format", "f", formatSimple, "output format (simple, json, yaml)")
	GetCmd.Flags().BoolVar(&decrypt, "decrypt", false, "open the sealed payload")
}
