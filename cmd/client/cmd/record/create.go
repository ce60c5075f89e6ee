package record

import (
	"fmt"
	"os"

	"adledger/cmd/client/cmd/ui"
	"adledger/internal/app/client"
	"adledger/internal/app/client/crypto"

	"github.com/spf13/cobra"
)

var draft client.DraftData

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new campaign record",
	Long: `Seal the campaign figures with your payload key and submit them as a
new pending record owned by the current identity.

The passphrase is read from ADLEDGER_PASSPHRASE or prompted for.`,
	Example: `  adledger record create --as 0xA --category Search --campaign C1 \
    --impressions 1000 --clicks 40 --conversions 3 --spend 12.5`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := ui.App(cmd)
		if err != nil {
			return err
		}
		if err := unlock(app); err != nil {
			return err
		}

		app.Draft().Set(draft)
		rec, err := app.Submit(cmd.Context())

		opts := ui.OptionsFrom(cmd.Context())
		if opts.Wait {
			ui.WaitOverlay(cmd.Context(), app.Overlay())
		}
		if err != nil {
			return err
		}

		if opts.JSON {
			return ui.PrintJSON(os.Stdout, rec)
		}
		fmt.Printf("Record %s created (%s)\n", rec.ID, rec.Status.DisplayName())
		return nil
	},
}

func unlock(app *client.App) error {
	passphrase, err := ui.ReadPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	defer crypto.ClearMemory(passphrase)

	if err := app.Unlock(passphrase); err != nil {
		return fmt.Errorf("unlock payload key: %w", err)
	}
	return nil
}

func init() {
	CreateCmd.Flags().StringVarP(&draft.Category, "category", "c", "", "ad category (Search, Social, Video, ...)")
	CreateCmd.Flags().StringVar(&draft.CampaignID, "campaign", "", "campaign id")
	CreateCmd.Flags().Int64Var(&draft.Impressions, "impressions", 0, "impressions served")
	CreateCmd.Flags().Int64Var(&draft.Clicks, "clicks", 0, "clicks")
	CreateCmd.Flags().Int64Var(&draft.Conversions, "conversions", 0, "conversions")
	CreateCmd.Flags().Float64Var(&draft.Spend, "spend", 0, "spend")
	_ = CreateCmd.MarkFlagRequired("category")
	_ = CreateCmd.MarkFlagRequired("campaign")
}
