package record

import (
	"context"
	"fmt"
	"os"

	"adledger/cmd/client/cmd/ui"
	"adledger/internal/app/client"
	"adledger/internal/domain/record"

	"github.com/spf13/cobra"
)

type statusChange func(ctx context.Context, app *client.App, id string) (*record.Record, error)

var VerifyCmd = newStatusCmd("verify <id>", "Verify one of your pending records",
	func(ctx context.Context, app *client.App, id string) (*record.Record, error) {
		return app.Verify(ctx, id)
	})

var RejectCmd = newStatusCmd("reject <id>", "Reject one of your pending records",
	func(ctx context.Context, app *client.App, id string) (*record.Record, error) {
		return app.Reject(ctx, id)
	})

// Only the owner of a pending record may change it; verified and rejected
// are final.
func newStatusCmd(use, short string, change statusChange) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ui.App(cmd)
			if err != nil {
				return err
			}

			rec, err := change(cmd.Context(), app, args[0])

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
			fmt.Printf("Record %s is now %s\n", rec.ID, rec.Status.DisplayName())
			return nil
		},
	}
}
