package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"adledger/cmd/client/cmd/ui"
	"adledger/internal/app/client"
	"adledger/internal/app/client/config"
	"adledger/internal/utils/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	debug      bool
	jsonOutput bool
	wait       bool
	serverURL  string
	identity   string
)

var rootCmd = &cobra.Command{
	Use:   "adledger",
	Short: "adledger - shared ledger of sealed ad-campaign records",
	Long: `adledger submits campaign performance records to a shared key-value
store, lists them and lets each record's owner verify or reject it.

Campaign figures are sealed on this machine before they leave it; the
store only ever sees the sealed payload and the public record fields.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Флаги командной строки имеют приоритет над конфигурацией
	if serverURL != "" {
		cfg.StoreDriver = config.DriverHTTP
		cfg.ServerAddress = serverURL
	}
	if identity != "" {
		cfg.Identity = identity
	}

	log := logger.NewCLI(debug || cfg.LogLevel == "debug")

	app, err := client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}

	if !jsonOutput {
		ui.RenderOverlay(app.Overlay(), os.Stderr)
	}

	ctx := client.WithApp(cmd.Context(), app)
	ctx = ui.WithOptions(ctx, ui.Options{JSON: jsonOutput, Wait: wait})
	cmd.SetContext(ctx)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.adledger/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&wait, "wait", false, "stay until the status message clears")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "adledger-server address, implies the http store")
	rootCmd.PersistentFlags().StringVar(&identity, "as", "", "identity to act as")
}
