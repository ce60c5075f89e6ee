package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"adledger/cmd/client/cmd/record"
	"adledger/cmd/client/cmd/sync"
	"adledger/cmd/client/cmd/ui"
	"adledger/internal/app/client/crypto"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the payload key",
	Long: `init derives the payload key from a passphrase and stores its salt and
hash under the config directory. The key itself is never written to disk.

Every record you create is sealed with this key. Without the passphrase the
sealed figures cannot be read back.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := ui.App(cmd)
		if err != nil {
			return err
		}
		keyPath := app.Config().KeyPath

		if crypto.IsInitialized(keyPath) {
			fmt.Printf("Payload key already exists at %s\n", keyPath)
			return nil
		}

		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		defer crypto.ClearMemory(passphrase)

		key, err := crypto.InitKey(keyPath, passphrase)
		if err != nil {
			return fmt.Errorf("create payload key: %w", err)
		}
		crypto.ClearMemory(key)
		fmt.Printf("Payload key created at %s\n", keyPath)

		if err := app.CheckAvailability(cmd.Context()); err != nil {
			fmt.Printf("Warning: %v\n", err)
		} else {
			fmt.Println("Store is reachable")
		}
		return nil
	},
}

func readNewPassphrase() ([]byte, error) {
	if p := os.Getenv(ui.PassphraseEnv); p != "" {
		return []byte(p), nil
	}

	fmt.Print("Passphrase: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}

	fmt.Print("Repeat passphrase: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	defer crypto.ClearMemory(second)

	if !bytes.Equal(first, second) {
		return nil, errors.New("passphrases do not match")
	}
	return first, nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	rootCmd.AddCommand(record.RecordCmd)
	record.RecordCmd.AddCommand(record.CreateCmd)
	record.RecordCmd.AddCommand(record.ListCmd)
	record.RecordCmd.AddCommand(record.GetCmd)
	record.RecordCmd.AddCommand(record.VerifyCmd)
	record.RecordCmd.AddCommand(record.RejectCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(sync.IndexCmd)
}
