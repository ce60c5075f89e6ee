// Package ui holds what the client commands share: output options, the App
// lookup and the overlay renderer.
package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"adledger/internal/app/client"
	"adledger/internal/domain/overlay"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const PassphraseEnv = "ADLEDGER_PASSPHRASE"

var ErrNoApp = errors.New("application is not initialized")

type Options struct {
	JSON bool
	Wait bool
}

type optionsKey struct{}

func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func OptionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)
	return opts
}

// App returns the client application attached to the command context.
func App(cmd *cobra.Command) (*client.App, error) {
	app := client.FromContext(cmd.Context())
	if app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func PrintYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

var (
	pendingColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// RenderOverlay prints every visible overlay state to w.
func RenderOverlay(ov *overlay.Overlay, w io.Writer) {
	ov.Subscribe(func(st overlay.State) {
		switch st.Status {
		case overlay.StatusPending:
			pendingColor.Fprintf(w, "… %s\n", st.Message)
		case overlay.StatusSuccess:
			successColor.Fprintf(w, "✓ %s\n", st.Message)
		case overlay.StatusError:
			errorColor.Fprintf(w, "✗ %s\n", st.Message)
		}
	})
}

// WaitOverlay blocks until the overlay has cleared itself or ctx is done.
func WaitOverlay(ctx context.Context, ov *overlay.Overlay) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for ov.Current().Visible() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ReadPassphrase takes the passphrase from the environment, or prompts on
// the terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return []byte(p), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	p, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return p, nil
}
