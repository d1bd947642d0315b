// Package commands implements the chemsearchctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/chemsearch/backend/config"
	"github.com/chemsearch/backend/internal/app"
	"github.com/chemsearch/backend/internal/observability"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	compact bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "chemsearchctl",
	Short: "Build and inspect chemical product listings offline",
	Long: `chemsearchctl runs the product builder outside the HTTP server. It builds
listing batches from JSON files and manages the stored builder snapshots.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log builder warnings to stderr")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "print JSON on one line")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall command timeout")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// withApp loads configuration, wires the services and runs fn with them
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      cmd.ErrOrStderr(),
		ServiceName: "chemsearchctl",
	})

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
