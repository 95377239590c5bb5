// Package main provides the cite CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/matsen/citetrack/internal/config"
	"github.com/matsen/citetrack/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// dbOverride is the --db flag: an explicit history database path.
var dbOverride string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cite",
	Short: "Track Google Scholar citation metrics over time",
	Long: `cite captures a researcher's Google Scholar citation metrics and
keeps every capture as an immutable snapshot, so citation trends can be
reconstructed and charted later.

Core features:
  - Fetch an author profile from the scholar provider and record it
  - Append-only SQLite history (snapshots are never updated or deleted)
  - Per-publication citation time series aligned on a shared time axis
  - Self-contained HTML charts for totals and per-publication trends

All commands output JSON by default for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "History database path (default: configured history_path or ./"+config.DefaultHistoryFile+")")
	rootCmd.Version = Version
}

// historyPath resolves the history database path for this invocation.
func historyPath() string {
	return config.ResolveHistoryPath(dbOverride)
}

// mustOpenHistory opens the history database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenHistory() *storage.DB {
	db, err := storage.OpenDB(historyPath())
	if err != nil {
		exitWithError(ExitError, "opening history database: %v", err)
	}
	return db
}
