package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the history database",
	Long: `Create the history database and its schema if they don't exist.

Safe to run repeatedly: existing snapshots are never altered. Opening
the database from any other command initializes the schema too, so
this is only needed to create the file ahead of the first fetch.

Examples:
  cite init
  cite init --db ~/metrics/history.db`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	db := mustOpenHistory()
	defer db.Close()

	if humanOutput {
		outputHuman("History database ready at %s\n", historyPath())
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: historyPath()})
}
