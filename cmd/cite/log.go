package main

import (
	"time"

	"github.com/spf13/cobra"
)

// LogEntry is one snapshot in the log command output.
type LogEntry struct {
	SnapshotID     int64  `json:"snapshot_id"`
	Author         string `json:"author"`
	CapturedAt     string `json:"captured_at"`
	TotalCitations int    `json:"total_citations"`
	HIndex         int    `json:"hindex"`
	I10Index       int    `json:"i10index"`
	Publications   int    `json:"publication_count"`
}

func init() {
	rootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List recorded snapshots",
	Long: `List every recorded snapshot in capture order, oldest first.

Examples:
  cite log
  cite log --human`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	db := mustOpenHistory()
	defer db.Close()

	snaps, err := db.ListSnapshots()
	if err != nil {
		exitWithError(ExitError, "listing snapshots: %v", err)
	}

	entries := make([]LogEntry, len(snaps))
	for i, s := range snaps {
		count, err := db.MeasurementCount(s.ID)
		if err != nil {
			exitWithError(ExitError, "counting publications: %v", err)
		}
		entries[i] = LogEntry{
			SnapshotID:     s.ID,
			Author:         s.AuthorName,
			CapturedAt:     s.CapturedAt.Format(time.RFC3339),
			TotalCitations: s.TotalCitations,
			HIndex:         s.HIndex,
			I10Index:       s.I10Index,
			Publications:   count,
		}
	}

	if humanOutput {
		if len(entries) == 0 {
			outputHuman("No snapshots recorded. Run 'cite fetch' first.\n")
			return nil
		}
		for _, e := range entries {
			outputHuman("%4d  %s  %-30s  %6d citations  h=%d  i10=%d  %d pubs\n",
				e.SnapshotID, e.CapturedAt, truncateString(e.Author, 30),
				e.TotalCitations, e.HIndex, e.I10Index, e.Publications)
		}
		return nil
	}
	return outputJSON(entries)
}
