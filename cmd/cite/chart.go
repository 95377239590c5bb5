package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/matsen/citetrack/internal/chart"
	"github.com/matsen/citetrack/internal/series"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render citation history charts",
	Long: `Render the recorded citation history as self-contained HTML charts.

Every chart shares one time axis: the capture time of each snapshot.
A publication absent from a capture is charted as 0 for that capture.`,
}

func init() {
	rootCmd.AddCommand(chartCmd)
}

// writeChart renders the chart and writes it to path, or stdout when
// path is empty.
func writeChart(c *chart.LineChart, path string) error {
	html, err := chart.GenerateHTML(c, chart.DefaultOptions())
	if err != nil {
		return fmt.Errorf("generating chart: %w", err)
	}

	if path == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if humanOutput {
		outputHuman("Chart written to %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: path})
}

// exitNoHistory reports the empty-history condition distinctly from
// storage failures.
func exitNoHistory() {
	exitWithError(ExitNoHistory, "no snapshots recorded; run 'cite fetch --author-id ID' first")
}

// exitSeriesError maps a reconstruction error to the right exit code.
func exitSeriesError(err error) {
	if errors.Is(err, series.ErrNoHistory) {
		exitNoHistory()
	}
	exitWithError(ExitError, "reconstructing history: %v", err)
}
