package main

import (
	"time"

	"github.com/matsen/citetrack/internal/chart"
	"github.com/matsen/citetrack/internal/series"
	"github.com/spf13/cobra"
)

var chartTotalOutput string

func init() {
	chartTotalCmd.Flags().StringVarP(&chartTotalOutput, "output", "o", "total_citations.html", "Output HTML file (empty for stdout)")
	chartCmd.AddCommand(chartTotalCmd)
}

var chartTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Chart total citations over time",
	Long: `Chart the author's total citation count across all snapshots.

Examples:
  cite chart total
  cite chart total --output citations.html`,
	RunE: runChartTotal,
}

func runChartTotal(cmd *cobra.Command, args []string) error {
	db := mustOpenHistory()
	defer db.Close()

	points, err := series.Totals(db)
	if err != nil {
		exitSeriesError(err)
	}

	timeline := make([]time.Time, len(points))
	values := make([]int, len(points))
	for i, p := range points {
		timeline[i] = p.At
		values[i] = p.Citations
	}

	return writeChart(&chart.LineChart{
		Title:    "Total Google Scholar Citations Over Time",
		Timeline: timeline,
		Datasets: []chart.Dataset{{Label: "Total citations", Values: values}},
	}, chartTotalOutput)
}
