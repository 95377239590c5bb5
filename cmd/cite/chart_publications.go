package main

import (
	"github.com/matsen/citetrack/internal/chart"
	"github.com/matsen/citetrack/internal/series"
	"github.com/spf13/cobra"
)

var (
	chartPubsOutput string
	chartPubsTop    int
)

// Legend label length; full titles stay as series keys.
const chartTitleMaxLen = 60

func init() {
	chartPubsCmd.Flags().StringVarP(&chartPubsOutput, "output", "o", "publication_citations.html", "Output HTML file (empty for stdout)")
	chartPubsCmd.Flags().IntVar(&chartPubsTop, "top", 10, "Top N publications by maximum-ever citations (0 for all)")
	chartCmd.AddCommand(chartPubsCmd)
}

var chartPubsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Chart citations per publication over time",
	Long: `Chart one citation series per publication, aligned on the shared
snapshot time axis. Publications absent from a capture are charted
as 0 for that capture.

Selection with --top keeps the N titles with the greatest citation
count ever observed across the whole history, not the greatest count
in the latest snapshot.

Examples:
  cite chart publications
  cite chart publications --top 5 --output top5.html
  cite chart publications --top 0   # every publication ever observed`,
	RunE: runChartPublications,
}

func runChartPublications(cmd *cobra.Command, args []string) error {
	db := mustOpenHistory()
	defer db.Close()

	history, err := series.Publications(db, chartPubsTop)
	if err != nil {
		exitSeriesError(err)
	}

	titles := history.Titles()
	datasets := make([]chart.Dataset, len(titles))
	for i, title := range titles {
		datasets[i] = chart.Dataset{
			Label:  truncateString(title, chartTitleMaxLen),
			Values: history.Series[title],
		}
	}

	return writeChart(&chart.LineChart{
		Title:    "Citation Trend Per Publication",
		Timeline: history.Timeline,
		Datasets: datasets,
	}, chartPubsOutput)
}
