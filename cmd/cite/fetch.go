package main

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/matsen/citetrack/internal/config"
	"github.com/matsen/citetrack/internal/scholar"
	"github.com/matsen/citetrack/internal/snapshot"
	"github.com/spf13/cobra"
)

var fetchAuthorID string

// FetchResult is the response for the fetch command.
type FetchResult struct {
	SnapshotID     int64  `json:"snapshot_id"`
	Author         string `json:"author"`
	CapturedAt     string `json:"captured_at"`
	TotalCitations int    `json:"total_citations"`
	Publications   int    `json:"publication_count"`
}

func init() {
	// Load .env file if present (for SERPAPI_API_KEY)
	_ = godotenv.Load()

	fetchCmd.Flags().StringVar(&fetchAuthorID, "author-id", "", "Google Scholar author ID")
	fetchCmd.MarkFlagRequired("author-id")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and record a new citation snapshot",
	Long: `Fetch the author's current profile from the scholar provider and
record it as one immutable snapshot: the aggregate metrics plus a
per-publication citation count for every listed article.

The capture timestamp is stamped locally at record time. Requires a
SerpAPI key via SERPAPI_API_KEY, a .env file, or the global config.

Examples:
  # Record a snapshot
  cite fetch --author-id ABCDEFG

  # Record into an explicit database
  cite fetch --author-id ABCDEFG --db ~/metrics/history.db`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	var opts []scholar.ClientOption
	if os.Getenv("SERPAPI_API_KEY") == "" {
		if key := config.GetSerpAPIKey(); key != "" {
			opts = append(opts, scholar.WithAPIKey(key))
		}
	}
	client := scholar.NewClient(opts...)

	profile, err := client.FetchAuthor(cmd.Context(), fetchAuthorID)
	if err != nil {
		switch {
		case scholar.IsAuthError(err):
			exitWithError(ExitConfigError, "%v", err)
		case scholar.IsNotFound(err):
			exitWithError(ExitFetchError, "author %q not found", fetchAuthorID)
		default:
			exitWithError(ExitFetchError, "fetching author profile: %v", err)
		}
	}

	db := mustOpenHistory()
	defer db.Close()

	raw := snapshot.AuthorProfile{
		AuthorID:       profile.AuthorID,
		AuthorName:     profile.Name,
		TotalCitations: profile.TotalCitations,
		HIndex:         profile.HIndex,
		I10Index:       profile.I10Index,
		Publications:   make([]snapshot.PublicationRecord, len(profile.Articles)),
	}
	for i, a := range profile.Articles {
		raw.Publications[i] = snapshot.PublicationRecord{
			Title:     a.Title,
			Citations: a.Citations,
		}
	}

	writer := snapshot.NewWriter(db)
	obs, err := writer.Record(raw)
	if err != nil {
		if errors.Is(err, snapshot.ErrMissingAuthorID) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "recording snapshot: %v", err)
	}

	result := FetchResult{
		SnapshotID:     obs.ID,
		Author:         obs.AuthorName,
		CapturedAt:     obs.CapturedAt.Format(time.RFC3339),
		TotalCitations: obs.TotalCitations,
		Publications:   len(raw.Publications),
	}

	if humanOutput {
		outputHuman("Recorded snapshot %d for %s: %d total citations across %d publications\n",
			result.SnapshotID, result.Author, result.TotalCitations, result.Publications)
		return nil
	}
	return outputJSON(result)
}
