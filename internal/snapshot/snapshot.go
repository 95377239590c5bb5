// Package snapshot defines the observation data model and the writer
// that validates and persists freshly fetched author profiles.
package snapshot

import (
	"strings"
	"time"
)

// UntitledKey is the sentinel title used when a publication arrives
// with no title text.
const UntitledKey = "Untitled"

// Observation is one timestamped capture of an author's aggregate
// citation metrics. Observations are immutable once persisted; the
// history is append-only and corrections are new observations.
type Observation struct {
	ID             int64     `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	CapturedAt     time.Time `json:"captured_at"`
	TotalCitations int       `json:"total_citations"`
	HIndex         int       `json:"hindex"`
	I10Index       int       `json:"i10index"`
}

// Measurement is one publication's citation count within a single
// observation. A measurement belongs to exactly one observation.
type Measurement struct {
	ID         int64  `json:"id"`
	SnapshotID int64  `json:"snapshot_id"`
	Title      string `json:"title"`
	Citations  int    `json:"citations"`
}

// TitleKey derives the identity key used to track a publication across
// observations. There is no stable publication id in the source data,
// so exact title text is the key: trimmed, with a sentinel for empty
// titles. Two distinct works with identical titles are tracked as one
// entity. All key derivation goes through this function so a better
// identity scheme can replace it without touching reconstruction.
func TitleKey(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return UntitledKey
	}
	return title
}
