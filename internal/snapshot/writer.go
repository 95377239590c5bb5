package snapshot

import (
	"errors"
	"time"
)

// ErrMissingAuthorID indicates a profile arrived without the stable
// author identifier, so no observation can be recorded.
var ErrMissingAuthorID = errors.New("author profile has no author id")

// AuthorProfile is one freshly fetched author profile as delivered by
// the provider, before validation and normalization.
type AuthorProfile struct {
	AuthorID       string
	AuthorName     string
	TotalCitations int
	HIndex         int
	I10Index       int
	Publications   []PublicationRecord
}

// PublicationRecord is one raw publication entry from the provider.
type PublicationRecord struct {
	Title     string
	Citations int
}

// Appender persists one observation and its measurements atomically.
// Implemented by storage.DB.
type Appender interface {
	AppendSnapshot(obs Observation, measurements []Measurement) (int64, error)
}

// Writer validates one fetched author profile and persists it as a
// single atomic snapshot. Validation happens before any store
// interaction, so a rejected profile leaves no partial state.
type Writer struct {
	store Appender
	now   func() time.Time
}

// NewWriter creates a Writer backed by the given store.
func NewWriter(store Appender) *Writer {
	return &Writer{store: store, now: time.Now}
}

// Record normalizes the profile, stamps the capture time, and appends
// it to the store. The capture timestamp is always taken here (UTC),
// never from the provider, so history ordering reflects local capture
// time regardless of provider clock skew. Returns the recorded
// observation with its assigned id.
func (w *Writer) Record(profile AuthorProfile) (Observation, error) {
	if profile.AuthorID == "" {
		return Observation{}, ErrMissingAuthorID
	}

	name := profile.AuthorName
	if name == "" {
		name = "Unknown"
	}

	obs := Observation{
		AuthorID:       profile.AuthorID,
		AuthorName:     name,
		CapturedAt:     w.now().UTC(),
		TotalCitations: profile.TotalCitations,
		HIndex:         profile.HIndex,
		I10Index:       profile.I10Index,
	}

	measurements := make([]Measurement, len(profile.Publications))
	for i, pub := range profile.Publications {
		measurements[i] = Measurement{
			Title:     TitleKey(pub.Title),
			Citations: pub.Citations,
		}
	}

	id, err := w.store.AppendSnapshot(obs, measurements)
	if err != nil {
		return Observation{}, err
	}

	obs.ID = id
	return obs, nil
}
