// Package series reconstructs aligned citation time series from the
// stored snapshot history.
//
// All reconstructed series share one time axis: the ordered capture
// times of every snapshot. A publication absent from a capture (not
// yet listed, or dropped from the provider's listing) is reported as
// 0 at that position, a deliberate policy rather than a missing-data
// gap.
package series

import (
	"errors"
	"sort"
	"time"

	"github.com/matsen/citetrack/internal/snapshot"
	"github.com/matsen/citetrack/internal/storage"
)

// ErrNoHistory indicates reconstruction was requested against an empty
// history. Distinct from storage failures: the caller should run a
// fetch first, not debug the database.
var ErrNoHistory = errors.New("no snapshots recorded")

// Point is one author-level observation on the total-citations series.
type Point struct {
	At        time.Time `json:"at"`
	Citations int       `json:"citations"`
}

// History holds per-publication citation series aligned on a shared
// time axis. Series[title][i] is the title's citation count at
// Timeline[i], with 0 where the title was not observed.
type History struct {
	Timeline []time.Time
	Series   map[string][]int
}

// Totals returns the author-level total-citations series in capture
// order. Returns ErrNoHistory if nothing has been recorded.
func Totals(db *storage.DB) ([]Point, error) {
	snaps, err := db.ListSnapshots()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrNoHistory
	}

	points := make([]Point, len(snaps))
	for i, s := range snaps {
		points[i] = Point{At: s.CapturedAt, Citations: s.TotalCitations}
	}
	return points, nil
}

// Publications reconstructs one aligned series per tracked title.
//
// When top > 0, only the top titles ranked by maximum-ever citation
// count are included (see storage.TopTitles for the tie policy);
// top <= 0 or top exceeding the distinct title count means no cap.
// Returns ErrNoHistory if nothing has been recorded.
func Publications(db *storage.DB, top int) (*History, error) {
	snaps, err := db.ListSnapshots()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrNoHistory
	}

	var selected map[string]bool
	if top > 0 {
		titles, err := db.TopTitles(top)
		if err != nil {
			return nil, err
		}
		selected = make(map[string]bool, len(titles))
		for _, t := range titles {
			selected[t] = true
		}
	}

	perSnapshot := make([][]snapshot.Measurement, len(snaps))
	for i, s := range snaps {
		ms, err := db.MeasurementsFor(s.ID)
		if err != nil {
			return nil, err
		}
		perSnapshot[i] = ms
	}

	return align(snaps, perSnapshot, selected), nil
}

// align builds the shared axis and zero-filled aligned series. A nil
// selected set means every title is included. Duplicate titles within
// one snapshot resolve to the last measurement in store return order.
// Zero observations yield an empty axis and an empty mapping.
func align(snaps []snapshot.Observation, perSnapshot [][]snapshot.Measurement, selected map[string]bool) *History {
	h := &History{
		Timeline: make([]time.Time, len(snaps)),
		Series:   make(map[string][]int),
	}

	for i, s := range snaps {
		h.Timeline[i] = s.CapturedAt
	}

	for i, measurements := range perSnapshot {
		for _, m := range measurements {
			if selected != nil && !selected[m.Title] {
				continue
			}
			values, ok := h.Series[m.Title]
			if !ok {
				values = make([]int, len(snaps))
				h.Series[m.Title] = values
			}
			values[i] = m.Citations
		}
	}

	return h
}

// Titles returns the tracked titles in lexicographic order, for stable
// presentation.
func (h *History) Titles() []string {
	titles := make([]string, 0, len(h.Series))
	for t := range h.Series {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}
