package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/citetrack/internal/snapshot"
)

// openTestDB creates a history database in a temp dir.
func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, path
}

func obsAt(authorID string, at time.Time, total int) snapshot.Observation {
	return snapshot.Observation{
		AuthorID:       authorID,
		AuthorName:     "Jane Doe",
		CapturedAt:     at,
		TotalCitations: total,
		HIndex:         3,
		I10Index:       2,
	}
}

func TestOpenDB_CreatesFile(t *testing.T) {
	_, path := openTestDB(t)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("OpenDB() did not create database file")
	}
}

func TestOpenDB_IdempotentInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := OpenDB(path)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	if _, err := db.AppendSnapshot(obsAt("A1", time.Now().UTC(), 10), []snapshot.Measurement{
		{Title: "Paper", Citations: 10},
	}); err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}
	db.Close()

	// Reopening twice must not alter or destroy appended data
	for i := 0; i < 2; i++ {
		db, err = OpenDB(path)
		if err != nil {
			t.Fatalf("reopen %d: OpenDB() error = %v", i, err)
		}
		count, err := db.Count()
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if count != 1 {
			t.Errorf("reopen %d: Count() = %d, want 1", i, count)
		}
		db.Close()
	}
}

func TestAppendSnapshot_RoundTrip(t *testing.T) {
	db, _ := openTestDB(t)
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	id, err := db.AppendSnapshot(obsAt("A1", at, 42), []snapshot.Measurement{
		{Title: "First Paper", Citations: 30},
		{Title: "Second Paper", Citations: 12},
	})
	if err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}
	if id != 1 {
		t.Errorf("AppendSnapshot() id = %d, want 1", id)
	}

	snaps, err := db.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("ListSnapshots() returned %d snapshots, want 1", len(snaps))
	}
	got := snaps[0]
	if got.AuthorID != "A1" || got.TotalCitations != 42 || got.HIndex != 3 || got.I10Index != 2 {
		t.Errorf("snapshot = %+v, want fields from appended observation", got)
	}
	if !got.CapturedAt.Equal(at) {
		t.Errorf("CapturedAt = %v, want %v", got.CapturedAt, at)
	}

	ms, err := db.MeasurementsFor(id)
	if err != nil {
		t.Fatalf("MeasurementsFor() error = %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("MeasurementsFor() returned %d measurements, want 2", len(ms))
	}
	if ms[0].Title != "First Paper" || ms[0].Citations != 30 {
		t.Errorf("first measurement = %+v", ms[0])
	}
	if ms[1].SnapshotID != id {
		t.Errorf("measurement SnapshotID = %d, want %d", ms[1].SnapshotID, id)
	}
}

func TestAppendSnapshot_Atomic(t *testing.T) {
	db, _ := openTestDB(t)

	// The second measurement violates the citation_count CHECK, failing
	// the transaction after the snapshot row was already inserted.
	_, err := db.AppendSnapshot(obsAt("A1", time.Now().UTC(), 10), []snapshot.Measurement{
		{Title: "Fine", Citations: 3},
		{Title: "Broken", Citations: -1},
	})
	if err == nil {
		t.Fatal("AppendSnapshot() with invalid measurement should fail")
	}
	if !IsStorageError(err) {
		t.Errorf("error = %v, want a StorageError", err)
	}

	snaps, err := db.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("partial snapshot visible after failed append: %+v", snaps)
	}
	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0 after rolled-back append", count)
	}
}

func TestListSnapshots_OrderedByCaptureTime(t *testing.T) {
	db, _ := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of chronological order
	for _, day := range []int{5, 1, 3} {
		if _, err := db.AppendSnapshot(obsAt("A1", base.AddDate(0, 0, day), day), nil); err != nil {
			t.Fatalf("AppendSnapshot() error = %v", err)
		}
	}

	snaps, err := db.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	var got []int
	for _, s := range snaps {
		got = append(got, s.TotalCitations)
	}
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("ListSnapshots() returned %d snapshots, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListSnapshots() order = %v, want %v", got, want)
		}
	}
}

func TestListSnapshots_TiesBrokenByInsertion(t *testing.T) {
	db, _ := openTestDB(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := db.AppendSnapshot(obsAt("A1", at, 1), nil)
	if err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}
	second, err := db.AppendSnapshot(obsAt("A1", at, 2), nil)
	if err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}

	snaps, err := db.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if snaps[0].ID != first || snaps[1].ID != second {
		t.Errorf("tie order = [%d %d], want [%d %d]", snaps[0].ID, snaps[1].ID, first, second)
	}
}

func TestMeasurementsFor_InsertionOrder(t *testing.T) {
	db, _ := openTestDB(t)

	id, err := db.AppendSnapshot(obsAt("A1", time.Now().UTC(), 10), []snapshot.Measurement{
		{Title: "X", Citations: 3},
		{Title: "X", Citations: 7},
	})
	if err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}

	ms, err := db.MeasurementsFor(id)
	if err != nil {
		t.Fatalf("MeasurementsFor() error = %v", err)
	}
	if ms[0].Citations != 3 || ms[1].Citations != 7 {
		t.Errorf("store return order = [%d %d], want insertion order [3 7]",
			ms[0].Citations, ms[1].Citations)
	}
}

func TestTopTitles_ByHistoricalMax(t *testing.T) {
	db, _ := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// A is always present at 1; B peaks at 10 once.
	history := [][]snapshot.Measurement{
		{{Title: "A", Citations: 1}},
		{{Title: "A", Citations: 1}},
		{{Title: "A", Citations: 1}, {Title: "B", Citations: 10}},
	}
	for i, ms := range history {
		if _, err := db.AppendSnapshot(obsAt("A1", base.AddDate(0, 0, i), 10), ms); err != nil {
			t.Fatalf("AppendSnapshot() error = %v", err)
		}
	}

	titles, err := db.TopTitles(1)
	if err != nil {
		t.Fatalf("TopTitles() error = %v", err)
	}
	if len(titles) != 1 || titles[0] != "B" {
		t.Errorf("TopTitles(1) = %v, want [B]", titles)
	}

	// Asking for more titles than exist returns all of them
	titles, err = db.TopTitles(10)
	if err != nil {
		t.Fatalf("TopTitles() error = %v", err)
	}
	if len(titles) != 2 {
		t.Errorf("TopTitles(10) returned %d titles, want 2", len(titles))
	}
}

func TestMeasurementCount(t *testing.T) {
	db, _ := openTestDB(t)

	id, err := db.AppendSnapshot(obsAt("A1", time.Now().UTC(), 5), []snapshot.Measurement{
		{Title: "A", Citations: 1},
		{Title: "B", Citations: 2},
		{Title: "C", Citations: 2},
	})
	if err != nil {
		t.Fatalf("AppendSnapshot() error = %v", err)
	}

	count, err := db.MeasurementCount(id)
	if err != nil {
		t.Fatalf("MeasurementCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("MeasurementCount() = %d, want 3", count)
	}
}
