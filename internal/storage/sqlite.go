// Package storage provides the append-only SQLite history store.
//
// Two relations: snapshots (one row per capture) and
// publication_snapshots (one row per publication per capture). Neither
// is ever updated or deleted; corrections are new snapshots.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/matsen/citetrack/internal/snapshot"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the history database at the given path and
// idempotently ensures the schema exists. Existing data is never
// altered by opening.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("opening database", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, storageErr("enabling foreign keys", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, storageErr("creating schema", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the history schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per capture of the author's aggregate metrics
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id TEXT NOT NULL,
			author_name TEXT,
			captured_at TEXT NOT NULL,
			total_citations INTEGER NOT NULL CHECK (total_citations >= 0),
			hindex INTEGER CHECK (hindex >= 0),
			i10index INTEGER CHECK (i10index >= 0)
		);

		-- One row per publication per capture
		CREATE TABLE IF NOT EXISTS publication_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
			title TEXT NOT NULL,
			citation_count INTEGER NOT NULL CHECK (citation_count >= 0)
		);

		CREATE INDEX IF NOT EXISTS idx_pub_snapshots_snapshot
			ON publication_snapshots(snapshot_id);
		CREATE INDEX IF NOT EXISTS idx_pub_snapshots_title
			ON publication_snapshots(title);
	`

	_, err := db.Exec(schema)
	return err
}

// AppendSnapshot durably appends one observation and all of its
// measurements as a single transaction. Either every row becomes
// visible or none do. Returns the assigned snapshot id.
//
// The measurements' ID and SnapshotID fields are ignored; ownership
// is assigned here from the new snapshot row.
func (d *DB) AppendSnapshot(obs snapshot.Observation, measurements []snapshot.Measurement) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, storageErr("append", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO snapshots (author_id, author_name, captured_at, total_citations, hindex, i10index)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		obs.AuthorID,
		obs.AuthorName,
		obs.CapturedAt.UTC().Format(time.RFC3339Nano),
		obs.TotalCitations,
		obs.HIndex,
		obs.I10Index,
	)
	if err != nil {
		return 0, storageErr("append: inserting snapshot", err)
	}

	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("append: snapshot id", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO publication_snapshots (snapshot_id, title, citation_count)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, storageErr("append: preparing measurement insert", err)
	}
	defer stmt.Close()

	for _, m := range measurements {
		if _, err := stmt.Exec(snapshotID, m.Title, m.Citations); err != nil {
			return 0, storageErr(fmt.Sprintf("append: inserting measurement %q", m.Title), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("append: commit", err)
	}

	return snapshotID, nil
}

// ListSnapshots returns all snapshots ordered by capture time
// ascending, with insertion order (id) breaking ties.
func (d *DB) ListSnapshots() ([]snapshot.Observation, error) {
	rows, err := d.db.Query(`
		SELECT id, author_id, author_name, captured_at, total_citations, hindex, i10index
		FROM snapshots
		ORDER BY datetime(captured_at), id
	`)
	if err != nil {
		return nil, storageErr("listing snapshots", err)
	}
	defer rows.Close()

	var snaps []snapshot.Observation
	for rows.Next() {
		obs, err := scanSnapshot(rows)
		if err != nil {
			return nil, storageErr("scanning snapshot", err)
		}
		snaps = append(snaps, obs)
	}
	return snaps, storageErr("listing snapshots", rows.Err())
}

// MeasurementsFor returns all publication measurements belonging to
// one snapshot, in insertion order. Order within a snapshot has no
// semantic meaning, but it is deterministic and reconstruction relies
// on it for last-write-wins duplicate handling.
func (d *DB) MeasurementsFor(snapshotID int64) ([]snapshot.Measurement, error) {
	rows, err := d.db.Query(`
		SELECT id, snapshot_id, title, citation_count
		FROM publication_snapshots
		WHERE snapshot_id = ?
		ORDER BY id
	`, snapshotID)
	if err != nil {
		return nil, storageErr("listing measurements", err)
	}
	defer rows.Close()

	var ms []snapshot.Measurement
	for rows.Next() {
		var m snapshot.Measurement
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.Title, &m.Citations); err != nil {
			return nil, storageErr("scanning measurement", err)
		}
		ms = append(ms, m)
	}
	return ms, storageErr("listing measurements", rows.Err())
}

// TopTitles returns the n titles with the greatest maximum citation
// count observed across the entire history (not the latest count).
// Tie order among equal maxima follows SQLite's grouping order:
// stable for a given database but otherwise unspecified.
func (d *DB) TopTitles(n int) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT title
		FROM publication_snapshots
		GROUP BY title
		ORDER BY MAX(citation_count) DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, storageErr("selecting top titles", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, storageErr("scanning title", err)
		}
		titles = append(titles, t)
	}
	return titles, storageErr("selecting top titles", rows.Err())
}

// Count returns the total number of snapshots.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	return count, storageErr("counting snapshots", err)
}

// MeasurementCount returns the number of publication measurements in
// one snapshot.
func (d *DB) MeasurementCount(snapshotID int64) (int, error) {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM publication_snapshots WHERE snapshot_id = ?",
		snapshotID,
	).Scan(&count)
	return count, storageErr("counting measurements", err)
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(s scanner) (snapshot.Observation, error) {
	var obs snapshot.Observation
	var capturedAt string
	var name sql.NullString
	var hindex, i10index sql.NullInt64

	err := s.Scan(&obs.ID, &obs.AuthorID, &name, &capturedAt,
		&obs.TotalCitations, &hindex, &i10index)
	if err != nil {
		return obs, err
	}

	obs.AuthorName = name.String
	if hindex.Valid {
		obs.HIndex = int(hindex.Int64)
	}
	if i10index.Valid {
		obs.I10Index = int(i10index.Int64)
	}

	obs.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt)
	if err != nil {
		return obs, fmt.Errorf("parsing captured_at %q: %w", capturedAt, err)
	}

	return obs, nil
}
