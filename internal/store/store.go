// Package store persists batch results to SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

// ErrorD0 marks the detection row written for a failed segment. Every
// numeric column of such a row holds this value.
const ErrorD0 = -2

// Store writes segment outcomes and detections into one SQLite file.
type Store struct {
	db *sql.DB
}

// Detection is one stored row. Times are seconds from the start of the
// recording.
type Detection struct {
	Segment   int
	StartTime float64
	EndTime   float64
	StartFreq float64 // Hz
	EndFreq   float64 // Hz
	D0        int
	Score     float64 // dB
	Strategy  string
}

// Failed reports whether d is the marker row of a failed segment.
func (d Detection) Failed() bool { return d.D0 == ErrorD0 }

// Open opens (or creates) the database at path and ensures the schema.
// The special path ":memory:" keeps everything in memory.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := []string{`
CREATE TABLE IF NOT EXISTS segments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    idx INTEGER NOT NULL,
    offset_s REAL NOT NULL,
    duration_s REAL NOT NULL,
    regime TEXT,
    status TEXT NOT NULL,
    error TEXT,
    elapsed_ms INTEGER
)`, `
CREATE TABLE IF NOT EXISTS detections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    segment_id INTEGER NOT NULL REFERENCES segments(id),
    source TEXT NOT NULL,
    start_s REAL,
    end_s REAL,
    start_hz REAL,
    end_hz REAL,
    d0 INTEGER,
    score REAL,
    strategy TEXT
)`,
		`CREATE INDEX IF NOT EXISTS detections_source ON detections(source)`,
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSegment stores the outcome of one segment in a single transaction.
// Detection times are shifted by the segment offset. A failed segment gets
// one ErrorD0 row.
func (s *Store) SaveSegment(ctx context.Context, source string, r pipeline.SegmentResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var errText sql.NullString
	if r.Err != nil {
		errText = sql.NullString{String: r.Err.Error(), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO segments (source, idx, offset_s, duration_s, regime, status, error, elapsed_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		source,
		r.Segment.Index,
		r.Segment.Offset,
		r.Segment.Duration(),
		r.Segment.Regime.Name,
		r.Status.String(),
		errText,
		r.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("store: insert segment: %w", err)
	}

	segID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: segment id: %w", err)
	}

	const insert = `
INSERT INTO detections (segment_id, source, start_s, end_s, start_hz, end_hz, d0, score, strategy)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	switch {
	case r.Status == pipeline.StatusError:
		if _, err := tx.ExecContext(ctx, insert, segID, source,
			ErrorD0, ErrorD0, ErrorD0, ErrorD0, ErrorD0, ErrorD0, ""); err != nil {
			return fmt.Errorf("store: insert error row: %w", err)
		}
	case r.Result != nil:
		for _, rec := range r.Result.Records {
			if _, err := tx.ExecContext(ctx, insert, segID, source,
				r.Segment.Offset+rec.StartTime,
				r.Segment.Offset+rec.EndTime,
				rec.StartFreq,
				rec.EndFreq,
				rec.D0,
				rec.Score,
				rec.Strategy.String(),
			); err != nil {
				return fmt.Errorf("store: insert detection: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Detections returns the rows stored for source ordered by segment and
// start time.
func (s *Store) Detections(ctx context.Context, source string) ([]Detection, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT g.idx, d.start_s, d.end_s, d.start_hz, d.end_hz, d.d0, d.score, d.strategy
FROM detections d JOIN segments g ON g.id = d.segment_id
WHERE d.source = ?
ORDER BY g.idx, d.start_s, d.id`, source)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	var out []Detection
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.Segment, &d.StartTime, &d.EndTime, &d.StartFreq, &d.EndFreq, &d.D0, &d.Score, &d.Strategy); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows: %w", err)
	}
	return out, nil
}

// SegmentCounts returns how many segments of source were stored per status.
func (s *Store) SegmentCounts(ctx context.Context, source string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM segments WHERE source = ? GROUP BY status`, source)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}
