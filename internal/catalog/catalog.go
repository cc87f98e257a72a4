// Package catalog keeps a SQLite history of check runs: one row per run,
// one per analyzed file and one per diagnostic.
//
// The default build uses the pure Go modernc.org/sqlite driver; building
// with -tags cgo_sqlite switches to mattn/go-sqlite3.
package catalog

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"humdrum/internal/diag"
	"humdrum/internal/driver"
	"humdrum/internal/source"
)

// DriverType is "purego" or "cgo".
func DriverType() string { return driverType }

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	files       INTEGER NOT NULL,
	valid       INTEGER NOT NULL,
	invalid     INTEGER NOT NULL,
	failed      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	path       TEXT NOT NULL,
	digest     TEXT NOT NULL,
	valid      INTEGER NOT NULL,
	last_phase TEXT NOT NULL,
	lines      INTEGER NOT NULL,
	tracks     INTEGER NOT NULL,
	errors     INTEGER NOT NULL,
	warnings   INTEGER NOT NULL,
	elapsed_us INTEGER NOT NULL,
	PRIMARY KEY (run_id, path)
);
CREATE INDEX IF NOT EXISTS results_path ON results(path, digest);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	path     TEXT NOT NULL,
	code     TEXT NOT NULL,
	severity TEXT NOT NULL,
	line     INTEGER NOT NULL,
	message  TEXT NOT NULL
);
`

var ErrNoRuns = errors.New("catalog: no runs recorded")

// фиксированная ширина, чтобы ORDER BY по строке совпадал с хронологией
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	// SQLite пишет из одного соединения
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: init schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

// Run is one recorded check invocation.
type Run struct {
	ID       uuid.UUID
	Started  time.Time
	Finished time.Time
	Files    int
	Valid    int
	Invalid  int
	Failed   int
}

// FileRecord is one analyzed file of a run.
type FileRecord struct {
	Path      string
	Digest    string
	Valid     bool
	LastPhase string
	Lines     int
	Tracks    int
	Errors    int
	Warnings  int
	Elapsed   time.Duration
}

// Digest is the hex BLAKE3 of content.
func Digest(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Record stores results of one run in a single transaction.
func (c *Catalog) Record(ctx context.Context, fs *source.FileSet, started time.Time, results []driver.Result) (Run, error) {
	sum := driver.Summarize(results)
	run := Run{
		ID:       uuid.New(),
		Started:  started.UTC(),
		Finished: time.Now().UTC(),
		Files:    sum.Files,
		Valid:    sum.Valid,
		Invalid:  sum.Invalid,
		Failed:   sum.Failed,
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("catalog: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, files, valid, invalid, failed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Started.Format(timeLayout), run.Finished.Format(timeLayout),
		run.Files, run.Valid, run.Invalid, run.Failed); err != nil {
		return Run{}, fmt.Errorf("catalog: insert run: %w", err)
	}

	for i := range results {
		rec := fileRecord(fs, &results[i])
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, path, digest, valid, last_phase, lines, tracks, errors, warnings, elapsed_us)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID.String(), rec.Path, rec.Digest, rec.Valid, rec.LastPhase, rec.Lines, rec.Tracks,
			rec.Errors, rec.Warnings, rec.Elapsed.Microseconds()); err != nil {
			return Run{}, fmt.Errorf("catalog: insert result %s: %w", rec.Path, err)
		}
		if results[i].Bag == nil {
			continue
		}
		for _, d := range results[i].Bag.Items() {
			var line uint32
			if results[i].File != nil {
				start, _ := fs.Resolve(d.Primary)
				line = start.Line
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO diagnostics (run_id, path, code, severity, line, message) VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID.String(), rec.Path, d.Code.ID(), d.Severity.String(), line, d.Message); err != nil {
				return Run{}, fmt.Errorf("catalog: insert diagnostic: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("catalog: commit: %w", err)
	}
	return run, nil
}

func fileRecord(fs *source.FileSet, r *driver.Result) FileRecord {
	rec := FileRecord{Path: r.Path, Elapsed: r.Elapsed, LastPhase: "none"}
	if r.Bag != nil {
		rec.Errors = r.Bag.CountBySeverity(diag.SevError)
		rec.Warnings = r.Bag.CountBySeverity(diag.SevWarning)
	}
	if r.File == nil {
		return rec
	}
	if src := fs.Get(r.FileID); src != nil {
		rec.Digest = Digest(src.Content)
	}
	rec.Valid = r.File.IsValid()
	rec.LastPhase = r.File.LastPhase().String()
	rec.Lines = r.File.LineCount()
	rec.Tracks = r.File.MaxTrack()
	return rec
}

// LastRun returns the most recent run.
func (c *Catalog) LastRun(ctx context.Context) (Run, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, files, valid, invalid, failed FROM runs ORDER BY started_at DESC LIMIT 1`)
	var (
		run             Run
		id, start, stop string
	)
	if err := row.Scan(&id, &start, &stop, &run.Files, &run.Valid, &run.Invalid, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNoRuns
		}
		return Run{}, fmt.Errorf("catalog: last run: %w", err)
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("catalog: bad run id %q: %w", id, err)
	}
	run.Started, _ = time.Parse(timeLayout, start)
	run.Finished, _ = time.Parse(timeLayout, stop)
	return run, nil
}

// Results lists the files of run in path order.
func (c *Catalog) Results(ctx context.Context, run uuid.UUID) ([]FileRecord, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT path, digest, valid, last_phase, lines, tracks, errors, warnings, elapsed_us
		 FROM results WHERE run_id = ? ORDER BY path`, run.String())
	if err != nil {
		return nil, fmt.Errorf("catalog: results: %w", err)
	}
	defer rows.Close()
	var out []FileRecord
	for rows.Next() {
		var (
			rec FileRecord
			us  int64
		)
		if err := rows.Scan(&rec.Path, &rec.Digest, &rec.Valid, &rec.LastPhase, &rec.Lines, &rec.Tracks,
			&rec.Errors, &rec.Warnings, &us); err != nil {
			return nil, fmt.Errorf("catalog: scan result: %w", err)
		}
		rec.Elapsed = time.Duration(us) * time.Microsecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// KnownValid reports whether content with digest was already checked
// clean at path in an earlier run.
func (c *Catalog) KnownValid(ctx context.Context, path, digest string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE path = ? AND digest = ? AND valid = 1`, path, digest).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("catalog: lookup %s: %w", path, err)
	}
	return n > 0, nil
}

// DiagnosticCounts groups the diagnostics of run by code.
func (c *Catalog) DiagnosticCounts(ctx context.Context, run uuid.UUID) (map[string]int, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT code, COUNT(*) FROM diagnostics WHERE run_id = ? GROUP BY code`, run.String())
	if err != nil {
		return nil, fmt.Errorf("catalog: diagnostic counts: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			code string
			n    int
		)
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("catalog: scan count: %w", err)
		}
		out[code] = n
	}
	return out, rows.Err()
}
