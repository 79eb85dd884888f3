// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists research records, problem submissions and saved
// recommendations in SQLite. It is the row store the engine reads and the
// ingest path appends to.
package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/pkg/types"
)

const dbFile = "risda.db"

// ErrNotFound is returned when a record or trash entry does not exist.
var ErrNotFound = errors.New("not found")

// Store manages the corpus SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens or creates the database at dataDir/risda.db and creates the
// schema if it does not exist.
func Open(cfg types.CorpusConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string {
	return s.dataDir
}

const recordColumns = `title, synopsis, researcher, email, affiliation, region, year, labels, link`

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			synopsis TEXT NOT NULL DEFAULT '',
			researcher TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			affiliation TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			labels TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS trash (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id INTEGER NOT NULL,
			deleted_at TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			synopsis TEXT NOT NULL DEFAULT '',
			researcher TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			affiliation TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			labels TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			submitter_name TEXT NOT NULL DEFAULT '',
			institution TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_owner ON submissions(owner)`,
		`CREATE TABLE IF NOT EXISTS saved_results (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			result TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_results_owner ON saved_results(owner)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load returns every usable record in corpus order. Rows whose title,
// synopsis or label field is blank are skipped. Label fields that do not
// parse degrade to a single raw label.
func (s *Store) Load(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, `+recordColumns+` FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var (
		records []types.Record
		skipped int
	)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec.Title == "" || rec.Synopsis == "" || strings.TrimSpace(rec.RawLabels) == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	if skipped > 0 {
		logging.Debug().Int("skipped", skipped).Msg("records missing title, synopsis or label")
	}
	return records, nil
}

// Count returns the number of stored records, usable or not.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id int64) (types.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return rec, err
}

// Append inserts records in one transaction and returns them with their
// assigned IDs.
func (s *Store) Append(ctx context.Context, recs ...types.Record) ([]types.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	out := make([]types.Record, len(recs))
	for i, rec := range recs {
		res, err := stmt.ExecContext(ctx, recordArgs(rec)...)
		if err != nil {
			return nil, fmt.Errorf("inserting record %q: %w", rec.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading record id: %w", err)
		}
		rec.ID = id
		rec.Remerge()
		out[i] = rec
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing records: %w", err)
	}
	return out, nil
}

// Update replaces every field of the record identified by rec.ID.
func (s *Store) Update(ctx context.Context, rec types.Record) (types.Record, error) {
	args := append(recordArgs(rec), rec.ID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET title = ?, synopsis = ?, researcher = ?, email = ?,
			affiliation = ?, region = ?, year = ?, labels = ?, link = ?
		 WHERE id = ?`, args...)
	if err != nil {
		return types.Record{}, fmt.Errorf("updating record %d: %w", rec.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Record{}, fmt.Errorf("record %d: %w", rec.ID, ErrNotFound)
	}
	rec.Remerge()
	return rec, nil
}

// Delete moves a record into the trash table.
func (s *Store) Delete(ctx context.Context, id int64) (types.TrashedRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.TrashedRecord{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT id, `+recordColumns+` FROM records WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.TrashedRecord{}, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.TrashedRecord{}, err
	}

	deletedAt := time.Now().UTC()
	args := append([]any{rec.ID, deletedAt.Format(time.RFC3339Nano)}, recordArgs(rec)...)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO trash (record_id, deleted_at, `+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return types.TrashedRecord{}, fmt.Errorf("trashing record %d: %w", id, err)
	}
	trashID, err := res.LastInsertId()
	if err != nil {
		return types.TrashedRecord{}, fmt.Errorf("reading trash id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return types.TrashedRecord{}, fmt.Errorf("deleting record %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return types.TrashedRecord{}, fmt.Errorf("committing delete: %w", err)
	}

	return types.TrashedRecord{TrashID: trashID, DeletedAt: deletedAt, Record: rec}, nil
}

// Trash lists deleted records, most recently deleted first.
func (s *Store) Trash(ctx context.Context) ([]types.TrashedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, deleted_at, record_id, `+recordColumns+` FROM trash ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying trash: %w", err)
	}
	defer rows.Close()

	var out []types.TrashedRecord
	for rows.Next() {
		t, err := scanTrashed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Restore moves a trash entry back into the records table. The restored
// record is appended at the end of the corpus with a new ID.
func (s *Store) Restore(ctx context.Context, trashID int64) (types.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Record{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := scanTrashed(tx.QueryRowContext(ctx,
		`SELECT id, deleted_at, record_id, `+recordColumns+` FROM trash WHERE id = ?`, trashID))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, fmt.Errorf("trash entry %d: %w", trashID, ErrNotFound)
	}
	if err != nil {
		return types.Record{}, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recordArgs(t.Record)...)
	if err != nil {
		return types.Record{}, fmt.Errorf("restoring record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Record{}, fmt.Errorf("reading record id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trash WHERE id = ?`, trashID); err != nil {
		return types.Record{}, fmt.Errorf("removing trash entry %d: %w", trashID, err)
	}
	if err := tx.Commit(); err != nil {
		return types.Record{}, fmt.Errorf("committing restore: %w", err)
	}

	rec := t.Record
	rec.ID = id
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.Record, error) {
	var rec types.Record
	if err := row.Scan(
		&rec.ID, &rec.Title, &rec.Synopsis, &rec.Researcher, &rec.Email,
		&rec.Affiliation, &rec.Region, &rec.Year, &rec.RawLabels, &rec.Link,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning record: %w", err)
	}
	finishRecord(&rec)
	return rec, nil
}

func scanTrashed(row scanner) (types.TrashedRecord, error) {
	var (
		t         types.TrashedRecord
		deletedAt string
		rec       = &t.Record
	)
	if err := row.Scan(
		&t.TrashID, &deletedAt, &rec.ID, &rec.Title, &rec.Synopsis, &rec.Researcher,
		&rec.Email, &rec.Affiliation, &rec.Region, &rec.Year, &rec.RawLabels, &rec.Link,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scanning trash entry: %w", err)
	}
	t.DeletedAt, _ = time.Parse(time.RFC3339Nano, deletedAt)
	finishRecord(rec)
	return t, nil
}

func finishRecord(rec *types.Record) {
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Synopsis = strings.TrimSpace(rec.Synopsis)
	rec.Labels, _ = labels.Resolve(rec.RawLabels)
	rec.Remerge()
}

// recordArgs returns the column values in recordColumns order. The raw
// label text is kept as imported when present so that a malformed field
// is stored verbatim.
func recordArgs(rec types.Record) []any {
	raw := rec.RawLabels
	if raw == "" && len(rec.Labels) > 0 {
		raw = labels.Format(rec.Labels)
	}
	return []any{
		rec.Title, rec.Synopsis, rec.Researcher, rec.Email,
		rec.Affiliation, rec.Region, rec.Year, raw, rec.Link,
	}
}
