// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/pdiddy/risda/pkg/types"
)

// AppendSubmission stores a problem submission.
func (s *Store) AppendSubmission(ctx context.Context, sub types.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, created_at, submitter_name, institution, title, description, owner)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Timestamp.UTC().Format(time.RFC3339Nano), sub.SubmitterName,
		sub.Institution, sub.Title, sub.Description, sub.Owner,
	)
	if err != nil {
		return fmt.Errorf("inserting submission %s: %w", sub.ID, err)
	}
	return nil
}

// Submissions lists submissions in the order they were made. An empty
// owner lists every submission.
func (s *Store) Submissions(ctx context.Context, owner string) ([]types.Submission, error) {
	query := `SELECT id, created_at, submitter_name, institution, title, description, owner
		FROM submissions`
	var args []any
	if owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var out []types.Submission
	for rows.Next() {
		var (
			sub types.Submission
			ts  string
		)
		if err := rows.Scan(&sub.ID, &ts, &sub.SubmitterName, &sub.Institution,
			&sub.Title, &sub.Description, &sub.Owner); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		sub.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, sub)
	}
	return out, rows.Err()
}

// AppendSaved stores saved recommendations in one transaction.
func (s *Store) AppendSaved(ctx context.Context, saved []types.SavedRecommendation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO saved_results (id, owner, saved_at, result) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, sr := range saved {
		result, err := json.Marshal(sr.Result)
		if err != nil {
			return fmt.Errorf("marshaling saved result %s: %w", sr.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, sr.ID, sr.Owner,
			sr.SavedAt.UTC().Format(time.RFC3339Nano), string(result)); err != nil {
			return fmt.Errorf("inserting saved result %s: %w", sr.ID, err)
		}
	}
	return tx.Commit()
}

// Saved lists an owner's saved recommendations in the order they were saved.
func (s *Store) Saved(ctx context.Context, owner string) ([]types.SavedRecommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, saved_at, result FROM saved_results
		 WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying saved results: %w", err)
	}
	defer rows.Close()

	var out []types.SavedRecommendation
	for rows.Next() {
		var (
			sr      types.SavedRecommendation
			savedAt string
			result  string
		)
		if err := rows.Scan(&sr.ID, &sr.Owner, &savedAt, &result); err != nil {
			return nil, fmt.Errorf("scanning saved result: %w", err)
		}
		sr.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		if err := json.Unmarshal([]byte(result), &sr.Result); err != nil {
			return nil, fmt.Errorf("decoding saved result %s: %w", sr.ID, err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
