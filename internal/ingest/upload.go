// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/risda/internal/corpus"
	"github.com/pdiddy/risda/internal/metrics"
	"github.com/pdiddy/risda/internal/validation"
	"github.com/pdiddy/risda/pkg/types"
)

// UploadColumns are the columns a bulk upload CSV must carry. A ringkasan
// column may be present and is ignored.
var UploadColumns = []string{
	corpus.ColTitle, corpus.ColSynopsis, corpus.ColResearcher, corpus.ColEmail,
	corpus.ColAffiliation, corpus.ColRegion, corpus.ColYear, corpus.ColLink,
}

// RowError reports why one upload row was not stored. Row is the 1-based
// line number in the file, counting the header.
type RowError struct {
	Row   int    `json:"row"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// UploadSummary holds the outcome of a bulk upload.
type UploadSummary struct {
	Added   []types.Record `json:"added"`
	Failed  []RowError     `json:"failed"`
	Ignored int            `json:"ignored"`
}

type uploadRow struct {
	line  int
	input types.NewRecord
	label string
	err   error
}

// Upload reads a CSV of new records, predicts every label on a worker
// pool and appends the rows that validated and classified. Failed rows are
// reported individually and do not block the others. The index is
// rebuilt once at the end.
func (s *Service) Upload(ctx context.Context, r io.Reader) (UploadSummary, error) {
	rows, err := corpus.ReadCSV(r, UploadColumns...)
	if err != nil {
		return UploadSummary{}, err
	}

	var summary UploadSummary
	pending := make([]*uploadRow, 0, len(rows))
	for i, row := range rows {
		in := types.NewRecord{
			Title:       row.Get(corpus.ColTitle),
			Synopsis:    row.Get(corpus.ColSynopsis),
			Researcher:  row.Get(corpus.ColResearcher),
			Email:       row.Get(corpus.ColEmail),
			Affiliation: row.Get(corpus.ColAffiliation),
			Region:      row.Get(corpus.ColRegion),
			Year:        row.Year(),
			Link:        row.Get(corpus.ColLink),
		}
		if isBlank(in) {
			summary.Ignored++
			continue
		}
		pending = append(pending, &uploadRow{line: i + 2, input: in})
	}

	if err := s.classifyAll(ctx, pending); err != nil {
		return summary, err
	}

	var recs []types.Record
	for _, p := range pending {
		if p.err != nil {
			summary.Failed = append(summary.Failed, RowError{Row: p.line, Title: p.input.Title, Error: p.err.Error()})
			metrics.IngestRecords.WithLabelValues("failed").Inc()
			continue
		}
		recs = append(recs, p.input.Record([]string{p.label}))
	}

	if len(recs) > 0 {
		added, err := s.store.Append(ctx, recs...)
		if err != nil {
			return summary, err
		}
		summary.Added = added
		metrics.IngestRecords.WithLabelValues("added").Add(float64(len(added)))
	}

	s.log.Info().
		Int("added", len(summary.Added)).
		Int("failed", len(summary.Failed)).
		Int("ignored", summary.Ignored).
		Msg("upload finished")

	if len(summary.Added) == 0 {
		return summary, nil
	}
	return summary, s.rebuild(ctx)
}

// classifyAll validates and classifies rows concurrently. Each row's
// outcome is written to the row itself.
func (s *Service) classifyAll(ctx context.Context, rows []*uploadRow) error {
	if len(rows) == 0 {
		return nil
	}
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("creating classification pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := validation.Struct(row.input); err != nil {
				row.err = err
				return
			}
			row.label, row.err = s.Classify(row.input.Title, row.input.Synopsis)
		}); err != nil {
			wg.Done()
			row.err = fmt.Errorf("scheduling classification: %w", err)
		}
	}
	wg.Wait()
	return ctx.Err()
}

func isBlank(in types.NewRecord) bool {
	return in.Title == "" && in.Synopsis == "" && in.Researcher == "" &&
		in.Email == "" && in.Affiliation == "" && in.Region == "" && in.Link == ""
}
