// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/metrics"
	"github.com/pdiddy/risda/internal/textvec"
	"github.com/pdiddy/risda/pkg/types"
)

// Source supplies the corpus records in corpus order.
type Source interface {
	Load(ctx context.Context) ([]types.Record, error)
}

// Snapshot is an immutable view of the corpus: the records, one vector
// per record in the same order, and the space the vectors live in.
type Snapshot struct {
	records []types.Record
	matrix  []textvec.Vector
	space   *textvec.Space
	builtAt time.Time
}

func buildSnapshot(records []types.Record, space *textvec.Space) *Snapshot {
	texts := make([]string, len(records))
	for i := range records {
		if records[i].MergedText == "" {
			records[i].Remerge()
		}
		texts[i] = records[i].MergedText
	}
	return &Snapshot{
		records: records,
		matrix:  space.TransformAll(texts),
		space:   space,
		builtAt: time.Now(),
	}
}

// Len returns the number of indexed records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Records returns a copy of the indexed records in corpus order.
func (s *Snapshot) Records() []types.Record {
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out
}

// BuiltAt returns when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Labels returns the distinct labels across the snapshot, sorted.
func (s *Snapshot) Labels() []string {
	lists := make([][]string, len(s.records))
	for i, r := range s.records {
		lists[i] = r.Labels
	}
	return labels.Distinct(lists...)
}

// FitSpace fits a vector space on the merged text of records.
func FitSpace(records []types.Record) *textvec.Space {
	texts := make([]string, len(records))
	for i, r := range records {
		if r.MergedText == "" {
			r.Remerge()
		}
		texts[i] = r.MergedText
	}
	return textvec.Fit(texts)
}

// OpenSpace loads the vectorizer artifact. When the artifact is missing or
// unreadable and cfg.FitOnStart is set, the space is fit from the corpus
// instead; otherwise the load error is returned.
func OpenSpace(ctx context.Context, src Source, cfg types.ModelConfig) (*textvec.Space, error) {
	space, err := textvec.Load(cfg.VectorizerPath)
	if err == nil {
		return space, nil
	}
	if !cfg.FitOnStart || !errors.Is(err, textvec.ErrArtifact) {
		return nil, err
	}

	logging.Warn().Err(err).Str("path", cfg.VectorizerPath).Msg("fitting vector space from corpus")
	records, lerr := src.Load(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("loading corpus to fit vector space: %w", lerr)
	}
	return FitSpace(records), nil
}

// Rebuild reloads the corpus from the source, re-transforms every record
// with the existing space and swaps in the new snapshot. The space is
// never refit. Rebuilds are serialized; searches running during a rebuild
// keep the snapshot they started with.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	records, err := e.src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := buildSnapshot(records, e.space)
	e.snap.Store(snap)

	elapsed := time.Since(start)
	metrics.IndexRebuildDuration.Observe(elapsed.Seconds())
	metrics.IndexedRecords.Set(float64(snap.Len()))
	e.log.Debug().Int("records", snap.Len()).Dur("elapsed", elapsed).Msg("snapshot rebuilt")
	return nil
}
