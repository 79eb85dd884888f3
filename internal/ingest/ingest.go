// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest adds, edits and removes corpus records. New and edited
// records get their category label from the classifier; every change is
// followed by a rebuild of the search snapshot.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/metrics"
	"github.com/pdiddy/risda/internal/validation"
	"github.com/pdiddy/risda/pkg/types"
)

var (
	// ErrClassify wraps a classifier failure for one record.
	ErrClassify = errors.New("classifying record")

	// ErrIndexStale is returned alongside a valid result when the change
	// was stored but the search index could not be rebuilt.
	ErrIndexStale = errors.New("change stored, search index is stale")
)

const (
	rebuildAttempts = 3
	rebuildBackoff  = 100 * time.Millisecond
)

// Predictor assigns a category label to text.
type Predictor interface {
	Predict(text string) (string, error)
}

// Store is the record storage the service writes to.
type Store interface {
	Append(ctx context.Context, recs ...types.Record) ([]types.Record, error)
	Get(ctx context.Context, id int64) (types.Record, error)
	Update(ctx context.Context, rec types.Record) (types.Record, error)
	Delete(ctx context.Context, id int64) (types.TrashedRecord, error)
	Restore(ctx context.Context, trashID int64) (types.Record, error)
	Trash(ctx context.Context) ([]types.TrashedRecord, error)
}

// Indexer rebuilds the search snapshot after the store changes.
type Indexer interface {
	Rebuild(ctx context.Context) error
}

// Service applies record changes.
type Service struct {
	store   Store
	clf     Predictor
	index   Indexer
	workers int
	backoff time.Duration
	log     zerolog.Logger
}

// NewService returns a Service. index may be nil when no engine is running
// (for example in one-shot CLI commands).
func NewService(store Store, clf Predictor, index Indexer, cfg types.IngestConfig) *Service {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Service{
		store:   store,
		clf:     clf,
		index:   index,
		workers: workers,
		backoff: rebuildBackoff,
		log:     logging.With("ingest"),
	}
}

// Classify predicts the label of a title and body pair.
func (s *Service) Classify(title, body string) (string, error) {
	label, err := s.clf.Predict(types.ClassifierText(title, body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClassify, err)
	}
	return label, nil
}

// Add validates in, predicts its label, stores it and rebuilds the index.
func (s *Service) Add(ctx context.Context, in types.NewRecord) (types.Record, error) {
	if err := validation.Struct(in); err != nil {
		metrics.IngestRecords.WithLabelValues("failed").Inc()
		return types.Record{}, err
	}
	label, err := s.Classify(in.Title, in.Synopsis)
	if err != nil {
		metrics.IngestRecords.WithLabelValues("failed").Inc()
		return types.Record{}, err
	}

	added, err := s.store.Append(ctx, in.Record([]string{label}))
	if err != nil {
		return types.Record{}, err
	}
	metrics.IngestRecords.WithLabelValues("added").Inc()
	s.log.Info().Int64("id", added[0].ID).Str("label", label).Msg("record added")

	return added[0], s.rebuild(ctx)
}

// Edit replaces the fields of record id, re-predicting its label.
func (s *Service) Edit(ctx context.Context, id int64, in types.NewRecord) (types.Record, error) {
	if err := validation.Struct(in); err != nil {
		metrics.IngestRecords.WithLabelValues("failed").Inc()
		return types.Record{}, err
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return types.Record{}, err
	}
	label, err := s.Classify(in.Title, in.Synopsis)
	if err != nil {
		metrics.IngestRecords.WithLabelValues("failed").Inc()
		return types.Record{}, err
	}

	rec := in.Record([]string{label})
	rec.ID = id
	updated, err := s.store.Update(ctx, rec)
	if err != nil {
		return types.Record{}, err
	}
	metrics.IngestRecords.WithLabelValues("updated").Inc()
	s.log.Info().Int64("id", id).Str("label", label).Msg("record updated")

	return updated, s.rebuild(ctx)
}

// Delete moves record id to the trash.
func (s *Service) Delete(ctx context.Context, id int64) (types.TrashedRecord, error) {
	trashed, err := s.store.Delete(ctx, id)
	if err != nil {
		return types.TrashedRecord{}, err
	}
	metrics.IngestRecords.WithLabelValues("deleted").Inc()
	s.log.Info().Int64("id", id).Int64("trash_id", trashed.TrashID).Msg("record deleted")

	return trashed, s.rebuild(ctx)
}

// Restore moves a trash entry back into the corpus.
func (s *Service) Restore(ctx context.Context, trashID int64) (types.Record, error) {
	rec, err := s.store.Restore(ctx, trashID)
	if err != nil {
		return types.Record{}, err
	}
	metrics.IngestRecords.WithLabelValues("restored").Inc()
	s.log.Info().Int64("trash_id", trashID).Int64("id", rec.ID).Msg("record restored")

	return rec, s.rebuild(ctx)
}

// Trash lists deleted records.
func (s *Service) Trash(ctx context.Context) ([]types.TrashedRecord, error) {
	return s.store.Trash(ctx)
}

// rebuild refreshes the index after a stored change. The change is already
// committed, so the rebuild ignores request cancellation and is retried
// before giving up with ErrIndexStale.
func (s *Service) rebuild(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= rebuildAttempts; attempt++ {
		if err = s.index.Rebuild(ctx); err == nil {
			return nil
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("index rebuild failed")
		if attempt < rebuildAttempts {
			time.Sleep(s.backoff * time.Duration(attempt))
		}
	}
	s.log.Error().Err(err).Msg("search index left stale")
	return fmt.Errorf("%w: %w", ErrIndexStale, err)
}
