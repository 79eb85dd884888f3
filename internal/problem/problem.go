// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package problem turns regional problem descriptions into research
// recommendations and keeps each owner's submissions and saved results.
package problem

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/metrics"
	"github.com/pdiddy/risda/internal/validation"
	"github.com/pdiddy/risda/pkg/types"
)

var (
	// ErrEmptyProblem is returned when both title and description are blank.
	ErrEmptyProblem = errors.New("problem title and description are both empty")

	// ErrNotFound is returned for a submission the owner does not have.
	ErrNotFound = errors.New("submission not found")
)

// Recommender ranks the corpus against free text.
type Recommender interface {
	Recommend(ctx context.Context, text string, topN int) ([]types.ScoredRecord, error)
}

// Store persists submissions and saved recommendations.
type Store interface {
	AppendSubmission(ctx context.Context, sub types.Submission) error
	Submissions(ctx context.Context, owner string) ([]types.Submission, error)
	AppendSaved(ctx context.Context, saved []types.SavedRecommendation) error
	Saved(ctx context.Context, owner string) ([]types.SavedRecommendation, error)
}

// Service handles problem submissions.
type Service struct {
	rec   Recommender
	store Store
	cfg   types.ProblemConfig
	now   func() time.Time
	log   zerolog.Logger
}

// NewService returns a Service. Zero config values take their defaults.
func NewService(rec Recommender, store Store, cfg types.ProblemConfig) *Service {
	if cfg.Candidates <= 0 {
		cfg.Candidates = 50
	}
	if cfg.Keep <= 0 {
		cfg.Keep = 20
	}
	return &Service{rec: rec, store: store, cfg: cfg, now: time.Now, log: logging.With("problem")}
}

// Submit recommends research for a problem and records the submission.
// The top Candidates records by similarity are deduplicated on (title,
// synopsis, link) and the first Keep are returned.
func (s *Service) Submit(ctx context.Context, req types.ProblemRequest) (types.ProblemResult, error) {
	if err := validation.Struct(req); err != nil {
		return types.ProblemResult{}, err
	}
	recs, err := s.recommend(ctx, req.Title, req.Description)
	if err != nil {
		return types.ProblemResult{}, err
	}

	sub := types.Submission{
		ID:            uuid.NewString(),
		Timestamp:     s.now().UTC(),
		SubmitterName: req.SubmitterName,
		Institution:   req.Institution,
		Title:         req.Title,
		Description:   req.Description,
		Owner:         req.Owner,
	}
	if err := s.store.AppendSubmission(ctx, sub); err != nil {
		return types.ProblemResult{}, err
	}
	metrics.Submissions.Inc()
	s.log.Info().Str("id", sub.ID).Str("owner", sub.Owner).Int("recommendations", len(recs)).Msg("problem submitted")

	return types.ProblemResult{Submission: sub, Recommendations: recs}, nil
}

// Recommendations recomputes the recommendations of one of owner's
// submissions against the current corpus. Nothing is stored.
func (s *Service) Recommendations(ctx context.Context, owner, id string) ([]types.ScoredRecord, error) {
	subs, err := s.Submissions(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if sub.ID == id {
			return s.recommend(ctx, sub.Title, sub.Description)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Service) recommend(ctx context.Context, title, description string) ([]types.ScoredRecord, error) {
	text := types.ClassifierText(title, description)
	if text == "" {
		return nil, ErrEmptyProblem
	}
	ranked, err := s.rec.Recommend(ctx, text, s.cfg.Candidates)
	if err != nil {
		return nil, fmt.Errorf("ranking corpus: %w", err)
	}
	recs := dedupe(ranked)
	if len(recs) > s.cfg.Keep {
		recs = recs[:s.cfg.Keep]
	}
	return recs, nil
}

type linkKey struct{ title, synopsis, link string }

func dedupe(in []types.ScoredRecord) []types.ScoredRecord {
	seen := make(map[linkKey]bool, len(in))
	out := make([]types.ScoredRecord, 0, len(in))
	for _, r := range in {
		k := linkKey{r.Title, r.Synopsis, r.Link}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// Save stores results as saved recommendations of owner.
func (s *Service) Save(ctx context.Context, owner string, results []types.ScoredRecord) ([]types.SavedRecommendation, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if len(results) == 0 {
		return nil, nil
	}
	now := s.now().UTC()
	saved := make([]types.SavedRecommendation, len(results))
	for i, r := range results {
		saved[i] = types.SavedRecommendation{ID: uuid.NewString(), Owner: owner, SavedAt: now, Result: r}
	}
	if err := s.store.AppendSaved(ctx, saved); err != nil {
		return nil, err
	}
	s.log.Info().Str("owner", owner).Int("count", len(saved)).Msg("recommendations saved")
	return saved, nil
}

// Saved lists owner's saved recommendations.
func (s *Service) Saved(ctx context.Context, owner string) ([]types.SavedRecommendation, error) {
	return s.store.Saved(ctx, owner)
}

// Submissions lists owner's submissions. An empty owner has none.
func (s *Service) Submissions(ctx context.Context, owner string) ([]types.Submission, error) {
	if owner == "" {
		return nil, nil
	}
	return s.store.Submissions(ctx, owner)
}

// AllSubmissions lists every owner's submissions, oldest first.
func (s *Service) AllSubmissions(ctx context.Context) ([]types.Submission, error) {
	return s.store.Submissions(ctx, "")
}

// Dashboard summarizes owner's activity: submission and saved counts and
// how often each label occurs among saved recommendations.
func (s *Service) Dashboard(ctx context.Context, owner string) (types.Dashboard, error) {
	subs, err := s.Submissions(ctx, owner)
	if err != nil {
		return types.Dashboard{}, err
	}
	saved, err := s.store.Saved(ctx, owner)
	if err != nil {
		return types.Dashboard{}, err
	}

	counts := make(map[string]int)
	for _, sr := range saved {
		for _, l := range sr.Result.Labels {
			counts[l]++
		}
	}
	lc := make([]types.LabelCount, 0, len(counts))
	for l, n := range counts {
		lc = append(lc, types.LabelCount{Label: l, Count: n})
	}
	sort.Slice(lc, func(i, j int) bool {
		if lc[i].Count != lc[j].Count {
			return lc[i].Count > lc[j].Count
		}
		return lc[i].Label < lc[j].Label
	})

	return types.Dashboard{
		Submissions:  len(subs),
		Saved:        len(saved),
		UniqueLabels: len(lc),
		LabelCounts:  lc,
	}, nil
}
