// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine answers research queries over an in-memory snapshot of
// the corpus. It ranks records by TF-IDF cosine similarity, merges in
// keyword matches, applies label and year filters, deduplicates and
// paginates.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/metrics"
	"github.com/pdiddy/risda/internal/paginate"
	"github.com/pdiddy/risda/internal/similarity"
	"github.com/pdiddy/risda/internal/textvec"
	"github.com/pdiddy/risda/pkg/types"
)

var (
	// ErrEmptyQuery is returned by Recommend for blank text.
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrInvalidSort is returned for an unknown sort order.
	ErrInvalidSort = errors.New("invalid sort order")
)

// Engine serves searches from the current snapshot.
type Engine struct {
	src   Source
	space *textvec.Space
	cfg   types.SearchConfig
	log   zerolog.Logger

	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

// New builds the initial snapshot from src using space.
func New(ctx context.Context, src Source, space *textvec.Space, cfg types.SearchConfig) (*Engine, error) {
	if space == nil {
		return nil, errors.New("vector space is required")
	}
	e := &Engine{
		src:   src,
		space: space,
		cfg:   cfg,
		log:   logging.With("engine"),
	}
	if err := e.Rebuild(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Space returns the vector space the engine was built with.
func (e *Engine) Space() *textvec.Space {
	return e.space
}

// Labels returns the distinct labels of the current snapshot, sorted.
func (e *Engine) Labels() []string {
	return e.snap.Load().Labels()
}

// Recommend ranks the whole corpus against text by cosine similarity,
// descending with ties in corpus order. topN <= 0 returns every record.
func (e *Engine) Recommend(ctx context.Context, text string, topN int) ([]types.ScoredRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := e.snap.Load()
	ranked := rank(snap, text)
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}

	out := make([]types.ScoredRecord, len(ranked))
	for i, sc := range ranked {
		out[i] = types.ScoredRecord{Record: snap.records[sc.Index], Score: sc.Value, Scored: true}
	}
	return out, nil
}

// KeywordMatches returns, in corpus order, the records whose synopsis
// contains any whitespace-separated query token, case-insensitively.
func (e *Engine) KeywordMatches(query string) []types.Record {
	snap := e.snap.Load()
	idx := keywordMatches(snap, query)
	out := make([]types.Record, len(idx))
	for i, j := range idx {
		out[i] = snap.records[j]
	}
	return out
}

// Search runs one listing request against a single snapshot.
func (e *Engine) Search(ctx context.Context, opts types.SearchOptions) (types.SearchPage, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return types.SearchPage{}, err
	}

	sortOrder := opts.Sort
	if sortOrder == "" {
		sortOrder = e.cfg.Sort
	}
	if sortOrder == "" {
		sortOrder = types.SortNewest
	}
	if !sortOrder.Valid() {
		return types.SearchPage{}, fmt.Errorf("%w: %q", ErrInvalidSort, opts.Sort)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = e.cfg.PageSize
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = e.cfg.MinScore
	}

	snap := e.snap.Load()
	query := strings.TrimSpace(opts.Query)
	mode := "browse"

	var merged []types.ScoredRecord
	if query == "" {
		merged = make([]types.ScoredRecord, len(snap.records))
		for i, r := range snap.records {
			merged[i] = types.ScoredRecord{Record: r}
		}
	} else {
		mode = "ranked"
		merged = dedupe(mergeHits(snap, query, minScore))
	}

	merged = filterLabels(merged, opts.Labels)
	sortByYear(merged, sortOrder)
	if opts.Limit > 0 && opts.Limit < len(merged) {
		merged = merged[:opts.Limit]
	}

	page, w := paginate.Slice(merged, pageSize, opts.Page)
	if page == nil {
		page = []types.ScoredRecord{}
	}

	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(merged)))
	e.log.Debug().
		Str("mode", mode).
		Int("total", len(merged)).
		Int("page", w.Page).
		Strs("labels", opts.Labels).
		Msg("search")

	return types.SearchPage{
		Results:  page,
		Page:     w.Page,
		Pages:    w.Pages,
		PageSize: w.Size,
		Total:    w.Total,
	}, nil
}

func rank(snap *Snapshot, text string) []similarity.Score {
	q := snap.space.Transform(text)
	return similarity.Rank(similarity.ScoreAll(q, snap.matrix))
}

// mergeHits lists similarity hits scoring at least minScore in rank order,
// then keyword matches not already listed, in corpus order.
func mergeHits(snap *Snapshot, query string, minScore float64) []types.ScoredRecord {
	ranked := rank(snap, query)
	seen := make([]bool, len(snap.records))
	out := make([]types.ScoredRecord, 0, len(ranked))
	for _, sc := range ranked {
		if sc.Value < minScore {
			continue
		}
		seen[sc.Index] = true
		out = append(out, types.ScoredRecord{Record: snap.records[sc.Index], Score: sc.Value, Scored: true})
	}
	for _, i := range keywordMatches(snap, query) {
		if !seen[i] {
			out = append(out, types.ScoredRecord{Record: snap.records[i]})
		}
	}
	return out
}

func keywordMatches(snap *Snapshot, query string) []int {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}
	var out []int
	for i, r := range snap.records {
		synopsis := strings.ToLower(r.Synopsis)
		for _, tok := range tokens {
			if strings.Contains(synopsis, tok) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

type dedupeKey struct{ title, synopsis string }

// dedupe keeps the first record of each (title, synopsis) pair.
func dedupe(in []types.ScoredRecord) []types.ScoredRecord {
	seen := make(map[dedupeKey]bool, len(in))
	out := in[:0:0]
	for _, r := range in {
		k := dedupeKey{r.Title, r.Synopsis}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func filterLabels(in []types.ScoredRecord, selected []string) []types.ScoredRecord {
	var want []string
	for _, l := range selected {
		if l = strings.TrimSpace(l); l != "" {
			want = append(want, l)
		}
	}
	if len(want) == 0 {
		return in
	}
	out := in[:0:0]
	for _, r := range in {
		if r.HasLabel(want) {
			out = append(out, r)
		}
	}
	return out
}

func sortByYear(rs []types.ScoredRecord, order types.SortOrder) {
	switch order {
	case types.SortNewest:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Year > rs[j].Year })
	case types.SortOldest:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Year < rs[j].Year })
	}
}
