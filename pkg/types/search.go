// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the risda recommender:
// corpus records, search options and pages, problem submissions, saved
// recommendations, and configuration.
package types

// SortOrder selects how the final search list is ordered.
type SortOrder string

const (
	// SortNewest orders by year, most recent first.
	SortNewest SortOrder = "newest"
	// SortOldest orders by year, oldest first.
	SortOldest SortOrder = "oldest"
	// SortRelevance keeps the merged similarity/keyword order.
	SortRelevance SortOrder = "relevance"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortRelevance:
		return true
	}
	return false
}

// SearchOptions holds the request-scoped parameters of one search.
type SearchOptions struct {
	// Query is the free text. Empty means browse the whole corpus.
	Query string `json:"query" yaml:"query"`

	// Labels restricts results to records carrying any of these labels.
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Sort selects year ordering. Empty defaults to SortNewest.
	Sort SortOrder `json:"sort,omitempty" yaml:"sort,omitempty"`

	// MinScore drops similarity hits scoring below it. Keyword matches are
	// still merged in. Zero keeps the whole ranked corpus.
	MinScore float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`

	// Limit truncates the merged list before pagination. Zero means no limit.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// Page is the 1-based page number.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// PageSize is the number of results per page.
	PageSize int `json:"page_size,omitempty" yaml:"page_size,omitempty"`
}

// ScoredRecord is a Record with the similarity score of the current query.
// Scored is false for records that entered the result without ranking
// (keyword-only matches or a browse without query).
type ScoredRecord struct {
	Record `yaml:",inline"`
	Score  float64 `json:"score" yaml:"score"`
	Scored bool    `json:"scored" yaml:"scored"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results  []ScoredRecord `json:"results" yaml:"results"`
	Page     int            `json:"page" yaml:"page"`
	Pages    int            `json:"pages" yaml:"pages"`
	PageSize int            `json:"page_size" yaml:"page_size"`
	Total    int            `json:"total" yaml:"total"`
}
