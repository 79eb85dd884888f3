// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Submission is an append-only record of a regional problem report.
type Submission struct {
	ID            string    `json:"id" yaml:"id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	SubmitterName string    `json:"submitter_name" yaml:"submitter_name"`
	Institution   string    `json:"institution" yaml:"institution"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	Owner         string    `json:"owner" yaml:"owner"`
}

// ProblemRequest is a problem description submitted by a logged-in user.
type ProblemRequest struct {
	Owner         string `json:"owner" yaml:"owner" validate:"required"`
	SubmitterName string `json:"submitter_name" yaml:"submitter_name"`
	Institution   string `json:"institution" yaml:"institution"`
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
}

// ProblemResult holds the stored submission and its recommendations.
type ProblemResult struct {
	Submission      Submission     `json:"submission" yaml:"submission"`
	Recommendations []ScoredRecord `json:"recommendations" yaml:"recommendations"`
}

// SavedRecommendation is a recommendation an owner chose to keep.
type SavedRecommendation struct {
	ID      string       `json:"id" yaml:"id"`
	Owner   string       `json:"owner" yaml:"owner"`
	SavedAt time.Time    `json:"saved_at" yaml:"saved_at"`
	Result  ScoredRecord `json:"result" yaml:"result"`
}

// LabelCount is the number of saved recommendations carrying a label.
type LabelCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Dashboard summarizes an owner's submissions and saved recommendations.
type Dashboard struct {
	Submissions  int          `json:"submissions" yaml:"submissions"`
	Saved        int          `json:"saved" yaml:"saved"`
	UniqueLabels int          `json:"unique_labels" yaml:"unique_labels"`
	LabelCounts  []LabelCount `json:"label_counts" yaml:"label_counts"`
}
