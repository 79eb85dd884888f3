// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// titleWeight is how many times the title is repeated in MergedText so
// that title terms dominate similarity scoring.
const titleWeight = 3

// Record is one regional-innovation research entry in the corpus.
type Record struct {
	// ID is the store row identifier. The record's position in an engine
	// snapshot is its matrix index and is only stable within one load.
	ID int64 `json:"id" yaml:"id"`

	// Title is the research title (judul).
	Title string `json:"title" yaml:"title"`

	// Synopsis is the research summary (sinopsis).
	Synopsis string `json:"synopsis" yaml:"synopsis"`

	// Researcher is the researcher's name (nama).
	Researcher string `json:"researcher" yaml:"researcher"`

	// Email is the researcher's contact address.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Affiliation is the researcher's institution (afiliasi).
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// Region is the region the research targets (daerah).
	Region string `json:"region" yaml:"region"`

	// Year is the research year (tahun).
	Year int `json:"year" yaml:"year"`

	// Labels are the category labels in source order.
	Labels []string `json:"labels" yaml:"labels"`

	// RawLabels is the label field as stored, before parsing.
	RawLabels string `json:"-" yaml:"-"`

	// Link is an optional external URI.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`

	// MergedText is the vectorized text. See MergeText.
	MergedText string `json:"-" yaml:"-"`
}

// MergeText returns the title repeated three times followed by the
// synopsis, single-space separated and trimmed.
func MergeText(title, synopsis string) string {
	title = strings.TrimSpace(title)
	synopsis = strings.TrimSpace(synopsis)
	parts := make([]string, 0, titleWeight+1)
	if title != "" {
		for range titleWeight {
			parts = append(parts, title)
		}
	}
	if synopsis != "" {
		parts = append(parts, synopsis)
	}
	return strings.Join(parts, " ")
}

// Remerge recomputes MergedText from the current title and synopsis.
func (r *Record) Remerge() {
	r.MergedText = MergeText(r.Title, r.Synopsis)
}

// ClassifierText is the text handed to the category classifier:
// "title. synopsis" when both are present, otherwise whichever is set.
func ClassifierText(title, body string) string {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	switch {
	case title != "" && body != "":
		return title + ". " + body
	case title != "":
		return title
	default:
		return body
	}
}

// HasLabel reports whether the record carries any of the given labels.
func (r Record) HasLabel(selected []string) bool {
	for _, want := range selected {
		for _, have := range r.Labels {
			if strings.TrimSpace(have) == strings.TrimSpace(want) {
				return true
			}
		}
	}
	return false
}

// NewRecord is the input for adding or editing a corpus record. The label
// is never supplied by the caller; the classifier assigns it.
type NewRecord struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Synopsis    string `json:"synopsis" yaml:"synopsis" validate:"required"`
	Researcher  string `json:"researcher" yaml:"researcher"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Affiliation string `json:"affiliation" yaml:"affiliation"`
	Region      string `json:"region" yaml:"region"`
	Year        int    `json:"year" yaml:"year" validate:"min=2000,max=2100"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty" validate:"omitempty,url"`
}

// Record converts the input into a Record carrying the given labels.
func (n NewRecord) Record(labels []string) Record {
	r := Record{
		Title:       strings.TrimSpace(n.Title),
		Synopsis:    strings.TrimSpace(n.Synopsis),
		Researcher:  strings.TrimSpace(n.Researcher),
		Email:       strings.TrimSpace(n.Email),
		Affiliation: strings.TrimSpace(n.Affiliation),
		Region:      strings.TrimSpace(n.Region),
		Year:        n.Year,
		Labels:      labels,
		Link:        strings.TrimSpace(n.Link),
	}
	r.Remerge()
	return r
}

// TrashedRecord is a deleted record held for restoration.
type TrashedRecord struct {
	// TrashID identifies the trash entry; it differs from Record.ID.
	TrashID   int64     `json:"trash_id" yaml:"trash_id"`
	DeletedAt time.Time `json:"deleted_at" yaml:"deleted_at"`
	Record    Record    `json:"record" yaml:"record"`
}
