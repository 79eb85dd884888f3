// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textvec

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ErrArtifact marks a missing or corrupt vector space artifact.
var ErrArtifact = errors.New("vectorizer artifact")

const artifactKind = "tfidf-space/v1"

type artifact struct {
	Kind  string        `yaml:"kind"`
	Docs  int           `yaml:"docs"`
	Terms []artifactRow `yaml:"terms"`
}

type artifactRow struct {
	Term string  `yaml:"term"`
	IDF  float64 `yaml:"idf"`
}

// Save writes the space as YAML to path, creating parent directories.
func (s *Space) Save(path string) error {
	a := artifact{Kind: artifactKind, Docs: s.docs, Terms: make([]artifactRow, len(s.terms))}
	for i, t := range s.terms {
		a.Terms[i] = artifactRow{Term: t, IDF: s.idf[i]}
	}
	data, err := yaml.Marshal(&a)
	if err != nil {
		return fmt.Errorf("marshaling vector space: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a space written by Save. Every failure wraps ErrArtifact.
func Load(path string) (*Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrArtifact, path, err)
	}
	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrArtifact, path, err)
	}
	if a.Kind != artifactKind {
		return nil, fmt.Errorf("%w: %s has kind %q, want %q", ErrArtifact, path, a.Kind, artifactKind)
	}

	terms := make([]string, len(a.Terms))
	idf := make([]float64, len(a.Terms))
	seen := make(map[string]bool, len(a.Terms))
	for i, row := range a.Terms {
		if row.Term == "" || seen[row.Term] || !validIDF(row.IDF) {
			return nil, fmt.Errorf("%w: %s has invalid term row %d", ErrArtifact, path, i)
		}
		seen[row.Term] = true
		terms[i] = row.Term
		idf[i] = row.IDF
	}
	return newSpace(terms, idf, a.Docs), nil
}

func validIDF(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
