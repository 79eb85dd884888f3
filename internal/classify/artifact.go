// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ErrArtifact marks a missing or corrupt classifier artifact.
var ErrArtifact = errors.New("classifier artifact")

const artifactKind = "naive-bayes/v1"

type artifact struct {
	Kind    string          `yaml:"kind"`
	Terms   []string        `yaml:"terms"`
	Classes []artifactClass `yaml:"classes"`
}

type artifactClass struct {
	Label         string    `yaml:"label"`
	Docs          int       `yaml:"docs"`
	LogPrior      float64   `yaml:"log_prior"`
	LogLikelihood []float64 `yaml:"log_likelihood,flow"`
}

// Save writes the model as YAML to path, creating parent directories.
func (m *Model) Save(path string) error {
	a := artifact{Kind: artifactKind, Terms: m.terms, Classes: make([]artifactClass, len(m.classes))}
	for i, c := range m.classes {
		a.Classes[i] = artifactClass{
			Label:         c,
			Docs:          m.docs[i],
			LogPrior:      m.logPrior[i],
			LogLikelihood: m.logLik[i],
		}
	}
	data, err := yaml.Marshal(&a)
	if err != nil {
		return fmt.Errorf("marshaling classifier: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a model written by Save. Every failure wraps ErrArtifact.
func Load(path string) (*Model, error) {
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
	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("%w: %s has no classes", ErrArtifact, path)
	}

	m := &Model{
		classes:  make([]string, len(a.Classes)),
		logPrior: make([]float64, len(a.Classes)),
		docs:     make([]int, len(a.Classes)),
		terms:    a.Terms,
		logLik:   make([][]float64, len(a.Classes)),
	}
	for i, c := range a.Classes {
		if c.Label == "" || len(c.LogLikelihood) != len(a.Terms) {
			return nil, fmt.Errorf("%w: %s class %d is malformed", ErrArtifact, path, i)
		}
		m.classes[i] = c.Label
		m.docs[i] = c.Docs
		m.logPrior[i] = c.LogPrior
		m.logLik[i] = c.LogLikelihood
	}
	m.index()
	return m, nil
}
