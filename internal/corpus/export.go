// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/pkg/types"
)

// ExportEntry holds one record in export files.
type ExportEntry struct {
	ID          int64    `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Synopsis    string   `json:"synopsis" yaml:"synopsis"`
	Researcher  string   `json:"researcher" yaml:"researcher"`
	Email       string   `json:"email,omitempty" yaml:"email,omitempty"`
	Affiliation string   `json:"affiliation" yaml:"affiliation"`
	Region      string   `json:"region" yaml:"region"`
	Year        int      `json:"year" yaml:"year"`
	Labels      []string `json:"labels" yaml:"labels"`
	Link        string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// ExportYAML writes the usable corpus to path, or dataDir/export.yaml when
// path is empty. It returns the path written.
func (s *Store) ExportYAML(ctx context.Context, path string) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(path, "export.yaml", data)
}

// ExportJSON writes the usable corpus to path, or dataDir/export.json when
// path is empty. It returns the path written.
func (s *Store) ExportJSON(ctx context.Context, path string) (string, error) {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(path, "export.json", data)
}

// WriteCSV writes the usable corpus in the import column layout.
func (s *Store) WriteCSV(ctx context.Context, w io.Writer) error {
	records, err := s.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading records for export: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{ColTitle, ColSynopsis, ColLabel, ColYear, ColResearcher,
		ColAffiliation, ColRegion, ColEmail, ColLink}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{
			r.Title, r.Synopsis, labels.Format(r.Labels), strconv.Itoa(r.Year),
			r.Researcher, r.Affiliation, r.Region, r.Email, r.Link,
		}); err != nil {
			return fmt.Errorf("writing csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records for export: %w", err)
	}

	entries := make([]ExportEntry, len(records))
	for i, r := range records {
		entries[i] = entryFor(r)
	}
	return entries, nil
}

func entryFor(r types.Record) ExportEntry {
	return ExportEntry{
		ID:          r.ID,
		Title:       r.Title,
		Synopsis:    r.Synopsis,
		Researcher:  r.Researcher,
		Email:       r.Email,
		Affiliation: r.Affiliation,
		Region:      r.Region,
		Year:        r.Year,
		Labels:      r.Labels,
		Link:        r.Link,
	}
}

func (s *Store) writeExport(path, name string, data []byte) (string, error) {
	if path == "" {
		path = filepath.Join(s.dataDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
