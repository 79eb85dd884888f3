// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/risda/pkg/types"
)

var (
	// ErrMissingColumns is returned when a CSV header lacks required columns.
	ErrMissingColumns = errors.New("csv is missing required columns")
	// ErrMalformedCSV is returned when a CSV stream cannot be parsed.
	ErrMalformedCSV = errors.New("malformed csv")
)

// Corpus CSV column names.
const (
	ColTitle       = "judul"
	ColSynopsis    = "sinopsis"
	ColSummary     = "ringkasan"
	ColLabel       = "label"
	ColYear        = "tahun"
	ColResearcher  = "nama"
	ColAffiliation = "afiliasi"
	ColRegion      = "daerah"
	ColEmail       = "email"
	ColLink        = "link"
)

// Row is one CSV row keyed by lowercased header name.
type Row map[string]string

// Get returns the trimmed value of column name.
func (r Row) Get(name string) string {
	return strings.TrimSpace(r[name])
}

// Year parses the tahun column. Values written as floats ("2023.0") are
// accepted; anything unparseable is 0.
func (r Row) Year() int {
	v := r.Get(ColYear)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

// ReadCSV parses a headed CSV stream and checks that every required
// column is present.
func ReadCSV(r io.Reader, required ...string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("%w: reading header: %w", ErrMalformedCSV, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var missing []string
	for _, col := range required {
		found := false
		for _, h := range header {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row %d: %w", ErrMalformedCSV, len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, h := range header {
			if i < len(fields) {
				row[h] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportSummary holds counts from a corpus CSV import.
type ImportSummary struct {
	Imported int
	Dropped  int
}

// Import appends the rows of a corpus CSV to the store. Rows missing a
// title, synopsis or label are dropped. Label fields are stored verbatim.
func (s *Store) Import(ctx context.Context, r io.Reader, w io.Writer) (ImportSummary, error) {
	rows, err := ReadCSV(r, ColTitle, ColSynopsis, ColLabel)
	if err != nil {
		return ImportSummary{}, err
	}

	var (
		summary ImportSummary
		recs    []types.Record
	)
	for i, row := range rows {
		rec := types.Record{
			Title:       row.Get(ColTitle),
			Synopsis:    row.Get(ColSynopsis),
			Researcher:  row.Get(ColResearcher),
			Email:       row.Get(ColEmail),
			Affiliation: row.Get(ColAffiliation),
			Region:      row.Get(ColRegion),
			Year:        row.Year(),
			RawLabels:   row.Get(ColLabel),
			Link:        row.Get(ColLink),
		}
		if rec.Title == "" || rec.Synopsis == "" || rec.RawLabels == "" {
			fmt.Fprintf(w, "dropped row %d: missing title, synopsis or label\n", i+2)
			summary.Dropped++
			continue
		}
		recs = append(recs, rec)
	}

	if len(recs) > 0 {
		if _, err := s.Append(ctx, recs...); err != nil {
			return summary, err
		}
	}
	summary.Imported = len(recs)

	fmt.Fprintf(w, "\nimported: %d, dropped: %d\n", summary.Imported, summary.Dropped)
	return summary, nil
}
