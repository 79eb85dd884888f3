package corpus

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/risda/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CorpusConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(title, synopsis string, year int, lbls ...string) types.Record {
	return types.Record{
		Title:       title,
		Synopsis:    synopsis,
		Researcher:  "Siti Aminah",
		Affiliation: "Universitas Contoh",
		Region:      "Semarang",
		Year:        year,
		Labels:      lbls,
	}
}

const corpusCSV = `judul,sinopsis,label,tahun,nama,afiliasi,daerah,email,link
Sistem Peringatan Banjir,Sensor debit sungai untuk banjir,['Banjir'],2023,Ani,UNDIP,Semarang,ani@example.com,
Bank Sampah Digital,Aplikasi pengelolaan sampah,"['Sampah', 'Lingkungan']",2021.0,Budi,ITB,Bandung,,https://example.com/bank
,Tanpa judul,['Umum'],2020,Cici,UI,Depok,,
Tanpa Label,Sinopsis ada,,2022,Dedi,UGM,Sleman,,
Label Rusak,Sinopsis rusak,['Banjir',2019,Eka,ITS,Surabaya,,
`

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := Open(types.CorpusConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
	assert.Equal(t, dir, s.DataDir())
}

func TestImportDropsIncompleteRows(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var out bytes.Buffer
	summary, err := s.Import(ctx, strings.NewReader(corpusCSV), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 2, summary.Dropped)
	assert.Contains(t, out.String(), "imported: 3, dropped: 2")

	recs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "Sistem Peringatan Banjir", recs[0].Title)
	assert.Equal(t, []string{"Banjir"}, recs[0].Labels)
	assert.Equal(t, 2023, recs[0].Year)

	assert.Equal(t, []string{"Sampah", "Lingkungan"}, recs[1].Labels)
	assert.Equal(t, 2021, recs[1].Year, "float years are accepted")
	assert.Equal(t, "https://example.com/bank", recs[1].Link)

	// Malformed label text degrades to a single raw label.
	assert.Equal(t, []string{"['Banjir"}, recs[2].Labels)
}

func TestImportMissingColumns(t *testing.T) {
	s := testStore(t)
	_, err := s.Import(context.Background(), strings.NewReader("judul,tahun\nA,2020\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.ErrorContains(t, err, "sinopsis")

	_, err = s.Import(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadCSVHeaderNormalization(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("\ufeffJudul , SINOPSIS\nA,B\nC\n"), ColTitle, ColSynopsis)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Get(ColTitle))
	assert.Equal(t, "B", rows[0].Get(ColSynopsis))
	assert.Equal(t, "", rows[1].Get(ColSynopsis), "short rows leave columns empty")
}

func TestRowYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2023", 2023},
		{"2023.0", 2023},
		{" 2019 ", 2019},
		{"", 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Row{ColYear: tt.in}.Year(), tt.in)
	}
}

func TestAppendLoadPreservesOrderAndMergedText(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	added, err := s.Append(ctx,
		sampleRecord("Banjir Rob", "Tanggul pantai", 2020, "Banjir"),
		sampleRecord("Kompos Pasar", "Sampah organik", 2022, "Sampah"),
	)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Less(t, added[0].ID, added[1].ID)

	recs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Banjir Rob Banjir Rob Banjir Rob Tanggul pantai", recs[0].MergedText)
	assert.Equal(t, "Kompos Pasar", recs[1].Title)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadSkipsRecordsWithoutLabels(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx,
		sampleRecord("Tanpa Label", "Sinopsis", 2020),
		sampleRecord("Ada Label", "Sinopsis", 2020, "Umum"),
	)
	require.NoError(t, err)

	recs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Ada Label", recs[0].Title)
}

func TestUpdateAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	added, err := s.Append(ctx, sampleRecord("Lama", "Sinopsis lama", 2020, "Umum"))
	require.NoError(t, err)

	rec := added[0]
	rec.Title = "Baru"
	rec.Synopsis = "Sinopsis baru"
	rec.Labels = []string{"Energi"}
	rec.RawLabels = ""
	updated, err := s.Update(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "Baru Baru Baru Sinopsis baru", updated.MergedText)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Baru", got.Title)
	assert.Equal(t, []string{"Energi"}, got.Labels)
	assert.Equal(t, updated.MergedText, got.MergedText)

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	rec.ID = 999
	_, err = s.Update(ctx, rec)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndRestore(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	added, err := s.Append(ctx,
		sampleRecord("Satu", "Pertama", 2020, "Umum"),
		sampleRecord("Dua", "Kedua", 2021, "Banjir"),
	)
	require.NoError(t, err)

	trashed, err := s.Delete(ctx, added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Satu", trashed.Record.Title)
	assert.WithinDuration(t, time.Now(), trashed.DeletedAt, time.Minute)

	recs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dua", recs[0].Title)

	trash, err := s.Trash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, trashed.TrashID, trash[0].TrashID)
	assert.Equal(t, added[0].ID, trash[0].Record.ID)

	restored, err := s.Restore(ctx, trashed.TrashID)
	require.NoError(t, err)
	assert.Equal(t, "Satu", restored.Title)
	assert.Greater(t, restored.ID, added[1].ID, "restored records are appended")

	recs, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Satu", recs[1].Title)

	trash, err = s.Trash(ctx)
	require.NoError(t, err)
	assert.Empty(t, trash)

	_, err = s.Delete(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Restore(ctx, trashed.TrashID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmissions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, owner := range []string{"ani", "budi", "ani"} {
		require.NoError(t, s.AppendSubmission(ctx, types.Submission{
			ID:        owner + string(rune('0'+i)),
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Title:     "Masalah",
			Owner:     owner,
		}))
	}

	all, err := s.Submissions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := s.Submissions(ctx, "ani")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "ani0", mine[0].ID)
	assert.Equal(t, "ani2", mine[1].ID)
	assert.True(t, mine[0].Timestamp.Equal(now))
}

func TestSavedResults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved := []types.SavedRecommendation{{
		ID:      "s1",
		Owner:   "ani",
		SavedAt: time.Now(),
		Result: types.ScoredRecord{
			Record: sampleRecord("Banjir Rob", "Tanggul", 2020, "Banjir"),
			Score:  0.42,
			Scored: true,
		},
	}}
	require.NoError(t, s.AppendSaved(ctx, saved))

	got, err := s.Saved(ctx, "ani")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Banjir Rob", got[0].Result.Title)
	assert.Equal(t, []string{"Banjir"}, got[0].Result.Labels)
	assert.InDelta(t, 0.42, got[0].Result.Score, 1e-9)

	other, err := s.Saved(ctx, "budi")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestExports(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, sampleRecord("Banjir Rob", "Tanggul", 2020, "Banjir", "Perubahan Iklim"))
	require.NoError(t, err)

	yamlPath, err := s.ExportYAML(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.DataDir(), "export.yaml"), yamlPath)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []ExportEntry
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, []string{"Banjir", "Perubahan Iklim"}, fromYAML[0].Labels)

	jsonPath, err := s.ExportJSON(ctx, filepath.Join(t.TempDir(), "out", "corpus.json"))
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []ExportEntry
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, fromYAML, fromJSON)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src := testStore(t)
	ctx := context.Background()

	_, err := src.Import(ctx, strings.NewReader(corpusCSV), &bytes.Buffer{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.WriteCSV(ctx, &buf))

	dst := testStore(t)
	summary, err := dst.Import(ctx, &buf, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Imported)

	want, err := src.Load(ctx)
	require.NoError(t, err)
	got, err := dst.Load(ctx)
	require.NoError(t, err)
	for i := range want {
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.Equal(t, want[i].Labels, got[i].Labels)
		assert.Equal(t, want[i].Year, got[i].Year)
	}
}
