package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/risda/internal/classify"
	"github.com/pdiddy/risda/internal/textvec"
	"github.com/pdiddy/risda/pkg/types"
)

type memSource []types.Record

func (m memSource) Load(context.Context) ([]types.Record, error) {
	return m, nil
}

func rec(title, synopsis string, labels ...string) types.Record {
	r := types.Record{Title: title, Synopsis: synopsis, Labels: labels, Year: 2023}
	r.Remerge()
	return r
}

func TestTrainWritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	mc := types.ModelConfig{
		VectorizerPath: filepath.Join(dir, "models", "vectorizer.yaml"),
		ClassifierPath: filepath.Join(dir, "models", "classifier.yaml"),
	}
	src := memSource{
		rec("Sensor banjir sungai", "peringatan dini banjir dari tinggi muka air", "Banjir"),
		rec("Tanggul banjir", "tanggul untuk menahan banjir rob", "Banjir", "Infrastruktur"),
		rec("Pemilah sampah", "mesin pemilah sampah plastik otomatis", "Sampah"),
		rec("Tanpa label", "catatan tanpa kategori"),
	}

	summary, err := train(context.Background(), src, mc)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.records)
	assert.Equal(t, []string{"Banjir", "Sampah"}, summary.classes)

	space, err := textvec.Load(mc.VectorizerPath)
	require.NoError(t, err)
	assert.Equal(t, summary.terms, space.Dim())
	assert.True(t, space.Contains("banjir"))

	model, err := classify.Load(mc.ClassifierPath)
	require.NoError(t, err)
	label, err := model.Predict("banjir di sungai")
	require.NoError(t, err)
	assert.Equal(t, "Banjir", label)
}

func TestTrainEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	_, err := train(context.Background(), memSource{}, types.ModelConfig{
		VectorizerPath: filepath.Join(dir, "v.yaml"),
		ClassifierPath: filepath.Join(dir, "c.yaml"),
	})
	assert.ErrorContains(t, err, "corpus is empty")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer title", 10, "a much ..."},
		{"Pengelolaan air", 8, "Penge..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
