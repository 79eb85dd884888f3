package problem

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/risda/internal/corpus"
	"github.com/pdiddy/risda/internal/validation"
	"github.com/pdiddy/risda/pkg/types"
)

// fixedRecommender returns its results regardless of the query, recording
// the last text and topN it saw.
type fixedRecommender struct {
	results  []types.ScoredRecord
	lastText string
	lastTopN int
}

func (f *fixedRecommender) Recommend(_ context.Context, text string, topN int) ([]types.ScoredRecord, error) {
	f.lastText, f.lastTopN = text, topN
	if topN > 0 && topN < len(f.results) {
		return f.results[:topN], nil
	}
	return f.results, nil
}

func scored(title, synopsis, link string, score float64, lbls ...string) types.ScoredRecord {
	return types.ScoredRecord{
		Record: types.Record{Title: title, Synopsis: synopsis, Link: link, Labels: lbls, Year: 2023},
		Score:  score,
		Scored: true,
	}
}

func testService(t *testing.T, rec Recommender, cfg types.ProblemConfig) (*Service, *corpus.Store) {
	t.Helper()
	store, err := corpus.Open(types.CorpusConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(rec, store, cfg), store
}

func TestSubmitDeduplicatesAndKeeps(t *testing.T) {
	var results []types.ScoredRecord
	results = append(results,
		scored("A", "sa", "https://a", 0.9, "Banjir"),
		scored("A", "sa", "https://a", 0.9, "Banjir"),
		scored("A", "sa", "https://other", 0.8, "Banjir"),
	)
	for i := range 30 {
		results = append(results, scored(fmt.Sprintf("R%02d", i), "s", "", 0.5, "Umum"))
	}
	rec := &fixedRecommender{results: results}
	svc, _ := testService(t, rec, types.ProblemConfig{})

	res, err := svc.Submit(context.Background(), types.ProblemRequest{
		Owner:       "ani",
		Title:       "Banjir rob",
		Description: "Air laut masuk ke permukiman",
	})
	require.NoError(t, err)

	assert.Equal(t, "Banjir rob. Air laut masuk ke permukiman", rec.lastText)
	assert.Equal(t, 50, rec.lastTopN)
	require.Len(t, res.Recommendations, 20)
	assert.Equal(t, "https://a", res.Recommendations[0].Link)
	assert.Equal(t, "https://other", res.Recommendations[1].Link, "same title and synopsis with a different link is kept")
	assert.Equal(t, "R00", res.Recommendations[2].Title)

	_, err = uuid.Parse(res.Submission.ID)
	assert.NoError(t, err)
	assert.Equal(t, "ani", res.Submission.Owner)
}

func TestSubmitQueryText(t *testing.T) {
	tests := []struct {
		name        string
		title, desc string
		want        string
	}{
		{"both", "Judul", "Deskripsi", "Judul. Deskripsi"},
		{"title only", "Judul", " ", "Judul"},
		{"description only", "", "Deskripsi", "Deskripsi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fixedRecommender{}
			svc, _ := testService(t, rec, types.ProblemConfig{})
			_, err := svc.Submit(context.Background(), types.ProblemRequest{Owner: "ani", Title: tt.title, Description: tt.desc})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.lastText)
		})
	}
}

func TestSubmitErrors(t *testing.T) {
	svc, store := testService(t, &fixedRecommender{}, types.ProblemConfig{})
	ctx := context.Background()

	_, err := svc.Submit(ctx, types.ProblemRequest{Owner: "ani"})
	assert.ErrorIs(t, err, ErrEmptyProblem)

	_, err = svc.Submit(ctx, types.ProblemRequest{Title: "Banjir"})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)

	subs, err := store.Submissions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmissionsVisibility(t *testing.T) {
	svc, _ := testService(t, &fixedRecommender{}, types.ProblemConfig{})
	ctx := context.Background()

	for _, owner := range []string{"ani", "budi", "ani"} {
		_, err := svc.Submit(ctx, types.ProblemRequest{Owner: owner, Title: "Masalah " + owner})
		require.NoError(t, err)
	}

	mine, err := svc.Submissions(ctx, "ani")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	adminNamed, err := svc.Submissions(ctx, "admin")
	require.NoError(t, err)
	assert.Empty(t, adminNamed, "an owner named admin sees only its own rows")

	all, err := svc.AllSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.Submissions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecommendationsRecomputeWithoutStoring(t *testing.T) {
	rec := &fixedRecommender{results: []types.ScoredRecord{
		scored("A", "a", "", 0.9, "Banjir"),
		scored("B", "b", "", 0.5, "Sampah"),
	}}
	svc, store := testService(t, rec, types.ProblemConfig{})
	ctx := context.Background()

	res, err := svc.Submit(ctx, types.ProblemRequest{Owner: "ani", Title: "Banjir", Description: "sungai meluap"})
	require.NoError(t, err)

	got, err := svc.Recommendations(ctx, "ani", res.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Recommendations, got)
	assert.Equal(t, "Banjir. sungai meluap", rec.lastText)

	_, err = svc.Recommendations(ctx, "budi", res.Submission.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Recommendations(ctx, "ani", uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	subs, err := store.Submissions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSaveAndDashboard(t *testing.T) {
	svc, _ := testService(t, &fixedRecommender{}, types.ProblemConfig{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := svc.Submit(ctx, types.ProblemRequest{Owner: "ani", Title: "Banjir"})
	require.NoError(t, err)

	saved, err := svc.Save(ctx, "ani", []types.ScoredRecord{
		scored("A", "sa", "", 0.9, "Banjir", "Perubahan Iklim"),
		scored("B", "sb", "", 0.7, "Sampah"),
		scored("C", "sc", "", 0.5, "Banjir"),
	})
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.True(t, saved[0].SavedAt.Equal(svc.now()))

	_, err = svc.Save(ctx, "budi", []types.ScoredRecord{scored("D", "sd", "", 0.4, "Energi")})
	require.NoError(t, err)

	got, err := svc.Saved(ctx, "ani")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Result.Title)

	dash, err := svc.Dashboard(ctx, "ani")
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Submissions)
	assert.Equal(t, 3, dash.Saved)
	assert.Equal(t, 3, dash.UniqueLabels)
	assert.Equal(t, []types.LabelCount{
		{Label: "Banjir", Count: 2},
		{Label: "Perubahan Iklim", Count: 1},
		{Label: "Sampah", Count: 1},
	}, dash.LabelCounts)

	_, err = svc.Save(ctx, "", nil)
	assert.Error(t, err)
}
