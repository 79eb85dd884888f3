// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/risda/internal/textvec"
)

func TestCosine(t *testing.T) {
	a := textvec.Vector{Indices: []int{0, 1}, Values: []float64{3, 4}}
	b := textvec.Vector{Indices: []int{0, 1}, Values: []float64{6, 8}}
	c := textvec.Vector{Indices: []int{2}, Values: []float64{1}}

	assert.InDelta(t, 1.0, Cosine(a, b), 1e-12)
	assert.Equal(t, 0.0, Cosine(a, c))
	assert.Equal(t, 0.0, Cosine(a, textvec.Vector{}), "zero vector scores 0")
	assert.Equal(t, 0.0, Cosine(textvec.Vector{}, textvec.Vector{}))

	nan := textvec.Vector{Indices: []int{0}, Values: []float64{math.NaN()}}
	assert.Equal(t, 0.0, Cosine(a, nan), "NaN weights score 0")
}

func TestScoreAllScenario(t *testing.T) {
	docs := []string{
		"Flood Sensor Flood Sensor Flood Sensor IoT flood early warning",
		"Waste Sorter Waste Sorter Waste Sorter AI waste sorting",
		"Flood Barrier Flood Barrier Flood Barrier Mechanical flood barrier",
	}
	space := textvec.Fit(docs)
	matrix := space.TransformAll(docs)

	scores := ScoreAll(space.Transform("flood warning system"), matrix)
	require.Len(t, scores, 3)
	for i, s := range scores {
		assert.Equal(t, i, s.Index)
		assert.GreaterOrEqual(t, s.Value, 0.0)
		assert.LessOrEqual(t, s.Value, 1.0)
	}
	assert.Greater(t, scores[0].Value, scores[2].Value)
	assert.Greater(t, scores[2].Value, scores[1].Value)
	assert.Equal(t, 0.0, scores[1].Value)

	ranked := Rank(scores)
	assert.Equal(t, []int{0, 2, 1}, []int{ranked[0].Index, ranked[1].Index, ranked[2].Index})

	self := ScoreAll(space.Transform(docs[1]), matrix)
	assert.InDelta(t, 1.0, self[1].Value, 1e-9)
}

func TestRankStableOnTies(t *testing.T) {
	scores := []Score{{0, 0.5}, {1, 0.9}, {2, 0.5}, {3, 0.0}, {4, 0.5}}
	ranked := Rank(scores)

	got := make([]int, len(ranked))
	for i, s := range ranked {
		got[i] = s.Index
	}
	assert.Equal(t, []int{1, 0, 2, 4, 3}, got)
	assert.Equal(t, 0, scores[0].Index, "input is not reordered")
}
