// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores a query vector against a document matrix.
package similarity

import (
	"math"
	"sort"

	"github.com/pdiddy/risda/internal/textvec"
)

// Score is the similarity of one matrix row to the query.
type Score struct {
	Index int
	Value float64
}

// Cosine returns dot(a, b) / (|a| |b|), or 0 when either norm is 0.
// Inputs are non-negative TF-IDF vectors, so the result is clamped to [0, 1]
// to absorb floating point drift. A NaN result scores 0.
func Cosine(a, b textvec.Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	c := a.Dot(b) / (na * nb)
	switch {
	case c < 0 || math.IsNaN(c):
		return 0
	case c > 1:
		return 1
	}
	return c
}

// ScoreAll scores every row of matrix against query, in matrix order.
func ScoreAll(query textvec.Vector, matrix []textvec.Vector) []Score {
	out := make([]Score, len(matrix))
	for i, doc := range matrix {
		out[i] = Score{Index: i, Value: Cosine(query, doc)}
	}
	return out
}

// Rank returns a copy of scores sorted by descending value. Ties keep
// their input order.
func Rank(scores []Score) []Score {
	ranked := make([]Score, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked
}
