// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textvec fits a TF-IDF vector space over the corpus and
// transforms text into sparse, L2-normalized vectors in that space.
//
// A Space is fit once and then only read: Transform never changes it, so a
// single Space may serve concurrent queries.
package textvec

import (
	"math"
	"sort"
)

// Vector is a sparse vector with strictly increasing Indices.
type Vector struct {
	Indices []int     `yaml:"indices"`
	Values  []float64 `yaml:"values"`
}

// IsZero reports whether the vector has no non-zero component.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Space is a fitted vocabulary with smoothed inverse document frequencies.
type Space struct {
	index map[string]int
	terms []string
	idf   []float64
	docs  int
}

// Fit builds the vocabulary and IDF weights from the corpus texts.
// IDF uses smoothing: idf(t) = ln((1+n)/(1+df(t))) + 1.
func Fit(texts []string) *Space {
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(text) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(texts))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return newSpace(terms, idf, len(texts))
}

func newSpace(terms []string, idf []float64, docs int) *Space {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Space{index: index, terms: terms, idf: idf, docs: docs}
}

// Dim returns the number of dimensions (vocabulary size).
func (s *Space) Dim() int {
	return len(s.terms)
}

// Docs returns the number of documents the space was fit on.
func (s *Space) Docs() int {
	return s.docs
}

// Contains reports whether term is in the vocabulary.
func (s *Space) Contains(term string) bool {
	_, ok := s.index[term]
	return ok
}

// Transform maps text into the space: raw term counts weighted by IDF and
// L2-normalized. Terms outside the vocabulary are ignored, so text made
// only of unseen terms yields the zero vector.
func (s *Space) Transform(text string) Vector {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(text) {
		if i, ok := s.index[tok]; ok {
			counts[i]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		v.Indices = append(v.Indices, i)
	}
	sort.Ints(v.Indices)

	var sum float64
	for _, i := range v.Indices {
		w := counts[i] * s.idf[i]
		v.Values = append(v.Values, w)
		sum += w * w
	}
	norm := math.Sqrt(sum)
	for k := range v.Values {
		v.Values[k] /= norm
	}
	return v
}

// TransformAll transforms every text, preserving order.
func (s *Space) TransformAll(texts []string) []Vector {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = s.Transform(t)
	}
	return out
}
