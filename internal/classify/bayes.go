// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns a category label to research text with a
// multinomial Naive Bayes model trained offline on the labeled corpus.
package classify

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/risda/internal/textvec"
)

var (
	// ErrEmptyText is returned by Predict for blank input.
	ErrEmptyText = errors.New("text to classify is empty")
	// ErrNotTrained is returned when the model has no classes.
	ErrNotTrained = errors.New("classifier is not trained")
	// ErrNoExamples is returned by Train when nothing usable was given.
	ErrNoExamples = errors.New("no labeled examples to train on")
)

// smoothing is the Laplace (add-one) pseudo-count.
const smoothing = 1.0

// Example is one labeled training text.
type Example struct {
	Text  string
	Label string
}

// Model is a trained multinomial Naive Bayes classifier. It is read-only
// after training and safe for concurrent Predict calls.
type Model struct {
	classes  []string
	logPrior []float64
	docs     []int
	vocab    map[string]int
	terms    []string
	// logLik[c][t] is log P(term t | class c).
	logLik [][]float64
}

// Train fits a model. Examples with blank text or label are skipped.
func Train(examples []Example) (*Model, error) {
	classDocs := make(map[string]int)
	classCounts := make(map[string]map[string]float64)
	vocabSet := make(map[string]bool)
	total := 0

	for _, ex := range examples {
		label := strings.TrimSpace(ex.Label)
		toks := textvec.Tokenize(ex.Text)
		if label == "" || len(toks) == 0 {
			continue
		}
		total++
		classDocs[label]++
		counts, ok := classCounts[label]
		if !ok {
			counts = make(map[string]float64)
			classCounts[label] = counts
		}
		for _, tok := range toks {
			counts[tok]++
			vocabSet[tok] = true
		}
	}
	if total == 0 {
		return nil, ErrNoExamples
	}

	classes := make([]string, 0, len(classDocs))
	for c := range classDocs {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	terms := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	m := &Model{
		classes:  classes,
		logPrior: make([]float64, len(classes)),
		docs:     make([]int, len(classes)),
		terms:    terms,
		logLik:   make([][]float64, len(classes)),
	}
	m.index()

	v := float64(len(terms))
	for ci, c := range classes {
		m.docs[ci] = classDocs[c]
		m.logPrior[ci] = math.Log(float64(classDocs[c]) / float64(total))

		var classTotal float64
		for _, n := range classCounts[c] {
			classTotal += n
		}
		row := make([]float64, len(terms))
		denom := classTotal + smoothing*v
		for ti, t := range terms {
			row[ti] = math.Log((classCounts[c][t] + smoothing) / denom)
		}
		m.logLik[ci] = row
	}
	return m, nil
}

func (m *Model) index() {
	m.vocab = make(map[string]int, len(m.terms))
	for i, t := range m.terms {
		m.vocab[t] = i
	}
}

// Classes returns the known labels in sorted order.
func (m *Model) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// Predict returns the most probable label for text. Text made only of
// terms unseen in training falls back to the class with the largest prior.
// Ties resolve to the alphabetically first label.
func (m *Model) Predict(text string) (string, error) {
	if m == nil || len(m.classes) == 0 {
		return "", ErrNotTrained
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	counts := m.termCounts(text)

	best, bestScore := 0, math.Inf(-1)
	for ci := range m.classes {
		score := m.logPrior[ci]
		for _, tc := range counts {
			score += tc.n * m.logLik[ci][tc.term]
		}
		if score > bestScore {
			best, bestScore = ci, score
		}
	}
	return m.classes[best], nil
}

type termCount struct {
	term int
	n    float64
}

// termCounts counts the in-vocabulary tokens of text, ordered by term index
// so class scores are summed in the same order on every call.
func (m *Model) termCounts(text string) []termCount {
	byTerm := make(map[int]float64)
	for _, tok := range textvec.Tokenize(text) {
		if i, ok := m.vocab[tok]; ok {
			byTerm[i]++
		}
	}
	out := make([]termCount, 0, len(byTerm))
	for i, n := range byTerm {
		out = append(out, termCount{term: i, n: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].term < out[b].term })
	return out
}

// String summarizes the model for logs.
func (m *Model) String() string {
	return fmt.Sprintf("naive-bayes(%d classes, %d terms)", len(m.classes), len(m.terms))
}
