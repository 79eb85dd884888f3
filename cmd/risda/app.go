// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pdiddy/risda/internal/classify"
	"github.com/pdiddy/risda/internal/corpus"
	"github.com/pdiddy/risda/internal/engine"
	"github.com/pdiddy/risda/internal/ingest"
	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/internal/problem"
	"github.com/pdiddy/risda/pkg/types"
)

// app holds the services a command needs. Fields a command does not ask
// for stay nil.
type app struct {
	store    *corpus.Store
	engine   *engine.Engine
	model    *classify.Model
	records  *ingest.Service
	problems *problem.Service
}

type appNeeds struct {
	engine     bool
	classifier bool
}

// openApp opens the store and, on request, the search engine and the
// classifier. Missing or corrupt model artifacts are returned as errors.
func openApp(ctx context.Context, needs appNeeds) (*app, error) {
	store, err := corpus.Open(cfg.Corpus)
	if err != nil {
		return nil, err
	}
	a := &app{store: store}

	if needs.engine {
		space, err := engine.OpenSpace(ctx, store, cfg.Model)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("%w (run risda train first)", err)
		}
		a.engine, err = engine.New(ctx, store, space, cfg.Search)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.problems = problem.NewService(a.engine, store, cfg.Problem)
	}

	if needs.classifier {
		a.model, err = classify.Load(cfg.Model.ClassifierPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("%w (run risda train first)", err)
		}
		var index ingest.Indexer
		if a.engine != nil {
			index = a.engine
		}
		a.records = ingest.NewService(store, a.model, index, cfg.Ingest)
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func jsonFlag(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printRecords(results []types.ScoredRecord) {
	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-50s  %-4s  %-25s  %s\n", "#", "Score", "Title", "Year", "Labels", "Researcher")
	for i, r := range results {
		score := "-"
		if r.Scored {
			score = fmt.Sprintf("%.3f", r.Score)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6s  %-50s  %-4d  %-25s  %s\n",
			i+1, score, truncate(r.Title, 50), r.Year, truncate(strings.Join(r.Labels, ", "), 25), r.Researcher)
	}
}

func joinLabelsDisplay(list []string) string {
	shown := make([]string, len(list))
	for i, l := range list {
		shown[i] = labels.Display(l)
	}
	return strings.Join(shown, ", ")
}
