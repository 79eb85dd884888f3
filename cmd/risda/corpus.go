// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/risda/internal/classify"
	"github.com/pdiddy/risda/internal/corpus"
	"github.com/pdiddy/risda/internal/engine"
	"github.com/pdiddy/risda/internal/httputil"
	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/pkg/types"
)

const fetchTimeout = 60 * time.Second

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load a research CSV into the corpus",
	Long: `Import appends the rows of a research CSV to the corpus database. The
file needs the columns judul, sinopsis and label; rows missing any of the
three are dropped. Use --url to download the CSV instead of reading a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	url, _ := cmd.Flags().GetString("url")

	var src io.ReadCloser
	switch {
	case url != "":
		client := &http.Client{Timeout: fetchTimeout}
		body, err := httputil.Fetch(ctx, client, url)
		if err != nil {
			return err
		}
		src = body
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		src = f
	default:
		return fmt.Errorf("provide a CSV file or --url")
	}
	defer src.Close()

	store, err := corpus.Open(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Import(ctx, src, os.Stdout); err != nil {
		return err
	}
	return nil
}

// --- train ---

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the vector space and category classifier from the corpus",
	Long: `Train fits the TF-IDF vector space over every record's title and
synopsis and trains the category classifier on each record's first label.
Both artifacts are written to the paths in the model configuration.`,
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	store, err := corpus.Open(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := train(cmd.Context(), store, cfg.Model)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "records: %d, terms: %d, classes: %d\n", summary.records, summary.terms, len(summary.classes))
	fmt.Fprintf(os.Stdout, "vectorizer: %s\nclassifier: %s\n", cfg.Model.VectorizerPath, cfg.Model.ClassifierPath)
	return nil
}

type trainSummary struct {
	records int
	terms   int
	classes []string
}

func train(ctx context.Context, src engine.Source, mc types.ModelConfig) (trainSummary, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return trainSummary{}, err
	}
	if len(records) == 0 {
		return trainSummary{}, fmt.Errorf("corpus is empty: run risda import first")
	}

	space := engine.FitSpace(records)
	if err := space.Save(mc.VectorizerPath); err != nil {
		return trainSummary{}, err
	}

	examples := make([]classify.Example, 0, len(records))
	for _, r := range records {
		if len(r.Labels) == 0 {
			continue
		}
		examples = append(examples, classify.Example{
			Text:  types.ClassifierText(r.Title, r.Synopsis),
			Label: r.Labels[0],
		})
	}
	model, err := classify.Train(examples)
	if err != nil {
		return trainSummary{}, err
	}
	if err := model.Save(mc.ClassifierPath); err != nil {
		return trainSummary{}, err
	}

	logging.Info().Int("records", len(records)).Int("terms", space.Dim()).Msg("models trained")
	return trainSummary{records: len(records), terms: space.Dim(), classes: model.Classes()}, nil
}

// --- labels ---

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the labels used in the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := corpus.Open(cfg.Corpus)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		lists := make([][]string, len(records))
		for i, r := range records {
			lists[i] = r.Labels
		}
		distinct := labels.Distinct(lists...)

		if jsonFlag(cmd) {
			cats := make([]labels.Category, len(distinct))
			for i, l := range distinct {
				cats[i], _ = labels.Lookup(l)
			}
			return printJSON(os.Stdout, cats)
		}
		for _, l := range distinct {
			fmt.Fprintln(os.Stdout, labels.Display(l))
		}
		return nil
	},
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus to YAML, JSON or CSV",
	Long: `Export writes every record to data/export.yaml or data/export.json, or
prints the corpus as CSV in the import column layout.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := corpus.Open(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(ctx, out)
	case "json":
		path, err = store.ExportJSON(ctx, out)
	case "csv":
		return exportCSV(ctx, store, out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json or csv", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func exportCSV(ctx context.Context, store *corpus.Store, out string) error {
	if out == "" {
		return store.WriteCSV(ctx, os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := store.WriteCSV(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Exported to", out)
	return nil
}

func init() {
	importCmd.Flags().String("url", "", "download the CSV from this URL")

	labelsCmd.Flags().Bool("json", false, "output labels with emoji and color as JSON")

	exportCmd.Flags().String("format", "yaml", "export format: yaml, json or csv")
	exportCmd.Flags().String("out", "", "output path (default: data dir export file, stdout for csv)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(exportCmd)
}
