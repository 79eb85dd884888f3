// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the corpus by keyword and similarity",
	Long: `Search ranks the corpus against the query, adds plain keyword matches,
filters by label and sorts by year. Without a query the whole corpus is
listed. Results are paginated.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := types.SearchOptions{Query: strings.Join(args, " ")}
	opts.Labels, _ = cmd.Flags().GetStringSlice("label")
	sort, _ := cmd.Flags().GetString("sort")
	opts.Sort = types.SortOrder(sort)
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Page, _ = cmd.Flags().GetInt("page")
	opts.PageSize, _ = cmd.Flags().GetInt("page-size")
	opts.MinScore, _ = cmd.Flags().GetFloat64("min-score")

	a, err := openApp(ctx, appNeeds{engine: true})
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.engine.Search(ctx, opts)
	if err != nil {
		return err
	}
	if jsonFlag(cmd) {
		return printJSON(os.Stdout, page)
	}
	if page.Total == 0 {
		fmt.Fprintln(os.Stdout, "No records found.")
		return nil
	}
	printRecords(page.Results)
	fmt.Fprintf(os.Stdout, "\npage %d of %d, %d results\n", page.Page, page.Pages, page.Total)
	return nil
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <text...>",
	Short: "Rank the corpus by similarity to a problem description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		top, _ := cmd.Flags().GetInt("top")

		a, err := openApp(ctx, appNeeds{engine: true})
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.engine.Recommend(ctx, strings.Join(args, " "), top)
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, results)
		}
		printRecords(results)
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Predict the category label of a research title and synopsis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := cmd.Flags().GetString("synopsis")

		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		label, err := a.records.Classify(args[0], body)
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			c, _ := labels.Lookup(label)
			return printJSON(os.Stdout, c)
		}
		fmt.Fprintln(os.Stdout, labels.Display(label))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSlice("label", nil, "keep records with any of these labels")
	searchCmd.Flags().String("sort", "", "order: newest, oldest or relevance (default from config)")
	searchCmd.Flags().Int("limit", 0, "cap on results before pagination (0 = no cap)")
	searchCmd.Flags().Int("page", 1, "page number")
	searchCmd.Flags().Int("page-size", 0, "results per page (0 = use default)")
	searchCmd.Flags().Float64("min-score", 0, "drop similarity hits below this score")
	searchCmd.Flags().Bool("json", false, "output the page as JSON")

	recommendCmd.Flags().Int("top", 10, "number of recommendations")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")

	classifyCmd.Flags().String("synopsis", "", "research synopsis")
	classifyCmd.Flags().Bool("json", false, "output the label as JSON")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(classifyCmd)
}
