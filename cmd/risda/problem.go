// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/risda/pkg/types"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Submit regional problems and keep recommended research",
	Long: `Problem submits a regional problem description, lists the research most
similar to it and keeps each owner's submissions and saved recommendations.`,
}

var problemSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a problem and list recommended research",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req types.ProblemRequest
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.SubmitterName, _ = cmd.Flags().GetString("name")
		req.Institution, _ = cmd.Flags().GetString("institution")
		req.Title, _ = cmd.Flags().GetString("title")
		req.Description, _ = cmd.Flags().GetString("description")

		a, err := openApp(cmd.Context(), appNeeds{engine: true})
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.problems.Submit(cmd.Context(), req)
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, res)
		}
		fmt.Fprintf(os.Stdout, "Submission %s\n\n", res.Submission.ID)
		if len(res.Recommendations) == 0 {
			fmt.Fprintln(os.Stdout, "No matching research found.")
			return nil
		}
		printRecords(res.Recommendations)
		return nil
	},
}

var problemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's submissions, or every submission with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		all, _ := cmd.Flags().GetBool("all")

		a, err := openApp(cmd.Context(), appNeeds{engine: true})
		if err != nil {
			return err
		}
		defer a.Close()

		var subs []types.Submission
		if all {
			subs, err = a.problems.AllSubmissions(cmd.Context())
		} else {
			subs, err = a.problems.Submissions(cmd.Context(), owner)
		}
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, subs)
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-12s  %s\n", "ID", "Submitted", "Owner", "Title")
		for _, s := range subs {
			fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-12s  %s\n",
				s.ID, s.Timestamp.Local().Format("2006-01-02 15:04"), truncate(s.Owner, 12), truncate(s.Title, 50))
		}
		fmt.Fprintf(os.Stdout, "\n%d submissions\n", len(subs))
		return nil
	},
}

var problemSaveCmd = &cobra.Command{
	Use:   "save <record-id...>",
	Short: "Save records as recommendations for an owner",
	Long: `Save stores the given records in the owner's saved recommendations.
With --problem the records are scored against that problem text; otherwise
they are saved unscored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		owner, _ := cmd.Flags().GetString("owner")
		text, _ := cmd.Flags().GetString("problem")

		a, err := openApp(ctx, appNeeds{engine: true})
		if err != nil {
			return err
		}
		defer a.Close()

		scores := map[int64]float64{}
		if text != "" {
			ranked, err := a.engine.Recommend(ctx, text, a.engine.Snapshot().Len())
			if err != nil {
				return err
			}
			for _, r := range ranked {
				scores[r.ID] = r.Score
			}
		}

		results := make([]types.ScoredRecord, 0, len(args))
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			rec, err := a.store.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("record %d: %w", id, err)
			}
			score, scored := scores[id]
			results = append(results, types.ScoredRecord{Record: rec, Score: score, Scored: scored})
		}

		saved, err := a.problems.Save(ctx, owner, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved %d recommendations for %s\n", len(saved), owner)
		return nil
	},
}

var problemSavedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List an owner's saved recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")

		a, err := openApp(cmd.Context(), appNeeds{engine: true})
		if err != nil {
			return err
		}
		defer a.Close()

		saved, err := a.problems.Saved(cmd.Context(), owner)
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, saved)
		}
		results := make([]types.ScoredRecord, len(saved))
		for i, s := range saved {
			results[i] = s.Result
		}
		printRecords(results)
		return nil
	},
}

var problemDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize an owner's submissions and saved labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")

		a, err := openApp(cmd.Context(), appNeeds{engine: true})
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.problems.Dashboard(cmd.Context(), owner)
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, d)
		}
		fmt.Fprintf(os.Stdout, "submissions: %d\nsaved: %d\nlabels: %d\n\n", d.Submissions, d.Saved, d.UniqueLabels)
		for _, lc := range d.LabelCounts {
			fmt.Fprintf(os.Stdout, "  %-30s  %d\n", joinLabelsDisplay([]string{lc.Label}), lc.Count)
		}
		return nil
	},
}

func init() {
	problemCmd.PersistentFlags().String("owner", os.Getenv("USER"), "owner of the submissions")
	problemCmd.PersistentFlags().Bool("json", false, "output as JSON")

	problemSubmitCmd.Flags().String("name", "", "submitter name")
	problemSubmitCmd.Flags().String("institution", "", "submitter institution")
	problemSubmitCmd.Flags().String("title", "", "problem title")
	problemSubmitCmd.Flags().String("description", "", "problem description")

	problemListCmd.Flags().Bool("all", false, "list every owner's submissions")

	problemSaveCmd.Flags().String("problem", "", "problem text used to score the saved records")

	problemCmd.AddCommand(problemSubmitCmd)
	problemCmd.AddCommand(problemListCmd)
	problemCmd.AddCommand(problemSaveCmd)
	problemCmd.AddCommand(problemSavedCmd)
	problemCmd.AddCommand(problemDashboardCmd)

	rootCmd.AddCommand(problemCmd)
}
