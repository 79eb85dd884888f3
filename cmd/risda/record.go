// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/risda/internal/ingest"
	"github.com/pdiddy/risda/pkg/types"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Add, edit and remove corpus records",
	Long: `Record manages individual corpus records. Added and edited records are
labelled by the trained classifier. Deleted records move to the trash and
can be restored.`,
}

var recordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record and predict its label",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.records.Add(cmd.Context(), newRecordFromFlags(cmd))
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

var recordEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a record and predict its label again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.records.Edit(cmd.Context(), id, newRecordFromFlags(cmd))
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Move a record to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		trashed, err := a.records.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Moved %q to trash as %d\n", trashed.Record.Title, trashed.TrashID)
		return nil
	},
}

var recordRestoreCmd = &cobra.Command{
	Use:   "restore <trash-id>",
	Short: "Restore a record from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.records.Restore(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

var recordTrashCmd = &cobra.Command{
	Use:   "trash",
	Short: "List deleted records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		trash, err := a.records.Trash(cmd.Context())
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, trash)
		}
		if len(trash) == 0 {
			fmt.Fprintln(os.Stdout, "Trash is empty.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-6s  %-20s  %s\n", "ID", "Deleted", "Title")
		for _, t := range trash {
			fmt.Fprintf(os.Stdout, "%-6d  %-20s  %s\n", t.TrashID, t.DeletedAt.Local().Format(time.DateTime), truncate(t.Record.Title, 60))
		}
		return nil
	},
}

var recordUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Add every row of a CSV, predicting labels in parallel",
	Long: `Upload reads a CSV with the columns judul, sinopsis, nama, email,
afiliasi, daerah, tahun and link. Each row is validated and labelled by
the classifier; failed rows are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		a, err := openApp(cmd.Context(), appNeeds{classifier: true})
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.records.Upload(cmd.Context(), f)
		if err != nil {
			return err
		}
		if jsonFlag(cmd) {
			return printJSON(os.Stdout, summary)
		}
		printUploadSummary(summary)
		return nil
	},
}

func printUploadSummary(s ingest.UploadSummary) {
	for _, r := range s.Added {
		fmt.Fprintf(os.Stdout, "  added   %d  %s  [%s]\n", r.ID, truncate(r.Title, 60), joinLabelsDisplay(r.Labels))
	}
	for _, e := range s.Failed {
		fmt.Fprintf(os.Stdout, "  failed  row %d  %s: %s\n", e.Row, truncate(e.Title, 40), e.Error)
	}
	fmt.Fprintf(os.Stdout, "\nadded: %d, failed: %d, ignored: %d\n", len(s.Added), len(s.Failed), s.Ignored)
}

func newRecordFromFlags(cmd *cobra.Command) types.NewRecord {
	var in types.NewRecord
	in.Title, _ = cmd.Flags().GetString("title")
	in.Synopsis, _ = cmd.Flags().GetString("synopsis")
	in.Researcher, _ = cmd.Flags().GetString("researcher")
	in.Email, _ = cmd.Flags().GetString("email")
	in.Affiliation, _ = cmd.Flags().GetString("affiliation")
	in.Region, _ = cmd.Flags().GetString("region")
	in.Year, _ = cmd.Flags().GetInt("year")
	in.Link, _ = cmd.Flags().GetString("link")
	return in
}

func printRecord(cmd *cobra.Command, rec types.Record) error {
	if jsonFlag(cmd) {
		return printJSON(os.Stdout, rec)
	}
	fmt.Fprintf(os.Stdout, "%d  %s\n", rec.ID, rec.Title)
	fmt.Fprintf(os.Stdout, "    labels: %s\n", joinLabelsDisplay(rec.Labels))
	fmt.Fprintf(os.Stdout, "    %s, %s, %s (%d)\n", rec.Researcher, rec.Affiliation, rec.Region, rec.Year)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	for _, c := range []*cobra.Command{recordAddCmd, recordEditCmd} {
		c.Flags().String("title", "", "research title (judul)")
		c.Flags().String("synopsis", "", "research synopsis (sinopsis)")
		c.Flags().String("researcher", "", "researcher name (nama)")
		c.Flags().String("email", "", "researcher email")
		c.Flags().String("affiliation", "", "institution (afiliasi)")
		c.Flags().String("region", "", "region (daerah)")
		c.Flags().Int("year", time.Now().Year(), "publication year (tahun)")
		c.Flags().String("link", "", "link to the publication")
	}
	for _, c := range []*cobra.Command{recordAddCmd, recordEditCmd, recordRestoreCmd, recordTrashCmd, recordUploadCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}

	recordCmd.AddCommand(recordAddCmd)
	recordCmd.AddCommand(recordEditCmd)
	recordCmd.AddCommand(recordDeleteCmd)
	recordCmd.AddCommand(recordRestoreCmd)
	recordCmd.AddCommand(recordTrashCmd)
	recordCmd.AddCommand(recordUploadCmd)

	rootCmd.AddCommand(recordCmd)
}
