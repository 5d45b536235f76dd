package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"eos-mcp/internal/storage"
)

func newReportsCmd() *cobra.Command {
	var path string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Print archived insights reports",
		Long:  `Reads the JSON-lines archive written by eos-mcp-server when INSIGHTS_REPORT_PATH is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := storage.OpenFileRecorder(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "No archived reports at %s.\n", path)
				return nil
			}
			if err != nil {
				return err
			}
			return runReports(cmd, rec, limit, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "insights-reports.jsonl", "Report archive path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Show only the most recent N reports (0 = all)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output raw report JSON")
	return cmd
}

func runReports(cmd *cobra.Command, rec storage.Recorder, limit int, jsonOutput bool) error {
	records, err := rec.LoadReports()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived reports.")
		return nil
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	out := cmd.OutOrStdout()
	for _, r := range records {
		fmt.Fprintf(out, "== %s  %s\n", r.RecordedAt.Format("2006-01-02 15:04:05 MST"), r.ID)
		if r.Report == nil {
			continue
		}
		if jsonOutput {
			data, err := r.Report.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, data)
			continue
		}
		fmt.Fprintf(out, "window %d min, %d messages, %d actions, %d errors\n",
			r.Report.TimeWindowMinutes, r.Report.TotalFeedbackMessages, r.Report.TotalActions, r.Report.ErrorCount)
		for _, line := range r.Report.Recommendations {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}
	return nil
}
