package main

import (
	"bytes"
	"fmt"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/bundlestats/internal/bundle"
	"github.com/nao1215/bundlestats/internal/config"
	"github.com/nao1215/bundlestats/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded bundle sizes",
		Long: `History prints the runs recorded with --record-history as a markdown
table, newest first.

Examples:
  # Show the latest runs of all reports
  bundlestats history

  # Show the runs of one report
  bundlestats history --run-id "bundle-stats / pr-42" --limit 5`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("run-id", "r", "",
		"Only show runs with this run id (default: all runs)")
	cmd.Flags().IntP("limit", "n", history.DefaultLimit,
		"Maximum number of runs to show")
	cmd.Flags().String(config.KeyHistoryDir, config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	runID, err := cmd.Flags().GetString("run-id")
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	dir, err := cmd.Flags().GetString(config.KeyHistoryDir)
	if err != nil {
		return err
	}

	store, err := history.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), runID, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	var buf bytes.Buffer
	if err := writeHistoryTable(&buf, entries); err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// writeHistoryTable renders entries as a markdown table.
func writeHistoryTable(buf *bytes.Buffer, entries []history.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.RunID,
			shortSHA(e.SHA),
			bundle.FormatSize(e.TotalSize),
			e.Summary,
		})
	}

	md := markdown.NewMarkdown(buf)
	md.Table(markdown.TableSet{
		Header: []string{"Date", "Run", "Commit", "Size", "Summary"},
		Rows:   rows,
	})
	return md.Build()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	if sha == "" {
		return "-"
	}
	return sha
}
