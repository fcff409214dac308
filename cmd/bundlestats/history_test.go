package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/bundlestats/internal/history"
)

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--history-dir", t.TempDir()})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No runs recorded.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("filters by run id", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, err := history.Open(dir)
		if err != nil {
			t.Fatal(err)
		}
		ctx := context.Background()
		for _, e := range []history.Entry{
			{RunID: "bundle-stats", SHA: "0123456789abcdef", TotalSize: 100000, Summary: "Bundle size is 100 kB."},
			{RunID: "bundle-stats / pr-42", SHA: "fedcba9876543210", TotalSize: 124000, Summary: "Bundle size is 124 kB."},
		} {
			if _, err := store.Record(ctx, e); err != nil {
				t.Fatal(err)
			}
		}
		if err := store.Close(); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--history-dir", dir, "--run-id", "bundle-stats / pr-42"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "fedcba9") || !strings.Contains(output, "124 kB") {
			t.Errorf("expected pr-42 run, got:\n%s", output)
		}
		if strings.Contains(output, "0123456") {
			t.Errorf("expected other runs to be filtered, got:\n%s", output)
		}
	})
}

func TestWriteHistoryTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := writeHistoryTable(&buf, []history.Entry{{
		RunID:     "bundle-stats",
		TotalSize: 2048,
		Summary:   "Bundle size is 2.0 kB.",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Date", "Commit", "bundle-stats", "2.0 kB"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in:\n%s", want, output)
		}
	}
}

func TestShortSHA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"0123456789abcdef", "0123456"},
		{"abc", "abc"},
		{"", "-"},
	}
	for _, tt := range tests {
		if got := shortSHA(tt.in); got != tt.want {
			t.Errorf("shortSHA(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
