package main

import (
	"bytes"
	"errors"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "bundlestats" {
			t.Errorf("expected use 'bundlestats', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("runs the action by default", func(t *testing.T) {
		t.Parallel()
		if cmd.RunE == nil {
			t.Fatal("expected root command to be runnable")
		}
		for _, name := range []string{"webpack-stats-path", "webpack-stats-baseline-path", "repo-token", "id", "skip-artifact-upload"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag on root command", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"run": false, "history": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})
}

func TestReportError(t *testing.T) {
	t.Parallel()

	err := errors.New("failed to read webpack stats: open dist/stats.json: no such file or directory")

	t.Run("in a workflow", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		reportError(&stdout, &stderr, true, err)

		want := "::error::failed to read webpack stats: open dist/stats.json: no such file or directory\n"
		if stdout.String() != want {
			t.Errorf("got %q, want %q", stdout.String(), want)
		}
		if stderr.Len() != 0 {
			t.Errorf("expected nothing on stderr, got %q", stderr.String())
		}
	})

	t.Run("outside of a workflow", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		reportError(&stdout, &stderr, false, err)

		if stdout.Len() != 0 {
			t.Errorf("expected nothing on stdout, got %q", stdout.String())
		}
		if stderr.String() != err.Error()+"\n" {
			t.Errorf("unexpected stderr %q", stderr.String())
		}
	})
}
