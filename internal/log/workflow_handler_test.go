package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWorkflowHandler_Commands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWorkflowLogger(&buf, true)

	logger.Debug("reading stats", "path", "dist/stats.json")
	logger.Info("wrote artifacts", "count", 2)
	logger.Warn("baseline ignored", "error", errors.New("no such file"))
	logger.Error("run failed:\nwrite error")

	want := []string{
		"::debug::reading stats path=dist/stats.json",
		"wrote artifacts count=2",
		`::warning::baseline ignored error="no such file"`,
		"::error::run failed:%0Awrite error",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWorkflowHandler_DebugSuppressed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWorkflowLogger(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown")

	if got := buf.String(); got != "shown\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestWorkflowHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWorkflowLogger(&buf, false).
		With("runId", "bundle-stats").
		WithGroup("status").
		With("repository", "o/r")
	logger.Warn("no token", "repo-token", "ghp_unused", "state", "success")

	want := `::warning::no token runId=bundle-stats status.repository=o/r status.repo-token=***REDACTED*** status.state=success` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWorkflowHandler_NoCommandInjection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWorkflowLogger(&buf, false)
	logger.Info("Reporting bundle stats", "stats", "a.json\n::error::injected")
	logger.Info("first line\n::error::second line")
	logger.Warn("baseline ignored", "path", "b.json\r\n::error::injected")

	want := []string{
		`Reporting bundle stats stats="a.json\n::error::injected"`,
		"first line%0A::error::second line",
		`::warning::baseline ignored path="b.json\r\n::error::injected"`,
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
