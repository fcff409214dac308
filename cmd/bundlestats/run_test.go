package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/bundlestats/internal/config"
	"github.com/nao1215/bundlestats/internal/pipeline"
)

const testStats = `{"hash":"cur","assets":[
	{"name":"main.js","size":120000,"chunks":["main"]},
	{"name":"main.css","size":4000,"chunks":["main"]}
]}`

// isolateEnv clears the runner environment so that the host running the
// tests does not leak into them.
func isolateEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"GITHUB_ACTIONS", "GITHUB_OUTPUT", "GITHUB_STEP_SUMMARY", "RUNNER_DEBUG",
		"GITHUB_REPOSITORY", "GITHUB_SHA", "ACTIONS_RUNTIME_TOKEN", "ACTIONS_RESULTS_URL",
		"INPUT_ID", "INPUT_REPO-TOKEN", "INPUT_WEBPACK-STATS-PATH", "INPUT_WEBPACK-STATS-BASELINE-PATH",
		"INPUT_SKIP-ARTIFACT-UPLOAD", "INPUT_OUT-DIR", "INPUT_CONFIG",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeStats(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "stats.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestRunActionCmd tests a run configured through action inputs.
func TestRunActionCmd(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	outputPath := filepath.Join(dir, "output")
	summaryPath := filepath.Join(dir, "summary.md")

	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_OUTPUT", outputPath)
	t.Setenv("GITHUB_STEP_SUMMARY", summaryPath)
	t.Setenv("INPUT_ID", "pr-42")
	t.Setenv("INPUT_WEBPACK-STATS-PATH", writeStats(t, dir, testStats))
	t.Setenv("INPUT_SKIP-ARTIFACT-UPLOAD", "true")
	t.Setenv("INPUT_OUT-DIR", filepath.Join(dir, "out"))

	stdout, _, err := executeRoot(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "::warning::Could not set commit status, no repo-token. Bundle size is 124 kB.") {
		t.Errorf("expected no-token warning, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Bundle stats reported") {
		t.Errorf("expected completion message, got:\n%s", stdout)
	}

	outputs, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("expected outputs file: %v", err)
	}
	for _, want := range []string{"runId<<ghadelimiter_", "\nbundle-stats / pr-42\n", "\nBundle size is 124 kB.\n", "bundle-stats.html"} {
		if !strings.Contains(string(outputs), want) {
			t.Errorf("expected outputs to contain %q, got:\n%s", want, outputs)
		}
	}

	summary, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("expected job summary: %v", err)
	}
	if !strings.Contains(string(summary), "## bundle-stats / pr-42") {
		t.Errorf("unexpected job summary:\n%s", summary)
	}

	for _, name := range []string{"bundle-stats.html", "bundle-stats.json"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

// TestRunActionCmdLocal tests a run configured through flags, outside of
// a workflow, recording the history.
func TestRunActionCmdLocal(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	historyDir := filepath.Join(dir, "history")

	stdout, stderr, err := executeRoot(t, "run",
		"--webpack-stats-path", writeStats(t, dir, testStats),
		"--out-dir", filepath.Join(dir, "out"),
		"--skip-artifact-upload",
		"--record-history",
		"--history-dir", historyDir,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "::set-output name=runId::bundle-stats\n") {
		t.Errorf("expected set-output commands, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "level=WARN") || !strings.Contains(stderr, "no repo-token") {
		t.Errorf("expected warning on stderr, got:\n%s", stderr)
	}

	stdout, _, err = executeRoot(t, "history", "--history-dir", historyDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "124 kB") || !strings.Contains(stdout, "Bundle size is 124 kB.") {
		t.Errorf("expected recorded run in history, got:\n%s", stdout)
	}
}

func TestRunActionCmdErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  func(dir string) []string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing stats path",
			args: func(string) []string { return []string{"run"} },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, config.ErrNoStatsPath) {
					t.Errorf("expected ErrNoStatsPath, got %v", err)
				}
			},
		},
		{
			name: "invalid stats",
			args: func(dir string) []string {
				return []string{
					"--webpack-stats-path", writeStats(t, dir, `{"assets":[{"name":"main.js"}]}`),
					"--out-dir", filepath.Join(dir, "out"),
					"--skip-artifact-upload",
				}
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, pipeline.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			},
		},
		{
			name: "missing stats file",
			args: func(dir string) []string {
				return []string{
					"--webpack-stats-path", filepath.Join(dir, "missing.json"),
					"--skip-artifact-upload",
				}
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, pipeline.ErrInputRead) {
					t.Errorf("expected ErrInputRead, got %v", err)
				}
			},
		},
		{
			name: "explicit config file not found",
			args: func(dir string) []string {
				return []string{"--config", filepath.Join(dir, "missing.yaml")}
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, config.ErrConfigNotFound) {
					t.Errorf("expected ErrConfigNotFound, got %v", err)
				}
			},
		},
		{
			name: "no uploader",
			args: func(dir string) []string {
				return []string{
					"--webpack-stats-path", writeStats(t, dir, testStats),
					"--out-dir", filepath.Join(dir, "out"),
				}
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, pipeline.ErrUpload) {
					t.Errorf("expected ErrUpload, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)

			_, _, err := executeRoot(t, tt.args(t.TempDir())...)
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}
