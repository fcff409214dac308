package model

import (
	"strings"
	"time"

	"github.com/nao1215/bundlestats/internal/artifact"
	"github.com/nao1215/bundlestats/internal/bundle"
	"github.com/nao1215/bundlestats/internal/config"
	"github.com/nao1215/bundlestats/internal/upload"
	"github.com/nao1215/bundlestats/internal/webpack"
)

// Run is the state of one bundle stats run. Pipeline steps read what
// earlier steps stored and add their own results.
//
// Design decision: one struct passed through every step, so that the order
// of steps is the only contract between them and a failed run still shows
// how far it got.
type Run struct {
	// Config is the resolved configuration. Steps must not modify it.
	Config *config.Config

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// === Input ===

	// Source is the parsed stats document of the current build.
	Source *webpack.Source

	// BaselineSource is the parsed baseline document, nil when no
	// baseline is configured or it could not be read.
	BaselineSource *webpack.Source

	// === Normalized stats ===

	// Stats is the filtered current stats, set only when valid.
	Stats *webpack.Stats

	// Baseline is the filtered baseline stats, nil when absent or invalid.
	Baseline *webpack.Stats

	// === Report ===

	Jobs   []bundle.Job
	Report *bundle.Report

	// Artifacts are the rendered report files, before writing.
	Artifacts artifact.Artifacts

	// === Publication ===

	// Upload describes the uploaded bundle, nil when skipped.
	Upload *upload.Result

	// Summary is the bundle size summary of the report.
	Summary *bundle.Summary

	// StatusPosted is true when the commit status was created.
	StatusPosted bool

	// HistoryID is the id of the history entry, 0 when not recorded.
	HistoryID int64

	// Result holds the values published as step outputs.
	Result RunResult

	// === Outcome ===

	// Warnings are the non-fatal problems of the run, in order.
	Warnings []string

	// CompletedSteps lists the steps that finished, in order.
	CompletedSteps []string

	// Failed is true when a step failed or the run was cancelled.
	Failed bool

	// Error is the error that stopped the run.
	Error error
}

// RunResult is the outcome published by a successful run.
type RunResult struct {
	// Files are the written report files, HTML first.
	Files []string `json:"files"`

	// RunID is the commit status context.
	RunID string `json:"runId"`

	// Info is the plain text summary.
	Info string `json:"info"`

	// MarkdownInfo is the markdown summary.
	MarkdownInfo string `json:"markdownInfo"`

	// JSONInfo is the machine-readable summary.
	JSONInfo string `json:"jsonInfo"`
}

// NewRun creates a Run for cfg.
func NewRun(cfg *config.Config) *Run {
	return &Run{
		Config:    cfg,
		StartedAt: time.Now(),
		Result: RunResult{
			RunID: cfg.RunID(),
		},
	}
}

// AddWarning records a non-fatal problem.
func (r *Run) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Duration returns how long the run took, or has been running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Output is a named step output.
type Output struct {
	Name  string
	Value string
}

// Outputs returns the step outputs of the result in a stable order.
func (r RunResult) Outputs() []Output {
	return []Output{
		{Name: "files", Value: QuoteFiles(r.Files)},
		{Name: "runId", Value: r.RunID},
		{Name: "info", Value: r.Info},
		{Name: "markdownInfo", Value: r.MarkdownInfo},
		{Name: "jsonInfo", Value: r.JSONInfo},
	}
}

// QuoteFiles joins files as a space separated list of double quoted paths.
func QuoteFiles(files []string) string {
	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, " ")
}
