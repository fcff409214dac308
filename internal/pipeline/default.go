package pipeline

import (
	"log/slog"
	"os"

	"github.com/nao1215/bundlestats/internal/actions"
	"github.com/nao1215/bundlestats/internal/config"
	"github.com/nao1215/bundlestats/internal/upload"
)

// Deps are the collaborators of the default pipeline. Nil collaborators
// are created from the configuration when their step runs.
type Deps struct {
	Logger   *slog.Logger
	Uploader upload.Uploader
	Status   StatusPoster
	History  HistoryRecorder

	// Outputs receives the step outputs. Nil writes set-output commands
	// to stdout.
	Outputs OutputSetter

	// StepSummaryPath is the GITHUB_STEP_SUMMARY file, empty to skip.
	StepSummaryPath string
}

// Default builds the pipeline of a run:
//
//	read → validate → report → render → write → upload → summarize →
//	status → history → outputs
//
// The upload step is left out when cfg.SkipArtifactUpload is set, the
// history step unless cfg.RecordHistory is set.
func Default(cfg *config.Config, deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	outputs := deps.Outputs
	if outputs == nil {
		outputs = actions.NewOutputs("", os.Stdout)
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewReadStep(logger),
		NewValidateStep(logger),
		NewReportStep(),
		NewRenderStep(),
		NewWriteStep(logger),
	)
	if !cfg.SkipArtifactUpload {
		p.AddStep(NewUploadStep(deps.Uploader, logger))
	}
	p.AddSteps(
		NewSummarizeStep(logger),
		NewStatusStep(deps.Status, logger),
	)
	if cfg.RecordHistory {
		p.AddStep(NewHistoryStep(deps.History))
	}
	p.AddStep(NewOutputsStep(outputs, deps.StepSummaryPath))
	return p
}
