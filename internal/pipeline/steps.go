package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/bundlestats/internal/actions"
	"github.com/nao1215/bundlestats/internal/artifact"
	"github.com/nao1215/bundlestats/internal/bundle"
	"github.com/nao1215/bundlestats/internal/config"
	"github.com/nao1215/bundlestats/internal/history"
	"github.com/nao1215/bundlestats/internal/model"
	"github.com/nao1215/bundlestats/internal/status"
	"github.com/nao1215/bundlestats/internal/upload"
	"github.com/nao1215/bundlestats/internal/webpack"
)

// Step names.
const (
	StepRead      = "read"
	StepValidate  = "validate"
	StepReport    = "report"
	StepRender    = "render"
	StepWrite     = "write"
	StepUpload    = "upload"
	StepSummarize = "summarize"
	StepStatus    = "status"
	StepHistory   = "history"
	StepOutputs   = "outputs"
)

// StatusPoster posts a commit status.
type StatusPoster interface {
	Post(ctx context.Context, repo, sha string, s status.Status) error
}

// HistoryRecorder stores a run in the history.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// OutputSetter sets a step output.
type OutputSetter interface {
	Set(name, value string) error
}

// ReadStep loads the current stats and the optional baseline. A baseline
// that cannot be read is reported as a warning and ignored.
type ReadStep struct {
	logger *slog.Logger
}

// NewReadStep creates a ReadStep.
func NewReadStep(logger *slog.Logger) *ReadStep {
	return &ReadStep{logger: logger}
}

// Name implements Step.
func (s *ReadStep) Name() string { return StepRead }

// Do implements Step.
func (s *ReadStep) Do(_ context.Context, run *model.Run) error {
	src, err := webpack.ReadFile(run.Config.StatsPath)
	if err != nil {
		return err
	}
	run.Source = src
	s.logger.Debug("read webpack stats", "path", run.Config.StatsPath)

	if path := run.Config.BaselinePath; path != "" {
		baseline, err := webpack.ReadFile(path)
		if err != nil {
			warnf(s.logger, run, "Baseline stats ignored: %v", err)
			return nil
		}
		run.BaselineSource = baseline
		s.logger.Debug("read baseline stats", "path", path)
	}
	return nil
}

// ValidateStep filters the stats documents and validates the result.
// Invalid current stats fail the run; an invalid baseline is ignored with
// a warning.
type ValidateStep struct {
	logger *slog.Logger
}

// NewValidateStep creates a ValidateStep.
func NewValidateStep(logger *slog.Logger) *ValidateStep {
	return &ValidateStep{logger: logger}
}

// Name implements Step.
func (s *ValidateStep) Name() string { return StepValidate }

// Do implements Step.
func (s *ValidateStep) Do(_ context.Context, run *model.Run) error {
	stats := webpack.Filter(run.Source)
	if err := webpack.Validate(stats); err != nil {
		return err
	}
	run.Stats = stats

	if run.BaselineSource != nil {
		baseline := webpack.Filter(run.BaselineSource)
		if err := webpack.Validate(baseline); err != nil {
			warnf(s.logger, run, "Baseline stats ignored: %v", err)
			return nil
		}
		run.Baseline = baseline
	}
	return nil
}

// ReportStep builds the jobs and the report.
type ReportStep struct{}

// NewReportStep creates a ReportStep.
func NewReportStep() *ReportStep {
	return &ReportStep{}
}

// Name implements Step.
func (s *ReportStep) Name() string { return StepReport }

// Do implements Step.
func (s *ReportStep) Do(_ context.Context, run *model.Run) error {
	sources := []bundle.JobSource{{Webpack: run.Stats}}
	if run.Baseline != nil {
		sources = append(sources, bundle.JobSource{Webpack: run.Baseline})
	}

	jobs, err := bundle.CreateJobs(sources)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReport, err)
	}
	report, err := bundle.CreateReport(jobs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReport, err)
	}

	run.Jobs = jobs
	run.Report = report
	return nil
}

// RenderStep renders the report files in memory.
type RenderStep struct{}

// NewRenderStep creates a RenderStep.
func NewRenderStep() *RenderStep {
	return &RenderStep{}
}

// Name implements Step.
func (s *RenderStep) Name() string { return StepRender }

// Do implements Step.
func (s *RenderStep) Do(_ context.Context, run *model.Run) error {
	artifacts, err := artifact.CreateArtifacts(run.Jobs, run.Report, artifact.Options{
		HTML:  run.Config.HTML,
		JSON:  run.Config.JSON,
		Title: run.Config.Title(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	run.Artifacts = artifacts
	return nil
}

// WriteStep writes the rendered files to the output directory.
type WriteStep struct {
	logger *slog.Logger
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(logger *slog.Logger) *WriteStep {
	return &WriteStep{logger: logger}
}

// Name implements Step.
func (s *WriteStep) Name() string { return StepWrite }

// Do implements Step.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	files, err := artifact.WriteAll(run.Config.OutDir, run.Artifacts.List())
	if err != nil {
		return err
	}
	run.Result.Files = files
	s.logger.Info("Report files written", "dir", run.Config.OutDir, "count", len(files))
	return nil
}

// UploadStep uploads the written files as the run's artifact bundle. The
// uploader is chosen from the configuration unless one is given.
type UploadStep struct {
	uploader upload.Uploader
	logger   *slog.Logger
}

// NewUploadStep creates an UploadStep. uploader may be nil.
func NewUploadStep(uploader upload.Uploader, logger *slog.Logger) *UploadStep {
	return &UploadStep{uploader: uploader, logger: logger}
}

// Name implements Step.
func (s *UploadStep) Name() string { return StepUpload }

// Do implements Step.
func (s *UploadStep) Do(ctx context.Context, run *model.Run) error {
	uploader := s.uploader
	if uploader == nil {
		var err error
		uploader, err = upload.New(UploadOptions(run.Config))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUpload, err)
		}
	}

	name := run.Config.ArtifactName()
	result, err := uploader.Upload(ctx, name, run.Result.Files, run.Config.OutDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpload, name, err)
	}
	run.Upload = result
	s.logger.Info("Artifact uploaded", "name", result.Name, "location", result.Location, "size", bundle.FormatSize(result.Size))
	return nil
}

// UploadOptions maps the configuration to upload options.
func UploadOptions(cfg *config.Config) upload.Options {
	return upload.Options{
		Destination:  cfg.ArtifactDestination,
		S3Region:     cfg.S3Region,
		RuntimeToken: cfg.RuntimeToken,
		ResultsURL:   cfg.ResultsURL,
		Timeout:      cfg.Timeout,
	}
}

// SummarizeStep extracts the bundle size summary. A report without one
// fails the run, even though its files were written.
type SummarizeStep struct {
	logger *slog.Logger
}

// NewSummarizeStep creates a SummarizeStep.
func NewSummarizeStep(logger *slog.Logger) *SummarizeStep {
	return &SummarizeStep{logger: logger}
}

// Name implements Step.
func (s *SummarizeStep) Name() string { return StepSummarize }

// Do implements Step.
func (s *SummarizeStep) Do(_ context.Context, run *model.Run) error {
	summary, err := bundle.NewSummary(run.Report)
	if err != nil {
		warnf(s.logger, run, "Something went wrong, no information available.")
		return fmt.Errorf("%w: %w", ErrMissingSummary, err)
	}

	run.Summary = summary
	run.Result.Info = summary.Text
	run.Result.MarkdownInfo = summary.Markdown
	run.Result.JSONInfo = summary.JSON
	return nil
}

// StatusStep posts the summary as a successful commit status. Without a
// token, the summary is reported as a warning instead and no request is
// made.
type StatusStep struct {
	poster StatusPoster
	logger *slog.Logger
}

// NewStatusStep creates a StatusStep. poster may be nil, in which case a
// status.Client is created from the configuration.
func NewStatusStep(poster StatusPoster, logger *slog.Logger) *StatusStep {
	return &StatusStep{poster: poster, logger: logger}
}

// Name implements Step.
func (s *StatusStep) Name() string { return StepStatus }

// Do implements Step.
func (s *StatusStep) Do(ctx context.Context, run *model.Run) error {
	cfg := run.Config
	if cfg.Token == "" {
		warnf(s.logger, run, "Could not set commit status, no repo-token. %s", run.Result.Info)
		return nil
	}

	poster := s.poster
	if poster == nil {
		poster = status.New(cfg.APIURL, cfg.Token, status.WithTimeout(cfg.Timeout))
	}

	err := poster.Post(ctx, cfg.Repository, cfg.SHA, status.Status{
		State:       status.StateSuccess,
		Context:     run.Result.RunID,
		Description: run.Result.Info,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStatus, err)
	}
	run.StatusPosted = true
	s.logger.Debug("commit status posted", "repository", cfg.Repository, "sha", cfg.SHA)
	return nil
}

// HistoryStep records the run in the history database.
type HistoryStep struct {
	recorder HistoryRecorder
}

// NewHistoryStep creates a HistoryStep. recorder may be nil, in which case
// the database in the configured history directory is opened for the step.
func NewHistoryStep(recorder HistoryRecorder) *HistoryStep {
	return &HistoryStep{recorder: recorder}
}

// Name implements Step.
func (s *HistoryStep) Name() string { return StepHistory }

// Do implements Step.
func (s *HistoryStep) Do(ctx context.Context, run *model.Run) error {
	recorder := s.recorder
	if recorder == nil {
		store, err := history.Open(run.Config.HistoryDir)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrHistory, err)
		}
		defer store.Close()
		recorder = store
	}

	var total int64
	if run.Summary != nil && run.Report != nil {
		if row := run.Report.Metric(bundle.MetricTotalSize); row != nil {
			total = row.Runs[0].Value
		}
	}

	id, err := recorder.Record(ctx, history.Entry{
		RunID:      run.Result.RunID,
		Repository: run.Config.Repository,
		SHA:        run.Config.SHA,
		TotalSize:  total,
		Summary:    run.Result.Info,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHistory, err)
	}
	run.HistoryID = id
	return nil
}

// OutputsStep publishes the step outputs and appends the markdown report
// to the job summary.
type OutputsStep struct {
	outputs     OutputSetter
	summaryPath string
}

// NewOutputsStep creates an OutputsStep. An empty summaryPath skips the
// job summary.
func NewOutputsStep(outputs OutputSetter, summaryPath string) *OutputsStep {
	return &OutputsStep{outputs: outputs, summaryPath: summaryPath}
}

// Name implements Step.
func (s *OutputsStep) Name() string { return StepOutputs }

// Do implements Step.
func (s *OutputsStep) Do(_ context.Context, run *model.Run) error {
	for _, out := range run.Result.Outputs() {
		if err := s.outputs.Set(out.Name, out.Value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrOutputs, out.Name, err)
		}
	}

	if s.summaryPath == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := bundle.WriteMarkdownReport(&buf, run.Result.RunID, run.Report); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputs, err)
	}
	if err := actions.AppendStepSummary(s.summaryPath, buf.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputs, err)
	}
	return nil
}

// warnf logs a warning and records it in the run.
func warnf(logger *slog.Logger, run *model.Run, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	run.AddWarning(msg)
	logger.Warn(msg)
}
