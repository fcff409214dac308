package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/bundlestats/internal/actions"
	"github.com/nao1215/bundlestats/internal/bundle"
	"github.com/nao1215/bundlestats/internal/config"
	"github.com/nao1215/bundlestats/internal/log"
	"github.com/nao1215/bundlestats/internal/model"
	"github.com/nao1215/bundlestats/internal/pipeline"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Report the bundle stats of a webpack build",
		Long: `Run reads the webpack stats, writes the report files, uploads them as an
artifact, posts the commit status and sets the step outputs.

Every option can be given as a flag, as an INPUT_<NAME> environment
variable (how GitHub Actions passes the inputs of the action) or in
.bundle-stats.yaml. Flags take precedence over the environment, the
environment over the config file.

Examples:
  # Report a build, compare it with the stats of the default branch
  bundlestats run --webpack-stats-path dist/stats.json \
    --webpack-stats-baseline-path base/stats.json

  # Local run: write the report, skip the upload
  bundlestats run --webpack-stats-path dist/stats.json \
    --skip-artifact-upload --out-dir report

  # Upload the report files to S3 instead of the artifact service
  bundlestats run --webpack-stats-path dist/stats.json \
    --artifact-destination s3://my-bucket/bundle-stats`,
		Args: cobra.NoArgs,
		RunE: runActionCmd,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

// runActionCmd executes one run of the action.
func runActionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(cmd.Flags())
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	env := actions.LoadEnv()
	logger := setupLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), env, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := model.NewRun(cfg)
	logger.Info("Reporting bundle stats", "runId", run.Result.RunID, "stats", cfg.StatsPath)
	if cfg.ConfigFilePath != "" {
		logger.Debug("config file loaded", "path", cfg.ConfigFilePath)
	}

	p := pipeline.Default(cfg, pipeline.Deps{
		Logger:          logger,
		Outputs:         actions.NewOutputs(env.OutputPath, cmd.OutOrStdout()),
		StepSummaryPath: env.StepSummaryPath,
	})
	if err := p.Execute(ctx, run); err != nil {
		return err
	}

	logger.Info(run.Result.Info)
	attrs := []any{"files", len(run.Result.Files), "duration", run.Duration().Round(time.Millisecond)}
	if run.Upload != nil {
		attrs = append(attrs, "artifact", run.Upload.Location, "size", bundle.FormatSize(run.Upload.Size))
	}
	logger.Info("Bundle stats reported", attrs...)

	return nil
}

// setupLogger writes workflow commands to stdout inside a workflow, where
// the runner picks them up, and plain text to stderr elsewhere. Debug
// output follows --verbose or the runner's step debug setting.
func setupLogger(stdout, stderr io.Writer, env actions.Env, verbose bool) *slog.Logger {
	verbose = verbose || env.Debug
	if env.InActions {
		return log.NewWorkflowLogger(stdout, verbose)
	}
	return log.NewSecureLogger(stderr, verbose)
}
