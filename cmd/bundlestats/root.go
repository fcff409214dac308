package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/bundlestats/internal/actions"
	"github.com/nao1215/bundlestats/internal/config"
)

// NewRootCmd creates the root command. Without a subcommand it runs the
// action, so the binary can be the entrypoint of the action as is.
func NewRootCmd() *cobra.Command {
	runCmd := NewRunCmd()

	cmd := &cobra.Command{
		Use:   "bundlestats",
		Short: "Report webpack bundle stats from a GitHub Actions workflow",
		Long: `bundlestats reports the bundle size of a webpack build.

It reads the stats file written by webpack (--json), optionally compares it
with the stats of a baseline build, and publishes the result:
- HTML and JSON report files, uploaded as a workflow artifact
- a commit status with the bundle size summary
- the step outputs files, runId, info, markdownInfo and jsonInfo
- a markdown report in the job summary

Running without a subcommand is the same as "bundlestats run".`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "Enable verbose logging")

	config.RegisterFlags(cmd.Flags())

	cmd.AddCommand(runCmd)
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		reportError(os.Stdout, os.Stderr, actions.LoadEnv().InActions, err)
		os.Exit(1)
	}
}

// reportError fails the workflow step with an error annotation, or prints
// err when running outside of a workflow.
func reportError(stdout, stderr io.Writer, inActions bool, err error) {
	if inActions {
		if werr := actions.IssueCommand(stdout, actions.CommandError, nil, err.Error()); werr == nil {
			return
		}
	}
	fmt.Fprintln(stderr, err)
}
