// Package log provides the loggers used by bundlestats, built on top of the
// standard slog package.
//
// Two handlers are composed:
//   - SecureHandler masks sensitive values (repository tokens, the Actions
//     runtime token, signed upload URLs) before anything is written.
//   - WorkflowHandler renders records as GitHub Actions workflow commands,
//     so warnings and errors are annotated in the job log.
//
// # Usage
//
//	// Inside a workflow job
//	logger := log.NewWorkflowLogger(os.Stdout, verbose)
//
//	// On a terminal
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//
//	logger.Warn("baseline stats ignored", "path", path, "error", err)
//
// Even with debug output enabled, tokens never reach the job log, which
// is public for public repositories.
package log
