package pipeline

import (
	"errors"

	"github.com/nao1215/bundlestats/internal/artifact"
	"github.com/nao1215/bundlestats/internal/webpack"
)

// Step errors. Every error returned by a step wraps one of these, so
// callers can tell failures apart with errors.Is.
var (
	// ErrInputRead is returned when the current stats cannot be read or parsed.
	ErrInputRead = webpack.ErrReadStats

	// ErrValidation is returned when the current stats are malformed.
	ErrValidation = webpack.ErrInvalidStats

	// ErrReport is returned when no report can be built from the stats.
	ErrReport = errors.New("failed to build report")

	// ErrWrite is returned when a report file cannot be rendered or written.
	ErrWrite = artifact.ErrWrite

	// ErrUpload is returned when the report files cannot be uploaded.
	ErrUpload = errors.New("failed to upload artifact")

	// ErrMissingSummary is returned when the report has no bundle size summary.
	ErrMissingSummary = errors.New("failed to report bundle size")

	// ErrStatus is returned when the commit status cannot be posted.
	ErrStatus = errors.New("failed to post commit status")

	// ErrHistory is returned when the run cannot be recorded.
	ErrHistory = errors.New("failed to record history")

	// ErrOutputs is returned when the step outputs or the job summary cannot
	// be written.
	ErrOutputs = errors.New("failed to set outputs")
)
