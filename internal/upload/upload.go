package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoUploader is returned by New when no destination is configured
	// and the Actions runtime is not available.
	ErrNoUploader = errors.New("no artifact destination available")

	// ErrNoFiles is returned when there is nothing to upload.
	ErrNoFiles = errors.New("no files to upload")

	// ErrOutsideRoot is returned for a file that is not inside the root
	// directory.
	ErrOutsideRoot = errors.New("file is outside the root directory")

	// ErrInvalidName is returned for an empty or path-like artifact name.
	ErrInvalidName = errors.New("invalid artifact name")

	// ErrInvalidRuntimeToken is returned when the Actions runtime token does
	// not carry the artifact backend ids.
	ErrInvalidRuntimeToken = errors.New("invalid actions runtime token")

	// ErrRejected is returned when the artifact service answers without
	// accepting the request.
	ErrRejected = errors.New("artifact service rejected the request")
)

// Uploader publishes files as an artifact bundle.
type Uploader interface {
	// Upload publishes files, rooted at rootDir, as the bundle name.
	Upload(ctx context.Context, name string, files []string, rootDir string) (*Result, error)
}

// Result describes an uploaded bundle.
type Result struct {
	Name string

	// ID is the identifier assigned by the destination, if any.
	ID string

	// Size is the number of bytes uploaded.
	Size int64

	// Location is where the bundle can be found (URL, s3:// URI or path).
	Location string

	Files int
}

// APIError represents a non-2xx response of the artifact service or the
// blob storage.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Options selects and configures an Uploader.
type Options struct {
	// Destination is an s3://bucket/prefix URI or a directory, optionally
	// prefixed with file://. Empty selects the Actions artifact service.
	Destination string

	// S3Region is the AWS region of the bucket.
	S3Region string

	// RuntimeToken and ResultsURL are ACTIONS_RUNTIME_TOKEN and
	// ACTIONS_RESULTS_URL.
	RuntimeToken string
	ResultsURL   string

	Timeout time.Duration
}

// New returns the Uploader for opts: an explicit destination first, then
// the Actions artifact service when its runtime is available.
func New(opts Options) (Uploader, error) {
	switch {
	case strings.HasPrefix(opts.Destination, "s3://"):
		return NewS3Uploader(opts.Destination, opts.S3Region)
	case opts.Destination != "":
		return NewDirUploader(strings.TrimPrefix(opts.Destination, "file://")), nil
	case opts.RuntimeToken != "" && opts.ResultsURL != "":
		var actionsOpts []ActionsOption
		if opts.Timeout > 0 {
			actionsOpts = append(actionsOpts, WithTimeout(opts.Timeout))
		}
		return NewActionsUploader(opts.ResultsURL, opts.RuntimeToken, actionsOpts...)
	default:
		return nil, ErrNoUploader
	}
}

// entry is a file to upload with its slash-separated path relative to the
// root directory.
type entry struct {
	path string
	rel  string
}

// resolveEntries checks the artifact name and maps files to their paths
// relative to rootDir.
func resolveEntries(name string, files []string, rootDir string) ([]entry, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, f)
		}
		entries = append(entries, entry{path: abs, rel: filepath.ToSlash(rel)})
	}
	return entries, nil
}
