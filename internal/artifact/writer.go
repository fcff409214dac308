package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ErrWrite is returned by WriteAll when at least one artifact could not be
// written.
var ErrWrite = errors.New("failed to write artifact files")

// WriteAll writes every artifact to dir/<filename> concurrently and returns
// the written paths in artifact order.
//
// All writes are issued together and awaited together. A failing write does
// not cancel its siblings, so files written before the failure stay on disk;
// the batch as a whole is reported as failed and no paths are returned.
func WriteAll(dir string, artifacts []Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	files := make([]string, len(artifacts))
	var g errgroup.Group

	for i, a := range artifacts {
		files[i] = filepath.Join(dir, a.Filename)
		g.Go(func() error {
			if err := os.WriteFile(files[i], a.Output, 0644); err != nil { //nolint:gosec // reports are meant to be readable by CI tooling
				return fmt.Errorf("%s: %w", a.Filename, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return files, nil
}
