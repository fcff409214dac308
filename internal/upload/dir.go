package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirUploader copies bundles into a local directory, one sub-directory per
// bundle name.
type DirUploader struct {
	dir string
}

// NewDirUploader creates a DirUploader rooted at dir.
func NewDirUploader(dir string) *DirUploader {
	return &DirUploader{dir: dir}
}

// Upload copies files to <dir>/<name>/<relative path>.
func (u *DirUploader) Upload(ctx context.Context, name string, files []string, rootDir string) (*Result, error) {
	entries, err := resolveEntries(name, files, rootDir)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(u.dir, name)
	result := &Result{Name: name, Location: dest}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := copyFile(e.path, filepath.Join(dest, filepath.FromSlash(e.rel)))
		if err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", e.rel, err)
		}
		result.Size += n
		result.Files++
	}
	return result, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src) //nolint:gosec // path checked against the root directory
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return 0, err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644) //nolint:gosec // destination is configured by the user
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return 0, err
	}
	return n, out.Close()
}
