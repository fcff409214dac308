package webpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Source is a raw webpack stats document as written by webpack.
// Only the fields used for reporting are decoded; everything else is ignored.
type Source struct {
	Hash        string                      `json:"hash,omitempty"`
	BuiltAt     int64                       `json:"builtAt,omitempty"`
	Assets      []SourceAsset               `json:"assets,omitempty"`
	Chunks      []SourceChunk               `json:"chunks,omitempty"`
	Modules     []SourceModule              `json:"modules,omitempty"`
	Entrypoints map[string]SourceEntrypoint `json:"entrypoints,omitempty"`
	Children    []Source                    `json:"children,omitempty"`
}

// SourceAsset is an emitted file.
type SourceAsset struct {
	Name   string    `json:"name"`
	Size   *int64    `json:"size"`
	Chunks []ChunkID `json:"chunks,omitempty"`
}

// SourceChunk is a webpack chunk.
type SourceChunk struct {
	ID      ChunkID  `json:"id"`
	Entry   bool     `json:"entry"`
	Initial bool     `json:"initial"`
	Names   []string `json:"names,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// SourceModule is a webpack module. Concatenated modules list their members
// in Modules.
type SourceModule struct {
	Name    string         `json:"name"`
	Size    int64          `json:"size"`
	Chunks  []ChunkID      `json:"chunks,omitempty"`
	Modules []SourceModule `json:"modules,omitempty"`
}

// SourceEntrypoint lists the assets loaded by one entry.
// Webpack 4 writes asset names as strings, webpack 5 as {name, size} objects.
type SourceEntrypoint struct {
	Assets []EntrypointAsset `json:"assets"`
}

// EntrypointAsset is the name of an asset referenced by an entrypoint.
type EntrypointAsset string

// UnmarshalJSON accepts both the string and the object form.
func (a *EntrypointAsset) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = EntrypointAsset(s)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = EntrypointAsset(obj.Name)
	return nil
}

// ChunkID is a chunk identifier. Webpack emits numeric ids in production
// and string ids in development; both are kept as strings.
type ChunkID string

// UnmarshalJSON accepts numbers and strings.
func (c *ChunkID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ChunkID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chunk id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("chunk id: %w", err)
	}
	*c = ChunkID(n.String())
	return nil
}

// Parse decodes a stats document.
func Parse(data []byte) (*Source, error) {
	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

// ReadFile reads and decodes the stats document at path.
// Both a missing file and malformed JSON are reported as ErrReadStats.
func ReadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path) //nolint:gosec // stats path is a user input
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadStats, err)
	}

	src, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadStats, path, err)
	}
	return src, nil
}
