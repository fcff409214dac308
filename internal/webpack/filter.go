package webpack

import (
	"sort"
	"strings"
)

// Stats is the filtered form of a Source. It is only handed to job creation
// after Validate accepted it.
type Stats struct {
	Hash        string              `json:"hash,omitempty"`
	BuiltAt     int64               `json:"builtAt,omitempty"`
	Assets      []Asset             `json:"assets"`
	Chunks      []Chunk             `json:"chunks,omitempty"`
	Modules     []Module            `json:"modules,omitempty"`
	Entrypoints map[string][]string `json:"entrypoints,omitempty"`
}

// Asset is an emitted file that ships with the bundle.
type Asset struct {
	Name string `json:"name"`
	Size int64  `json:"size"`

	// missingSize marks an asset whose source entry had no size.
	missingSize bool
}

// Chunk is a filtered webpack chunk.
type Chunk struct {
	ID      string   `json:"id"`
	Entry   bool     `json:"entry,omitempty"`
	Initial bool     `json:"initial,omitempty"`
	Names   []string `json:"names,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// Module is a filtered webpack module.
type Module struct {
	Name   string   `json:"name"`
	Size   int64    `json:"size"`
	Chunks []string `json:"chunks,omitempty"`
}

// excludedSuffixes are asset name endings that never ship to users.
var excludedSuffixes = []string{
	".map",
	".LICENSE.txt",
}

// IsExcludedAsset reports whether an asset is dropped by Filter.
func IsExcludedAsset(name string) bool {
	for _, suffix := range excludedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return strings.Contains(name, ".hot-update.")
}

// Filter reduces a raw stats document to the fields used for reporting.
// A nil source yields empty Stats, which Validate rejects.
func Filter(src *Source) *Stats {
	if src == nil {
		return &Stats{}
	}

	if len(src.Assets) == 0 && len(src.Children) > 0 {
		return filterChildren(src)
	}

	stats := &Stats{
		Hash:    src.Hash,
		BuiltAt: src.BuiltAt,
		Assets:  filterAssets(src.Assets),
		Chunks:  filterChunks(src.Chunks),
		Modules: filterModules(src.Modules, nil),
	}

	if len(src.Entrypoints) > 0 {
		stats.Entrypoints = make(map[string][]string, len(src.Entrypoints))
		for name, ep := range src.Entrypoints {
			assets := make([]string, 0, len(ep.Assets))
			for _, a := range ep.Assets {
				if a != "" && !IsExcludedAsset(string(a)) {
					assets = append(assets, string(a))
				}
			}
			stats.Entrypoints[name] = assets
		}
	}

	return stats
}

// filterChildren merges the compilations of a multi-compiler document.
func filterChildren(src *Source) *Stats {
	merged := &Stats{
		Hash:    src.Hash,
		BuiltAt: src.BuiltAt,
	}

	for i := range src.Children {
		child := Filter(&src.Children[i])
		if merged.Hash == "" {
			merged.Hash = child.Hash
		}
		if merged.BuiltAt == 0 {
			merged.BuiltAt = child.BuiltAt
		}
		merged.Assets = append(merged.Assets, child.Assets...)
		merged.Chunks = append(merged.Chunks, child.Chunks...)
		merged.Modules = append(merged.Modules, child.Modules...)
		for name, assets := range child.Entrypoints {
			if merged.Entrypoints == nil {
				merged.Entrypoints = make(map[string][]string)
			}
			merged.Entrypoints[name] = append(merged.Entrypoints[name], assets...)
		}
	}

	return merged
}

func filterAssets(in []SourceAsset) []Asset {
	out := make([]Asset, 0, len(in))
	for _, a := range in {
		if IsExcludedAsset(a.Name) {
			continue
		}
		asset := Asset{Name: a.Name}
		if a.Size == nil {
			asset.missingSize = true
		} else {
			asset.Size = *a.Size
		}
		out = append(out, asset)
	}
	return out
}

func filterChunks(in []SourceChunk) []Chunk {
	if len(in) == 0 {
		return nil
	}

	out := make([]Chunk, 0, len(in))
	for _, c := range in {
		files := make([]string, 0, len(c.Files))
		for _, f := range c.Files {
			if !IsExcludedAsset(f) {
				files = append(files, f)
			}
		}
		out = append(out, Chunk{
			ID:      string(c.ID),
			Entry:   c.Entry,
			Initial: c.Initial,
			Names:   c.Names,
			Files:   files,
		})
	}
	return out
}

// filterModules flattens concatenated modules into their members. Members
// without chunk information inherit the chunks of the concatenation.
func filterModules(in []SourceModule, parentChunks []string) []Module {
	if len(in) == 0 {
		return nil
	}

	out := make([]Module, 0, len(in))
	for _, m := range in {
		chunks := chunkIDs(m.Chunks)
		if len(chunks) == 0 {
			chunks = parentChunks
		}

		if len(m.Modules) > 0 {
			out = append(out, filterModules(m.Modules, chunks)...)
			continue
		}

		// webpack runtime entries have no name and are not part of the bundle source
		if m.Name == "" {
			continue
		}

		out = append(out, Module{
			Name:   m.Name,
			Size:   m.Size,
			Chunks: chunks,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func chunkIDs(in []ChunkID) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, id := range in {
		out[i] = string(id)
	}
	return out
}
