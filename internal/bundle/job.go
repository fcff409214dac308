package bundle

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/nao1215/bundlestats/internal/webpack"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AssetType groups assets by file extension.
type AssetType string

// Asset types, in report order.
const (
	AssetTypeJS    AssetType = "JS"
	AssetTypeCSS   AssetType = "CSS"
	AssetTypeIMG   AssetType = "IMG"
	AssetTypeMedia AssetType = "MEDIA"
	AssetTypeFont  AssetType = "FONT"
	AssetTypeHTML  AssetType = "HTML"
	AssetTypeOther AssetType = "OTHER"
)

// AssetTypes lists every asset type in report order.
var AssetTypes = []AssetType{
	AssetTypeJS, AssetTypeCSS, AssetTypeIMG, AssetTypeMedia,
	AssetTypeFont, AssetTypeHTML, AssetTypeOther,
}

var extensionTypes = map[string]AssetType{
	".js":    AssetTypeJS,
	".mjs":   AssetTypeJS,
	".cjs":   AssetTypeJS,
	".css":   AssetTypeCSS,
	".png":   AssetTypeIMG,
	".jpg":   AssetTypeIMG,
	".jpeg":  AssetTypeIMG,
	".gif":   AssetTypeIMG,
	".svg":   AssetTypeIMG,
	".webp":  AssetTypeIMG,
	".avif":  AssetTypeIMG,
	".ico":   AssetTypeIMG,
	".mp4":   AssetTypeMedia,
	".webm":  AssetTypeMedia,
	".mp3":   AssetTypeMedia,
	".ogg":   AssetTypeMedia,
	".wav":   AssetTypeMedia,
	".woff":  AssetTypeFont,
	".woff2": AssetTypeFont,
	".ttf":   AssetTypeFont,
	".otf":   AssetTypeFont,
	".eot":   AssetTypeFont,
	".html":  AssetTypeHTML,
	".htm":   AssetTypeHTML,
}

// TypeOf returns the asset type for a file name. Query strings are ignored.
func TypeOf(name string) AssetType {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if t, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return AssetTypeOther
}

// Label returns the display label of the type ("JS", "Images", "Fonts").
func (t AssetType) Label() string {
	switch t {
	case AssetTypeJS, AssetTypeCSS, AssetTypeHTML:
		return string(t)
	case AssetTypeIMG:
		return "Images"
	case AssetTypeFont:
		return "Fonts"
	default:
		return cases.Title(language.English).String(strings.ToLower(string(t)))
	}
}

// Metric keys.
const (
	MetricTotalSize           = "webpack.totalSizeByTypeALL"
	MetricTotalInitialSizeJS  = "webpack.totalInitialSizeJS"
	MetricTotalInitialSizeCSS = "webpack.totalInitialSizeCSS"
	MetricAssetCount          = "webpack.assetCount"
	MetricChunkCount          = "webpack.chunkCount"
	MetricModuleCount         = "webpack.moduleCount"
)

// TypeMetric returns the total-size metric key of an asset type.
func TypeMetric(t AssetType) string {
	return "webpack.totalSizeByType" + string(t)
}

// MetricKind tells how a metric value is displayed.
type MetricKind int

const (
	// KindSize values are byte counts.
	KindSize MetricKind = iota
	// KindCount values are plain counts.
	KindCount
)

// MetricDef describes a reported metric.
type MetricDef struct {
	Key   string
	Label string
	Kind  MetricKind
}

// Metrics lists the job metrics in report order.
var Metrics = buildMetricDefs()

func buildMetricDefs() []MetricDef {
	defs := []MetricDef{{Key: MetricTotalSize, Label: "Bundle Size", Kind: KindSize}}
	for _, t := range AssetTypes {
		defs = append(defs, MetricDef{Key: TypeMetric(t), Label: t.Label(), Kind: KindSize})
	}
	return append(defs,
		MetricDef{Key: MetricTotalInitialSizeJS, Label: "Initial JS", Kind: KindSize},
		MetricDef{Key: MetricTotalInitialSizeCSS, Label: "Initial CSS", Kind: KindSize},
		MetricDef{Key: MetricAssetCount, Label: "Assets", Kind: KindCount},
		MetricDef{Key: MetricChunkCount, Label: "Chunks", Kind: KindCount},
		MetricDef{Key: MetricModuleCount, Label: "Modules", Kind: KindCount},
	)
}

// JobSource is the input of one job. Only webpack stats are supported.
type JobSource struct {
	Webpack *webpack.Stats
}

// Job is one comparison unit: the metrics of a single build.
type Job struct {
	Label   string           `json:"label"`
	Meta    JobMeta          `json:"meta"`
	Metrics map[string]int64 `json:"metrics"`
	Assets  []AssetMetric    `json:"assets"`
}

// JobMeta carries build metadata copied from the stats.
type JobMeta struct {
	Hash    string `json:"hash,omitempty"`
	BuiltAt int64  `json:"builtAt,omitempty"`
}

// AssetMetric is one asset of a job.
type AssetMetric struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Type      AssetType `json:"type"`
	IsEntry   bool      `json:"isEntry,omitempty"`
	IsInitial bool      `json:"isInitial,omitempty"`
	IsChunk   bool      `json:"isChunk,omitempty"`
}

// CreateJobs builds one job per source. The first source is the current
// build, any following one is a baseline.
func CreateJobs(sources []JobSource) ([]Job, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	jobs := make([]Job, 0, len(sources))
	for i, src := range sources {
		if src.Webpack == nil {
			return nil, fmt.Errorf("%w: source %d has no webpack stats", ErrNoSources, i)
		}
		jobs = append(jobs, newJob(fmt.Sprintf("#%d", i+1), src.Webpack))
	}
	return jobs, nil
}

func newJob(label string, stats *webpack.Stats) Job {
	entry := make(map[string]bool)
	initial := make(map[string]bool)
	chunk := make(map[string]bool)

	for _, assets := range stats.Entrypoints {
		for _, name := range assets {
			entry[name] = true
		}
	}
	for _, c := range stats.Chunks {
		for _, f := range c.Files {
			chunk[f] = true
			if c.Initial {
				initial[f] = true
			}
			if c.Entry {
				entry[f] = true
			}
		}
	}

	job := Job{
		Label: label,
		Meta: JobMeta{
			Hash:    stats.Hash,
			BuiltAt: stats.BuiltAt,
		},
		Metrics: make(map[string]int64, len(Metrics)),
		Assets:  make([]AssetMetric, 0, len(stats.Assets)),
	}
	for _, def := range Metrics {
		job.Metrics[def.Key] = 0
	}

	for _, a := range stats.Assets {
		am := AssetMetric{
			Name:      a.Name,
			Size:      a.Size,
			Type:      TypeOf(a.Name),
			IsEntry:   entry[a.Name],
			IsInitial: initial[a.Name],
			IsChunk:   chunk[a.Name],
		}
		job.Assets = append(job.Assets, am)

		job.Metrics[MetricTotalSize] += am.Size
		job.Metrics[TypeMetric(am.Type)] += am.Size
		if am.IsInitial {
			switch am.Type {
			case AssetTypeJS:
				job.Metrics[MetricTotalInitialSizeJS] += am.Size
			case AssetTypeCSS:
				job.Metrics[MetricTotalInitialSizeCSS] += am.Size
			}
		}
	}

	job.Metrics[MetricAssetCount] = int64(len(stats.Assets))
	job.Metrics[MetricChunkCount] = int64(len(stats.Chunks))
	job.Metrics[MetricModuleCount] = int64(len(stats.Modules))

	sort.Slice(job.Assets, func(i, j int) bool { return job.Assets[i].Name < job.Assets[j].Name })
	return job
}
