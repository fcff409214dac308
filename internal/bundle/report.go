package bundle

import (
	"fmt"
	"sort"
)

// Report aggregates the insights of one or more jobs. Runs are in job order:
// index 0 is the current build, the last run is the baseline that deltas
// are computed against.
type Report struct {
	Runs     []RunInfo   `json:"runs"`
	Sizes    []MetricRow `json:"sizes"`
	Assets   []AssetRow  `json:"assets"`
	Insights Insights    `json:"insights"`
}

// RunInfo identifies the job behind a run column.
type RunInfo struct {
	Label   string `json:"label"`
	Hash    string `json:"hash,omitempty"`
	BuiltAt int64  `json:"builtAt,omitempty"`
}

// RunValue is the value of a metric in one run.
type RunValue struct {
	Value                  int64   `json:"value"`
	DisplayValue           string  `json:"displayValue"`
	Delta                  int64   `json:"delta,omitempty"`
	DisplayDelta           string  `json:"displayDelta,omitempty"`
	DeltaPercentage        float64 `json:"deltaPercentage,omitempty"`
	DisplayDeltaPercentage string  `json:"displayDeltaPercentage,omitempty"`
}

// MetricRow holds one metric across all runs.
type MetricRow struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Changed bool       `json:"changed"`
	Runs    []RunValue `json:"runs"`
}

// AssetStatus describes how an asset changed against the baseline.
type AssetStatus string

// Asset statuses.
const (
	AssetAdded     AssetStatus = "added"
	AssetRemoved   AssetStatus = "removed"
	AssetChanged   AssetStatus = "changed"
	AssetUnchanged AssetStatus = "unchanged"
)

// AssetRow holds one asset across all runs. A nil run value means the asset
// does not exist in that run.
type AssetRow struct {
	Name      string      `json:"name"`
	Type      AssetType   `json:"type"`
	IsEntry   bool        `json:"isEntry,omitempty"`
	IsInitial bool        `json:"isInitial,omitempty"`
	Status    AssetStatus `json:"status"`
	Runs      []*RunValue `json:"runs"`
}

// Insights are keyed by source.
type Insights struct {
	Webpack WebpackInsights `json:"webpack"`
}

// WebpackInsights are the insights derived from webpack stats.
type WebpackInsights struct {
	AssetsSizeTotal *Insight `json:"assetsSizeTotal,omitempty"`
}

// InsightType classifies an insight.
type InsightType string

// Insight types.
const (
	InsightTypeInfo InsightType = "INFO"
	InsightSuccess  InsightType = "SUCCESS"
	InsightWarning  InsightType = "WARNING"
)

// Insight is a human- and machine-readable finding.
type Insight struct {
	Type InsightType `json:"type"`
	Data InsightData `json:"data"`
}

// InsightData carries the text, markdown and machine-readable forms.
type InsightData struct {
	Text string      `json:"text"`
	MD   string      `json:"md"`
	Info InsightInfo `json:"info"`
}

// InsightInfo is the machine-readable part of an insight.
type InsightInfo struct {
	DisplayValue           string  `json:"displayValue"`
	Value                  int64   `json:"value"`
	Delta                  int64   `json:"delta"`
	DeltaPercentage        float64 `json:"deltaPercentage"`
	DisplayDeltaPercentage string  `json:"displayDeltaPercentage"`
}

// HasBaseline reports whether the report compares against a baseline.
func (r *Report) HasBaseline() bool {
	return len(r.Runs) > 1
}

// Metric returns the row of a metric key, or nil.
func (r *Report) Metric(key string) *MetricRow {
	for i := range r.Sizes {
		if r.Sizes[i].Key == key {
			return &r.Sizes[i]
		}
	}
	return nil
}

// ChangedAssets returns the asset rows that differ from the baseline.
func (r *Report) ChangedAssets() []AssetRow {
	changed := make([]AssetRow, 0)
	for _, a := range r.Assets {
		if a.Status != AssetUnchanged {
			changed = append(changed, a)
		}
	}
	return changed
}

// CreateReport compares the jobs and derives the insights.
func CreateReport(jobs []Job) (*Report, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	report := &Report{
		Runs: make([]RunInfo, len(jobs)),
	}
	for i, job := range jobs {
		report.Runs[i] = RunInfo{
			Label:   job.Label,
			Hash:    job.Meta.Hash,
			BuiltAt: job.Meta.BuiltAt,
		}
	}

	report.Sizes = buildMetricRows(jobs)
	report.Assets = buildAssetRows(jobs)
	report.Insights.Webpack.AssetsSizeTotal = sizeTotalInsight(report)

	return report, nil
}

func buildMetricRows(jobs []Job) []MetricRow {
	rows := make([]MetricRow, 0, len(Metrics))
	for _, def := range Metrics {
		row := MetricRow{
			Key:   def.Key,
			Label: def.Label,
			Runs:  make([]RunValue, len(jobs)),
		}

		base := jobs[len(jobs)-1].Metrics[def.Key]
		for i, job := range jobs {
			value := job.Metrics[def.Key]
			row.Runs[i] = newRunValue(def.Kind, value, base, i < len(jobs)-1)
			if value != base {
				row.Changed = true
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func buildAssetRows(jobs []Job) []AssetRow {
	byName := make(map[string]*AssetRow)
	names := make([]string, 0)

	for i, job := range jobs {
		for _, a := range job.Assets {
			row, ok := byName[a.Name]
			if !ok {
				row = &AssetRow{
					Name: a.Name,
					Type: a.Type,
					Runs: make([]*RunValue, len(jobs)),
				}
				byName[a.Name] = row
				names = append(names, a.Name)
			}
			row.IsEntry = row.IsEntry || a.IsEntry
			row.IsInitial = row.IsInitial || a.IsInitial
			// merged compilations may emit the same name more than once
			size := a.Size
			if prev := row.Runs[i]; prev != nil {
				size += prev.Value
			}
			row.Runs[i] = &RunValue{Value: size, DisplayValue: FormatSize(size)}
		}
	}

	sort.Strings(names)
	rows := make([]AssetRow, 0, len(names))
	last := len(jobs) - 1
	for _, name := range names {
		row := byName[name]
		current, base := row.Runs[0], row.Runs[last]

		switch {
		case last == 0:
			row.Status = AssetUnchanged
		case current == nil:
			row.Status = AssetRemoved
		case base == nil:
			row.Status = AssetAdded
		case current.Value != base.Value:
			row.Status = AssetChanged
		default:
			row.Status = AssetUnchanged
		}

		if last > 0 {
			var baseValue int64
			if base != nil {
				baseValue = base.Value
			}
			for i := 0; i < last; i++ {
				if row.Runs[i] != nil {
					v := newRunValue(KindSize, row.Runs[i].Value, baseValue, true)
					row.Runs[i] = &v
				}
			}
		}
		rows = append(rows, *row)
	}
	return rows
}

func newRunValue(kind MetricKind, value, base int64, withDelta bool) RunValue {
	rv := RunValue{Value: value}
	if kind == KindSize {
		rv.DisplayValue = FormatSize(value)
	} else {
		rv.DisplayValue = FormatCount(value)
	}

	if !withDelta {
		return rv
	}

	rv.Delta = value - base
	rv.DeltaPercentage = deltaPercentage(value, base)
	rv.DisplayDeltaPercentage = FormatPercentage(rv.DeltaPercentage)
	if kind == KindSize {
		rv.DisplayDelta = FormatDelta(rv.Delta)
	} else {
		rv.DisplayDelta = fmt.Sprintf("%+d", rv.Delta)
	}
	return rv
}

// sizeTotalInsight summarizes the total bundle size of the current run.
// It returns nil when the current run has no assets.
func sizeTotalInsight(r *Report) *Insight {
	row := r.Metric(MetricTotalSize)
	if row == nil || len(row.Runs) == 0 {
		return nil
	}
	if r.Metric(MetricAssetCount).Runs[0].Value == 0 {
		return nil
	}

	current := row.Runs[0]
	insight := &Insight{
		Type: InsightTypeInfo,
		Data: InsightData{
			Info: InsightInfo{
				DisplayValue:           current.DisplayValue,
				Value:                  current.Value,
				Delta:                  current.Delta,
				DeltaPercentage:        current.DeltaPercentage,
				DisplayDeltaPercentage: current.DisplayDeltaPercentage,
			},
		},
	}

	if !r.HasBaseline() {
		insight.Data.Text = fmt.Sprintf("Bundle size is %s.", current.DisplayValue)
		insight.Data.MD = fmt.Sprintf("**Bundle size** is **%s**.", current.DisplayValue)
		return insight
	}

	change := fmt.Sprintf("(%s, %s)", current.DisplayDelta, current.DisplayDeltaPercentage)
	insight.Data.Info.DisplayValue = current.DisplayValue + " " + change

	switch {
	case current.Delta > 0:
		insight.Type = InsightWarning
		insight.Data.Text = fmt.Sprintf("Bundle size increased to %s %s.", current.DisplayValue, change)
		insight.Data.MD = fmt.Sprintf("**Bundle size** increased to **%s** %s.", current.DisplayValue, change)
	case current.Delta < 0:
		insight.Type = InsightSuccess
		insight.Data.Text = fmt.Sprintf("Bundle size decreased to %s %s.", current.DisplayValue, change)
		insight.Data.MD = fmt.Sprintf("**Bundle size** decreased to **%s** %s.", current.DisplayValue, change)
	default:
		insight.Data.Text = fmt.Sprintf("Bundle size did not change: %s.", current.DisplayValue)
		insight.Data.MD = fmt.Sprintf("**Bundle size** did not change: **%s**.", current.DisplayValue)
	}

	return insight
}
