package artifact

import (
	"io"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nao1215/bundlestats/internal/bundle"
)

// topAssetCount is the number of assets shown in the largest-assets chart.
const topAssetCount = 15

// renderHTML writes a chart page: size by asset type per run, and the
// largest assets of the current run.
func renderHTML(w io.Writer, title string, report *bundle.Report) error {
	page := components.NewPage()
	page.PageTitle = title

	page.AddCharts(
		sizeByTypeChart(title, report),
		largestAssetsChart(report),
	)

	return page.Render(w)
}

func sizeByTypeChart(title string, report *bundle.Report) *charts.Bar {
	subtitle := "Size by asset type"
	if insight := report.Insights.Webpack.AssetsSizeTotal; insight != nil {
		subtitle = insight.Data.Text
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1100px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	)

	labels := make([]string, 0, len(bundle.AssetTypes)+1)
	keys := make([]string, 0, len(bundle.AssetTypes)+1)
	labels = append(labels, "Total")
	keys = append(keys, bundle.MetricTotalSize)
	for _, t := range bundle.AssetTypes {
		labels = append(labels, t.Label())
		keys = append(keys, bundle.TypeMetric(t))
	}
	bar.SetXAxis(labels)

	for i, run := range report.Runs {
		data := make([]opts.BarData, 0, len(keys))
		for _, key := range keys {
			var value int64
			var name string
			if row := report.Metric(key); row != nil {
				value = row.Runs[i].Value
				name = row.Runs[i].DisplayValue
			}
			data = append(data, opts.BarData{Name: name, Value: value})
		}
		bar.AddSeries(runLabel(report, i, run), data)
	}

	return bar
}

func largestAssetsChart(report *bundle.Report) *charts.Bar {
	assets := make([]bundle.AssetRow, 0, len(report.Assets))
	for _, a := range report.Assets {
		if a.Runs[0] != nil {
			assets = append(assets, a)
		}
	}
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].Runs[0].Value > assets[j].Runs[0].Value
	})
	if len(assets) > topAssetCount {
		assets = assets[:topAssetCount]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1100px",
			Height: "480px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Largest assets",
			Subtitle: strings.Join(statusCounts(report), ", "),
		}),
	)

	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	bar.SetXAxis(names)

	for i, run := range report.Runs {
		data := make([]opts.BarData, len(assets))
		for j, a := range assets {
			if v := a.Runs[i]; v != nil {
				data[j] = opts.BarData{Name: v.DisplayValue, Value: v.Value}
			} else {
				data[j] = opts.BarData{Value: 0}
			}
		}
		bar.AddSeries(runLabel(report, i, run), data)
	}

	return bar
}

func runLabel(report *bundle.Report, i int, run bundle.RunInfo) string {
	label := "Job " + run.Label
	if !report.HasBaseline() {
		return label
	}
	if i == 0 {
		return label + " (current)"
	}
	if i == len(report.Runs)-1 {
		return label + " (baseline)"
	}
	return label
}

// statusCounts summarizes asset changes ("2 added", "1 removed").
func statusCounts(report *bundle.Report) []string {
	if !report.HasBaseline() {
		return []string{bundle.FormatCount(int64(len(report.Assets))) + " assets"}
	}

	counts := make(map[bundle.AssetStatus]int)
	for _, a := range report.Assets {
		counts[a.Status]++
	}

	parts := make([]string, 0, 3)
	for _, status := range []bundle.AssetStatus{bundle.AssetAdded, bundle.AssetRemoved, bundle.AssetChanged} {
		if n := counts[status]; n > 0 {
			parts = append(parts, bundle.FormatCount(int64(n))+" "+string(status))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no asset changed")
	}
	return parts
}
