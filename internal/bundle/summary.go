package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nao1215/markdown"
)

// Summary is the bundle-size summary in the three forms a run publishes:
// plain text for the commit status, a markdown line and the JSON encoding of
// the machine-readable insight info.
type Summary struct {
	Text     string
	Markdown string
	JSON     string
}

// NewSummary extracts the bundle-size summary of a report.
// It returns ErrNoSizeTotal when the report has no size-total insight.
func NewSummary(r *Report) (*Summary, error) {
	if r == nil || r.Insights.Webpack.AssetsSizeTotal == nil {
		return nil, ErrNoSizeTotal
	}

	insight := r.Insights.Webpack.AssetsSizeTotal
	if insight.Data.Text == "" {
		return nil, ErrNoSizeTotal
	}

	info, err := json.Marshal(insight.Data.Info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle size info: %w", err)
	}

	return &Summary{
		Text:     insight.Data.Text,
		Markdown: insight.Data.MD,
		JSON:     string(info),
	}, nil
}

// WriteMarkdownReport renders the report as GitHub flavored markdown: the
// size insight, a metrics table and, with a baseline, the changed assets.
func WriteMarkdownReport(buf *bytes.Buffer, title string, r *Report) error {
	md := markdown.NewMarkdown(buf)

	md.H2(title)
	md.PlainText("")

	if insight := r.Insights.Webpack.AssetsSizeTotal; insight != nil {
		md.PlainText(insight.Data.MD)
		md.PlainText("")
	}

	md.Table(markdown.TableSet{
		Header: metricHeader(r),
		Rows:   metricTableRows(r),
	})
	md.PlainText("")

	if r.HasBaseline() {
		changed := r.ChangedAssets()
		md.H3("Changed assets")
		md.PlainText("")
		if len(changed) == 0 {
			md.PlainText("No asset changed.")
		} else {
			md.Table(markdown.TableSet{
				Header: []string{"Asset", "Status", "Size", "Change"},
				Rows:   assetTableRows(changed),
			})
		}
		md.PlainText("")
	}

	return md.Build()
}

func metricHeader(r *Report) []string {
	header := []string{"Metric"}
	for i, run := range r.Runs {
		label := "Job " + run.Label
		if i == 0 && r.HasBaseline() {
			label += " (current)"
		} else if i == len(r.Runs)-1 && r.HasBaseline() {
			label += " (baseline)"
		}
		header = append(header, label)
	}
	return header
}

func metricTableRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Sizes))
	for _, row := range r.Sizes {
		// per-type totals that are zero everywhere only add noise
		if !row.Changed && row.Runs[0].Value == 0 {
			continue
		}
		cells := []string{row.Label}
		for _, v := range row.Runs {
			cell := v.DisplayValue
			if v.DisplayDelta != "" && v.Delta != 0 {
				cell += fmt.Sprintf(" (%s, %s)", v.DisplayDelta, v.DisplayDeltaPercentage)
			}
			cells = append(cells, cell)
		}
		rows = append(rows, cells)
	}
	return rows
}

func assetTableRows(assets []AssetRow) [][]string {
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		size, change := "-", "-"
		if current := a.Runs[0]; current != nil {
			size = current.DisplayValue
			change = fmt.Sprintf("%s (%s)", current.DisplayDelta, current.DisplayDeltaPercentage)
		} else if base := a.Runs[len(a.Runs)-1]; base != nil {
			change = FormatDelta(-base.Value)
		}
		rows = append(rows, []string{"`" + a.Name + "`", string(a.Status), size, change})
	}
	return rows
}
