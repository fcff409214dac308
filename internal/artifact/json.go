package artifact

import (
	"encoding/json"

	"github.com/nao1215/bundlestats/internal/bundle"
)

// Document is the content of the JSON artifact.
type Document struct {
	Jobs   []bundle.Job   `json:"jobs"`
	Report *bundle.Report `json:"report"`
}

func renderJSON(jobs []bundle.Job, report *bundle.Report) ([]byte, error) {
	data, err := json.MarshalIndent(Document{Jobs: jobs, Report: report}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
