package artifact

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nao1215/bundlestats/internal/bundle"
)

// Artifact file names.
const (
	HTMLFilename = "bundle-stats.html"
	JSONFilename = "bundle-stats.json"
)

// ErrNoArtifacts is returned when no output format was requested.
var ErrNoArtifacts = errors.New("no artifact type requested")

// Kind is the artifact format.
type Kind string

// Artifact kinds.
const (
	KindHTML Kind = "html"
	KindJSON Kind = "json"
)

// Artifact is a rendered output file. It lives in memory until WriteAll
// persists it.
type Artifact struct {
	Kind     Kind
	Filename string
	Output   []byte
}

// Options selects the artifact formats to render.
type Options struct {
	HTML bool
	JSON bool

	// Title is used as page title of the HTML artifact.
	// Defaults to "Bundle Stats".
	Title string
}

// Artifacts holds the rendered artifacts by type. Unrequested types are nil.
type Artifacts struct {
	HTML *Artifact
	JSON *Artifact
}

// List returns the rendered artifacts in a stable order (HTML, JSON).
func (a Artifacts) List() []Artifact {
	list := make([]Artifact, 0, 2)
	if a.HTML != nil {
		list = append(list, *a.HTML)
	}
	if a.JSON != nil {
		list = append(list, *a.JSON)
	}
	return list
}

// CreateArtifacts renders the requested artifacts for a report.
func CreateArtifacts(jobs []bundle.Job, report *bundle.Report, opts Options) (Artifacts, error) {
	var out Artifacts

	if !opts.HTML && !opts.JSON {
		return out, ErrNoArtifacts
	}
	if report == nil {
		return out, bundle.ErrNoJobs
	}
	if opts.Title == "" {
		opts.Title = "Bundle Stats"
	}

	if opts.HTML {
		var buf bytes.Buffer
		if err := renderHTML(&buf, opts.Title, report); err != nil {
			return out, fmt.Errorf("failed to render HTML artifact: %w", err)
		}
		out.HTML = &Artifact{Kind: KindHTML, Filename: HTMLFilename, Output: buf.Bytes()}
	}

	if opts.JSON {
		data, err := renderJSON(jobs, report)
		if err != nil {
			return out, fmt.Errorf("failed to render JSON artifact: %w", err)
		}
		out.JSON = &Artifact{Kind: KindJSON, Filename: JSONFilename, Output: data}
	}

	return out, nil
}
