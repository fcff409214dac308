package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths and as the run id prefix.
	AppName = "bundle-stats"

	// DefaultTimeout bounds each request to the status API and the
	// artifact service. Uploads of large HTML reports over a slow runner
	// network take a while, so this is generous.
	DefaultTimeout = 2 * time.Minute

	// DefaultTitle is the HTML report title when no run id is set.
	DefaultTitle = "Bundle Stats"
)

// Config holds all options of a run. It is built once by Resolve, or by
// NewConfig in tests, and not modified afterwards.
//
// Design decision: a single flat struct, like the inputs of the action.
// Runner-provided values (repository, commit, API endpoints) live here
// too so that the pipeline never reads the environment itself.
type Config struct {
	// ID distinguishes several reports in one workflow. It is appended to
	// the commit status context and the artifact name.
	ID string

	// StatsPath is the webpack stats file of the current build. Required.
	StatsPath string

	// BaselinePath is an optional webpack stats file to compare against.
	BaselinePath string

	// Token authorizes the commit status request. Without a token the
	// summary is logged as a warning instead.
	Token string

	// SkipArtifactUpload disables the artifact upload.
	SkipArtifactUpload bool

	// OutDir is the directory the report files are written to.
	OutDir string

	// HTML and JSON select the report files to render.
	HTML bool
	JSON bool

	// ArtifactDestination overrides the Actions artifact service with an
	// s3://bucket/prefix URI or a local directory.
	ArtifactDestination string

	// S3Region is the region of the destination bucket.
	S3Region string

	// RecordHistory stores the run in the history database.
	RecordHistory bool

	// HistoryDir holds the history database.
	HistoryDir string

	// Timeout is the HTTP timeout of the status and upload requests.
	Timeout time.Duration

	// Verbose enables debug output.
	Verbose bool

	// ConfigFilePath is the config file that was loaded, if any.
	ConfigFilePath string

	// Repository ("owner/name") and SHA identify the commit to report on.
	Repository string
	SHA        string

	// APIURL is the GitHub REST API base URL.
	APIURL string

	// RuntimeToken and ResultsURL give access to the Actions artifact
	// service.
	RuntimeToken string
	ResultsURL   string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutDir:     XDGCacheDir(),
		HTML:       true,
		JSON:       true,
		HistoryDir: XDGDataDir(),
		Timeout:    DefaultTimeout,
	}
}

// RunID is the commit status context: "bundle-stats" or
// "bundle-stats / <id>".
func (c *Config) RunID() string {
	if c.ID == "" {
		return AppName
	}
	return AppName + " / " + c.ID
}

// ArtifactName is the uploaded bundle name: "bundle-stats" or
// "bundle-stats-<id>".
func (c *Config) ArtifactName() string {
	if c.ID == "" {
		return AppName
	}
	return AppName + "-" + c.ID
}

// Title is the HTML report title.
func (c *Config) Title() string {
	if c.ID == "" {
		return DefaultTitle
	}
	return c.RunID()
}

// XDGDataDir returns the data directory, where the history database lives.
// On Linux: ~/.local/share/bundle-stats
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory.
// On Linux: ~/.config/bundle-stats
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the cache directory, the default output directory
// outside of a runner.
// On Linux: ~/.cache/bundle-stats
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultOutDir returns the output directory for a runner temp directory:
// <runnerTemp>/bundle-stats, or XDGCacheDir when runnerTemp is empty.
func DefaultOutDir(runnerTemp string) string {
	if runnerTemp == "" {
		return XDGCacheDir()
	}
	return filepath.Join(runnerTemp, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.StatsPath == "" {
		return ErrNoStatsPath
	}

	if c.OutDir == "" {
		return ErrNoOutDir
	}

	if !c.HTML && !c.JSON {
		return ErrNoReportType
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if strings.ContainsAny(c.ID, `/\`) {
		return ErrInvalidID
	}

	if d := c.ArtifactDestination; strings.HasPrefix(d, "s3://") {
		u, err := url.Parse(d)
		if err != nil || u.Host == "" {
			return ErrInvalidDestination
		}
	}

	// a token without a commit to report on is a misconfigured job
	if c.Token != "" && (c.Repository == "" || c.SHA == "") {
		return ErrMissingRepository
	}

	if c.RecordHistory && c.HistoryDir == "" {
		return ErrNoHistoryDir
	}

	return nil
}
