package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if !cfg.HTML || !cfg.JSON {
		t.Error("expected both report types by default")
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("expected Timeout to be 2m, got %v", cfg.Timeout)
	}
	if cfg.SkipArtifactUpload || cfg.RecordHistory {
		t.Error("expected upload enabled and history disabled by default")
	}
	if cfg.OutDir != XDGCacheDir() || cfg.HistoryDir != XDGDataDir() {
		t.Errorf("unexpected default dirs: %s, %s", cfg.OutDir, cfg.HistoryDir)
	}
}

func TestRunIDAndArtifactName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id           string
		wantRunID    string
		wantArtifact string
		wantTitle    string
	}{
		{id: "", wantRunID: "bundle-stats", wantArtifact: "bundle-stats", wantTitle: "Bundle Stats"},
		{id: "pr-42", wantRunID: "bundle-stats / pr-42", wantArtifact: "bundle-stats-pr-42", wantTitle: "bundle-stats / pr-42"},
	}

	for _, tt := range tests {
		t.Run("id="+tt.id, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{ID: tt.id}
			if got := cfg.RunID(); got != tt.wantRunID {
				t.Errorf("RunID() = %q, want %q", got, tt.wantRunID)
			}
			if got := cfg.ArtifactName(); got != tt.wantArtifact {
				t.Errorf("ArtifactName() = %q, want %q", got, tt.wantArtifact)
			}
			if got := cfg.Title(); got != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.StatsPath = "dist/stats.json"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "no stats path", modify: func(c *Config) { c.StatsPath = "" }, wantErr: ErrNoStatsPath},
		{name: "no out dir", modify: func(c *Config) { c.OutDir = "" }, wantErr: ErrNoOutDir},
		{name: "no report type", modify: func(c *Config) { c.HTML, c.JSON = false, false }, wantErr: ErrNoReportType},
		{name: "JSON only", modify: func(c *Config) { c.HTML = false }},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "id with slash", modify: func(c *Config) { c.ID = "a/b" }, wantErr: ErrInvalidID},
		{name: "s3 without bucket", modify: func(c *Config) { c.ArtifactDestination = "s3:///x" }, wantErr: ErrInvalidDestination},
		{name: "s3 destination", modify: func(c *Config) { c.ArtifactDestination = "s3://bucket/x" }},
		{name: "token without repository", modify: func(c *Config) { c.Token = "t"; c.SHA = "abc" }, wantErr: ErrMissingRepository},
		{name: "token without sha", modify: func(c *Config) { c.Token = "t"; c.Repository = "o/r" }, wantErr: ErrMissingRepository},
		{name: "token with commit", modify: func(c *Config) { c.Token = "t"; c.Repository = "o/r"; c.SHA = "abc" }},
		{name: "history without dir", modify: func(c *Config) { c.RecordHistory = true; c.HistoryDir = "" }, wantErr: ErrNoHistoryDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultOutDir(t *testing.T) {
	t.Parallel()

	if got := DefaultOutDir("/runner/_temp"); got != filepath.Join("/runner/_temp", "bundle-stats") {
		t.Errorf("unexpected out dir %s", got)
	}
	if got := DefaultOutDir(""); got != XDGCacheDir() {
		t.Errorf("unexpected out dir %s", got)
	}
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if filepath.Base(dir) != AppName {
			t.Errorf("%s dir %s does not end with %s", name, dir, AppName)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("set fields only", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile(write(t, "id: web\nhtml: false\ntimeout: 30s\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		values := f.values()
		if len(values) != 3 || values[KeyID] != "web" || values[KeyHTML] != false || values[KeyTimeout] != "30s" {
			t.Errorf("unexpected values %v", values)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile(write(t, ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.values()) != 0 {
			t.Errorf("expected no values, got %v", f.values())
		}
	})

	t.Run("token is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, "repo-token: ghp_x\n")); err == nil {
			t.Error("expected error for repo-token in config file")
		}
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(write(t, "webpack-stat-path: x\n"))
		if err == nil || !strings.Contains(err.Error(), "webpack-stat-path") {
			t.Errorf("expected unknown field error, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(path); got != path {
		t.Errorf("expected explicit path, got %q", got)
	}
	if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
		t.Errorf("expected no file, got %q", got)
	}
}

// newFlags returns a parsed flag set with the run flags.
func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.BoolP(KeyVerbose, "v", false, "verbose")
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return fs
}

// Resolve reads the process environment, so these tests do not run in
// parallel.
func TestResolve(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
	content := "id: from-file\nwebpack-stats-path: file/stats.json\nhtml: false\ntimeout: 45s\nrecord-history: true\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("precedence flag > env > file > default", func(t *testing.T) {
		t.Setenv("INPUT_ID", "from-env")
		t.Setenv("INPUT_WEBPACK-STATS-PATH", "env/stats.json")
		t.Setenv("INPUT_REPO-TOKEN", "tok")
		t.Setenv("INPUT_SKIP-ARTIFACT-UPLOAD", "true")
		t.Setenv("GITHUB_REPOSITORY", "octo/app")
		t.Setenv("GITHUB_SHA", "abc123")
		t.Setenv("RUNNER_TEMP", "/runner/_temp")

		cfg, err := Resolve(newFlags(t, "--config", configPath, "--id", "from-flag"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ID != "from-flag" {
			t.Errorf("flag should win: got %q", cfg.ID)
		}
		if cfg.StatsPath != "env/stats.json" {
			t.Errorf("env should win over file: got %q", cfg.StatsPath)
		}
		if cfg.HTML {
			t.Error("file should win over default for html")
		}
		if !cfg.JSON {
			t.Error("default json should be kept")
		}
		if cfg.Timeout != 45*time.Second {
			t.Errorf("expected file timeout, got %v", cfg.Timeout)
		}
		if !cfg.RecordHistory || !cfg.SkipArtifactUpload {
			t.Errorf("unexpected flags: %+v", cfg)
		}
		if cfg.Token != "tok" || cfg.Repository != "octo/app" || cfg.SHA != "abc123" {
			t.Errorf("unexpected runner values: %+v", cfg)
		}
		if cfg.OutDir != filepath.Join("/runner/_temp", "bundle-stats") {
			t.Errorf("unexpected out dir %s", cfg.OutDir)
		}
		if cfg.ConfigFilePath != configPath {
			t.Errorf("unexpected config path %s", cfg.ConfigFilePath)
		}
	})

	t.Run("empty inputs are unset", func(t *testing.T) {
		t.Setenv("INPUT_ID", "")
		t.Setenv("INPUT_HTML", "")

		cfg, err := Resolve(newFlags(t, "--config", configPath))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ID != "from-file" {
			t.Errorf("expected file id, got %q", cfg.ID)
		}
		if cfg.HTML {
			t.Error("expected file html value")
		}
	})

	t.Run("boolean inputs are true only when exactly true", func(t *testing.T) {
		tests := []struct {
			value string
			want  bool
		}{
			{value: "true", want: true},
			{value: "1", want: false},
			{value: "True", want: false},
			{value: "t", want: false},
			{value: "false", want: false},
		}
		for _, tt := range tests {
			t.Setenv("INPUT_SKIP-ARTIFACT-UPLOAD", tt.value)

			cfg, err := Resolve(newFlags(t, "--config", configPath))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.SkipArtifactUpload != tt.want {
				t.Errorf("skip-artifact-upload=%q: got %v, want %v", tt.value, cfg.SkipArtifactUpload, tt.want)
			}
		}

		t.Setenv("INPUT_SKIP-ARTIFACT-UPLOAD", "")
		cfg, err := Resolve(newFlags(t, "--config", configPath, "--skip-artifact-upload"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.SkipArtifactUpload {
			t.Error("expected the flag to skip the upload")
		}
		if !cfg.RecordHistory {
			t.Error("expected the file's record-history to be kept")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := Resolve(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("flags only", func(t *testing.T) {
		cfg, err := Resolve(newFlags(t, "--config", configPath, "--webpack-stats-path", "flag.json", "--html", "--timeout", "5s", "-v"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StatsPath != "flag.json" || !cfg.HTML || cfg.Timeout != 5*time.Second || !cfg.Verbose {
			t.Errorf("unexpected config %+v", cfg)
		}
	})
}
