package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name.
const DefaultConfigFile = ".bundle-stats.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of .bundle-stats.yaml. Keys match the action
// inputs. Nil fields are unset. There is no token field: secrets belong
// in the workflow, and a file containing one is rejected.
type File struct {
	ID                  *string `yaml:"id"`
	StatsPath           *string `yaml:"webpack-stats-path"`
	BaselinePath        *string `yaml:"webpack-stats-baseline-path"`
	SkipArtifactUpload  *bool   `yaml:"skip-artifact-upload"`
	OutDir              *string `yaml:"out-dir"`
	HTML                *bool   `yaml:"html"`
	JSON                *bool   `yaml:"json"`
	ArtifactDestination *string `yaml:"artifact-destination"`
	S3Region            *string `yaml:"s3-region"`
	RecordHistory       *bool   `yaml:"record-history"`
	HistoryDir          *string `yaml:"history-dir"`
	Timeout             *string `yaml:"timeout"`
}

// LoadConfigFile loads a configuration file. Unknown keys are an error.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// values returns the set fields keyed by input name.
func (f *File) values() map[string]any {
	m := make(map[string]any)
	setString := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			m[key] = *v
		}
	}

	setString(KeyID, f.ID)
	setString(KeyStatsPath, f.StatsPath)
	setString(KeyBaselinePath, f.BaselinePath)
	setBool(KeySkipArtifactUpload, f.SkipArtifactUpload)
	setString(KeyOutDir, f.OutDir)
	setBool(KeyHTML, f.HTML)
	setBool(KeyJSON, f.JSON)
	setString(KeyArtifactDestination, f.ArtifactDestination)
	setString(KeyS3Region, f.S3Region)
	setBool(KeyRecordHistory, f.RecordHistory)
	setString(KeyHistoryDir, f.HistoryDir)
	setString(KeyTimeout, f.Timeout)
	return m
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .bundle-stats.yaml in the current directory
//  3. .bundle-stats.yaml in the user's home directory
//
// It returns an empty string if no file is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
