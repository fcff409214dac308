package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nao1215/bundlestats/internal/actions"
)

// Input names. They are the action input names, the flag names and the
// config file keys.
const (
	KeyID                  = "id"
	KeyStatsPath           = "webpack-stats-path"
	KeyBaselinePath        = "webpack-stats-baseline-path"
	KeyToken               = "repo-token"
	KeySkipArtifactUpload  = "skip-artifact-upload"
	KeyOutDir              = "out-dir"
	KeyHTML                = "html"
	KeyJSON                = "json"
	KeyArtifactDestination = "artifact-destination"
	KeyS3Region            = "s3-region"
	KeyRecordHistory       = "record-history"
	KeyHistoryDir          = "history-dir"
	KeyTimeout             = "timeout"
	KeyConfig              = "config"
	KeyVerbose             = "verbose"
)

// inputEnvPrefix is the prefix of the environment variables the runner
// sets for action inputs: input "repo-token" is INPUT_REPO-TOKEN.
const inputEnvPrefix = "INPUT"

// runner-provided values, never set from flags or the config file
const (
	keyRepository   = "github-repository"
	keySHA          = "github-sha"
	keyAPIURL       = "github-api-url"
	keyRuntimeToken = "actions-runtime-token"
	keyResultsURL   = "actions-results-url"
)

// RegisterFlags adds the run flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyID, "", "report id, appended to the status context and the artifact name")
	fs.String(KeyStatsPath, "", "webpack stats file of the current build")
	fs.String(KeyBaselinePath, "", "webpack stats file to compare against")
	fs.String(KeyToken, "", "token used to post the commit status")
	fs.Bool(KeySkipArtifactUpload, false, "do not upload the report files")
	fs.String(KeyOutDir, "", "directory the report files are written to (default: $RUNNER_TEMP/bundle-stats or the user cache directory)")
	fs.Bool(KeyHTML, true, "render the HTML report")
	fs.Bool(KeyJSON, true, "render the JSON report")
	fs.String(KeyArtifactDestination, "", "s3://bucket/prefix or directory to upload to instead of the Actions artifact service")
	fs.String(KeyS3Region, "", "AWS region of the destination bucket")
	fs.Bool(KeyRecordHistory, false, "record the run in the history database")
	fs.String(KeyHistoryDir, "", "directory of the history database (default: the user data directory)")
	fs.Duration(KeyTimeout, DefaultTimeout, "timeout of the status and upload requests")
	fs.String(KeyConfig, "", "config file (default: .bundle-stats.yaml in the current or home directory)")
}

// Resolve builds a Config from, in order of precedence: flags set on the
// command line, INPUT_* environment variables, the config file and the
// defaults. Runner values (GITHUB_REPOSITORY, GITHUB_SHA, ...) are read
// from the environment. The result is not validated.
func Resolve(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(inputEnvPrefix)
	v.AutomaticEnv()

	defaults := NewConfig()
	v.SetDefault(KeyOutDir, DefaultOutDir(os.Getenv(actions.EnvRunnerTemp)))
	v.SetDefault(KeyHTML, defaults.HTML)
	v.SetDefault(KeyJSON, defaults.JSON)
	v.SetDefault(KeyHistoryDir, defaults.HistoryDir)
	v.SetDefault(KeyTimeout, defaults.Timeout)

	for _, key := range []string{
		KeyID, KeyStatsPath, KeyBaselinePath, KeyToken, KeySkipArtifactUpload,
		KeyOutDir, KeyHTML, KeyJSON, KeyArtifactDestination, KeyS3Region,
		KeyRecordHistory, KeyHistoryDir, KeyTimeout, KeyConfig, KeyVerbose,
	} {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	runnerEnv := map[string]string{
		keyRepository:   actions.EnvRepository,
		keySHA:          actions.EnvSHA,
		keyAPIURL:       actions.EnvAPIURL,
		keyRuntimeToken: actions.EnvRuntimeToken,
		keyResultsURL:   actions.EnvResultsURL,
	}
	for key, env := range runnerEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	explicit := v.GetString(KeyConfig)
	path := FindConfigFile(explicit)
	if explicit != "" && path == "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
	}
	if path != "" {
		file, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if err := v.MergeConfigMap(file.values()); err != nil {
			return nil, err
		}
	}

	return &Config{
		ID:                  v.GetString(KeyID),
		StatsPath:           v.GetString(KeyStatsPath),
		BaselinePath:        v.GetString(KeyBaselinePath),
		Token:               v.GetString(KeyToken),
		SkipArtifactUpload:  inputBool(v, KeySkipArtifactUpload),
		OutDir:              v.GetString(KeyOutDir),
		HTML:                inputBool(v, KeyHTML),
		JSON:                inputBool(v, KeyJSON),
		ArtifactDestination: v.GetString(KeyArtifactDestination),
		S3Region:            v.GetString(KeyS3Region),
		RecordHistory:       inputBool(v, KeyRecordHistory),
		HistoryDir:          v.GetString(KeyHistoryDir),
		Timeout:             v.GetDuration(KeyTimeout),
		Verbose:             v.GetBool(KeyVerbose),
		ConfigFilePath:      path,
		Repository:          v.GetString(keyRepository),
		SHA:                 v.GetString(keySHA),
		APIURL:              v.GetString(keyAPIURL),
		RuntimeToken:        v.GetString(keyRuntimeToken),
		ResultsURL:          v.GetString(keyResultsURL),
	}, nil
}

// inputBool reads a boolean input. The runner passes inputs as strings,
// which are true only when exactly "true"; flags and the config file carry
// real booleans.
func inputBool(v *viper.Viper, key string) bool {
	switch val := v.Get(key).(type) {
	case string:
		return val == "true"
	case bool:
		return val
	default:
		return v.GetBool(key)
	}
}
