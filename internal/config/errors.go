package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoStatsPath is returned when webpack-stats-path is not set.
	ErrNoStatsPath = errors.New("no webpack stats path: set the webpack-stats-path input")

	// ErrNoOutDir is returned when the output directory is empty.
	ErrNoOutDir = errors.New("no output directory")

	// ErrNoReportType is returned when both html and json are disabled.
	ErrNoReportType = errors.New("no report type: enable html or json")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidID is returned when the id contains a path separator, which
	// would break the artifact name.
	ErrInvalidID = errors.New("invalid id: must not contain path separators")

	// ErrInvalidDestination is returned for an s3:// destination without bucket.
	ErrInvalidDestination = errors.New("invalid artifact destination: expected s3://bucket/prefix")

	// ErrMissingRepository is returned when a token is set but the commit to
	// report on is unknown.
	ErrMissingRepository = errors.New("repo-token is set but GITHUB_REPOSITORY or GITHUB_SHA is missing")

	// ErrNoHistoryDir is returned when history is enabled without directory.
	ErrNoHistoryDir = errors.New("record-history is enabled but no history directory is set")
)
