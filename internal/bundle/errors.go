package bundle

import "errors"

var (
	// ErrNoSources is returned by CreateJobs when there is nothing to build
	// a job from.
	ErrNoSources = errors.New("no job sources")

	// ErrNoJobs is returned by CreateReport for an empty job list.
	ErrNoJobs = errors.New("no jobs to report")

	// ErrNoSizeTotal is returned when a report carries no bundle-size
	// insight to summarize.
	ErrNoSizeTotal = errors.New("no bundle size information available")
)
