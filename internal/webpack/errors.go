package webpack

import "errors"

var (
	// ErrInvalidStats is returned by Validate when the filtered stats cannot
	// be used for reporting. The wrapped message names the offending field.
	ErrInvalidStats = errors.New("invalid webpack stats")

	// ErrReadStats is returned by ReadFile when the stats file is missing or
	// is not valid JSON.
	ErrReadStats = errors.New("failed to read webpack stats")
)
