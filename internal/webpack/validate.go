package webpack

import "fmt"

// Validate checks filtered stats and returns an error wrapping
// ErrInvalidStats that names the first offending field, or nil.
//
// Only assets are required. Chunks, modules and entrypoints enrich the
// report but a stats file written with `--json=assets` is still accepted.
func Validate(stats *Stats) error {
	if stats == nil || len(stats.Assets) == 0 {
		return fmt.Errorf("%w: assets: expected a non-empty list", ErrInvalidStats)
	}

	for i, a := range stats.Assets {
		if a.Name == "" {
			return fmt.Errorf("%w: assets[%d]: missing name", ErrInvalidStats, i)
		}
		if a.missingSize {
			return fmt.Errorf("%w: assets[%d] (%s): missing size", ErrInvalidStats, i, a.Name)
		}
		if a.Size < 0 {
			return fmt.Errorf("%w: assets[%d] (%s): negative size %d", ErrInvalidStats, i, a.Name, a.Size)
		}
	}

	for i, m := range stats.Modules {
		if m.Size < 0 {
			return fmt.Errorf("%w: modules[%d] (%s): negative size %d", ErrInvalidStats, i, m.Name, m.Size)
		}
	}

	return nil
}
