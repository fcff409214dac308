package bundle

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups digits for raw byte counts ("1,234,567").
var printer = message.NewPrinter(language.English)

// FormatSize returns a human-readable size using SI units ("120 kB").
func FormatSize(size int64) string {
	if size < 0 {
		return "-" + humanize.Bytes(uint64(-size))
	}
	return humanize.Bytes(uint64(size))
}

// FormatDelta returns a signed human-readable size ("+12 kB", "-3.1 kB", "0 B").
func FormatDelta(delta int64) string {
	switch {
	case delta > 0:
		return "+" + humanize.Bytes(uint64(delta))
	case delta < 0:
		return "-" + humanize.Bytes(uint64(-delta))
	default:
		return "0 B"
	}
}

// FormatPercentage returns a signed percentage with two decimals ("+6.21%").
func FormatPercentage(p float64) string {
	if p == 0 || math.IsNaN(p) {
		return "0%"
	}
	return fmt.Sprintf("%+.2f%%", p)
}

// FormatCount groups digits of a count or raw byte value.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// deltaPercentage returns the change of value relative to base in percent.
// A metric that appears from zero counts as a 100% increase.
func deltaPercentage(value, base int64) float64 {
	if base == 0 {
		if value == 0 {
			return 0
		}
		if value > 0 {
			return 100
		}
		return -100
	}
	p := float64(value-base) / float64(base) * 100
	return math.Round(p*100) / 100
}
