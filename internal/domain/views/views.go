// Package views handles the shorthand view-count notation used across
// the marketplace ("10K", "1.5M") and its canonical integer form.
package views

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/brandsync/brandsync/internal/domain/errors"
)

var shorthandRe = regexp.MustCompile(`^(\d+(\.\d+)?)([kKmM])?$`)

// MaxViews caps accepted view counts at one trillion. The cap is far below
// 2^53, so the float conversion in Parse stays exact.
const MaxViews int64 = 1_000_000_000_000

// Parse converts a view-count string to an integer. Accepts plain integers
// and the K/M shorthand with an optional decimal part ("1.5M" -> 1500000).
// Malformed input, or a value above MaxViews, returns ErrInvalidViewCount;
// callers at the HTTP boundary coerce to zero with a logged warning, domain
// callers propagate the error. The result is always in [0, MaxViews].
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	m := shorthandRe.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.ErrInvalidViewCount
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.ErrInvalidViewCount
	}

	switch strings.ToUpper(m[3]) {
	case "K":
		n *= 1_000
	case "M":
		n *= 1_000_000
	}
	if n > float64(MaxViews) {
		return 0, errors.ErrInvalidViewCount
	}

	// Truncate, never round: "1.5K" promises 1500 views, "1.0009M" does not
	// promise 1001 thousand.
	return int64(math.Trunc(n)), nil
}

// Format renders a view count in shorthand: 1000 -> "1K", 1500000 -> "1.5M",
// 999 -> "999". One decimal place, trailing ".0" stripped. Formatting is
// lossy for non-round values; Parse(Format(n)) is not guaranteed to equal n.
func Format(n int64) string {
	switch {
	case n >= 1_000_000:
		return scaled(n, 1_000_000) + "M"
	case n >= 1_000:
		return scaled(n, 1_000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func scaled(n, unit int64) string {
	s := strconv.FormatFloat(math.Round(float64(n)/float64(unit)*10)/10, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
