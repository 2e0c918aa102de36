package render

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"EconDash/internal/model"
)

// Value formats v with thousands separators and the unit's suffix.
func Value(v float64, unit model.Unit) string {
	return Number(v, string(unit))
}

// Number formats v with thousands separators followed by suffix. The count
// suffix is dropped; "%" is appended directly and anything else after a space.
func Number(v float64, suffix string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	s := humanize.CommafWithDigits(v, 2)
	switch suffix {
	case "", string(model.UnitCount):
		return s
	case "%":
		return s + "%"
	default:
		return s + " " + strings.TrimSpace(suffix)
	}
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
