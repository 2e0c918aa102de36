package calculator

import (
	"errors"
	"math"

	"EconDash/internal/model"
)

// Range returns the lowest and highest value among points.
func Range(points []model.IndicatorPoint) (low, high float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no points provided")
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, p := range points {
		if p.Value < low {
			low = p.Value
		}
		if p.Value > high {
			high = p.Value
		}
	}
	return low, high, nil
}

// Position returns where v sits within [low, high] (0.0~1.0).
func Position(v, low, high float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (v - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Normalize rescales values onto 0~100 so series of different magnitude
// can share an axis. A constant series is returned unchanged.
func Normalize(points []model.IndicatorPoint) []model.IndicatorPoint {
	low, high, err := Range(points)
	if err != nil || high == low {
		return points
	}
	out := make([]model.IndicatorPoint, len(points))
	for i, p := range points {
		pos, _ := Position(p.Value, low, high)
		out[i] = model.IndicatorPoint{Date: p.Date, Value: round2(pos * 100)}
	}
	return out
}
