package calculator

import (
	"errors"

	"EconDash/internal/model"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// AveragedPoint is an observation with its trailing moving average.
// HasAverage is false until window observations have been seen.
type AveragedPoint struct {
	model.IndicatorPoint
	MovingAverage float64 `json:"moving_average"`
	HasAverage    bool    `json:"has_average"`
}

// MovingAverage returns points in date order with a trailing mean over window.
func MovingAverage(points []model.IndicatorPoint, window int) ([]AveragedPoint, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	sorted := sortedAsc(points)
	values := extractValues(sorted)
	out := make([]AveragedPoint, len(sorted))
	for i, p := range sorted {
		out[i] = AveragedPoint{IndicatorPoint: p}
		if ma, err := CalculateSMA(values[:i+1], window); err == nil {
			out[i].MovingAverage = round2(ma)
			out[i].HasAverage = true
		}
	}
	return out, nil
}

func extractValues(points []model.IndicatorPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
