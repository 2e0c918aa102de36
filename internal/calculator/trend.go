package calculator

import "EconDash/internal/model"

// Trend is the direction of a series over its last few rows.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendWindow is how many trailing rows the trend looks at.
const trendWindow = 3

// trendThreshold is the percent change needed to call a direction.
const trendThreshold = 1.0

// TrendOf compares the oldest and newest values of key within the last
// three rows. Rows missing key are skipped; fewer than two values, or a
// zero starting value, is stable.
func TrendOf(rows []model.ChartRow, key string) Trend {
	start := len(rows) - trendWindow
	if start < 0 {
		start = 0
	}
	var values []float64
	for _, r := range rows[start:] {
		if v, ok := r.Value(key); ok {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return TrendStable
	}
	first, last := values[0], values[len(values)-1]
	if first == 0 {
		return TrendStable
	}
	change := (last - first) / first * 100
	switch {
	case change > trendThreshold:
		return TrendUp
	case change < -trendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// Latest returns the most recent observed value of key.
func Latest(rows []model.ChartRow, key string) (model.IndicatorPoint, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		if v, ok := rows[i].Value(key); ok {
			return model.IndicatorPoint{Date: rows[i].Date, Value: v}, true
		}
	}
	return model.IndicatorPoint{}, false
}

// LatestSpread returns a-b on the most recent row that has both keys.
func LatestSpread(rows []model.ChartRow, a, b string) (model.IndicatorPoint, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		va, okA := rows[i].Value(a)
		vb, okB := rows[i].Value(b)
		if okA && okB {
			return model.IndicatorPoint{Date: rows[i].Date, Value: va - vb}, true
		}
	}
	return model.IndicatorPoint{}, false
}
