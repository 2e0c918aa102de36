package calculator

import (
	"errors"
	"math"
	"sort"

	"EconDash/internal/model"
)

// ChangeResult compares the latest observation with an earlier one.
type ChangeResult struct {
	Current       float64
	Previous      float64
	Change        float64
	ChangePercent float64
	Date          model.Date
	PreviousDate  model.Date
}

// yoyLag is the number of observations back a year-over-year change reaches
// for a monthly series.
const yoyLag = 11

// Change compares the latest observation with the one before it.
func Change(points []model.IndicatorPoint) (ChangeResult, error) {
	if len(points) < 2 {
		return ChangeResult{}, errors.New("not enough data for change calculation")
	}
	sorted := sortedDesc(points)
	return compare(sorted[0], sorted[1]), nil
}

// YearOverYear compares the latest observation with the one twelve
// observations back.
func YearOverYear(points []model.IndicatorPoint) (ChangeResult, error) {
	if len(points) < yoyLag+1 {
		return ChangeResult{}, errors.New("not enough data for year-over-year calculation")
	}
	sorted := sortedDesc(points)
	return compare(sorted[0], sorted[yoyLag]), nil
}

func compare(cur, prev model.IndicatorPoint) ChangeResult {
	change := cur.Value - prev.Value
	pct := 0.0
	if prev.Value != 0 {
		pct = change / prev.Value * 100
	}
	return ChangeResult{
		Current:       cur.Value,
		Previous:      prev.Value,
		Change:        round2(change),
		ChangePercent: round2(pct),
		Date:          cur.Date,
		PreviousDate:  prev.Date,
	}
}

func sortedDesc(points []model.IndicatorPoint) []model.IndicatorPoint {
	sorted := make([]model.IndicatorPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	return sorted
}

func sortedAsc(points []model.IndicatorPoint) []model.IndicatorPoint {
	sorted := make([]model.IndicatorPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
