package calculator

import (
	"sort"

	"EconDash/internal/model"
)

// SeriesBinding maps a backend series code to the key it is charted under.
type SeriesBinding struct {
	Code string
	Key  string
}

// Pivot joins the bound series of s into chart rows keyed by date.
// Series are folded in binding order; within a series a later point on
// the same date overwrites the earlier one. Rows are sorted by date and
// carry a key only for series that observed that date. A binding whose
// code is missing from s contributes nothing.
func Pivot(s *model.IndicatorSeries, bindings []SeriesBinding) []model.ChartRow {
	b := newRowBuilder()
	for _, bd := range bindings {
		b.fold(bd.Key, s.Points(bd.Code))
	}
	return b.rows()
}

// PivotSeries is Pivot over already-keyed point slices, folded in order.
func PivotSeries(order []string, series map[string][]model.IndicatorPoint) []model.ChartRow {
	b := newRowBuilder()
	for _, key := range order {
		b.fold(key, series[key])
	}
	return b.rows()
}

type rowBuilder struct {
	index map[model.Date]int
	out   []model.ChartRow
}

func newRowBuilder() *rowBuilder {
	return &rowBuilder{index: make(map[model.Date]int)}
}

func (b *rowBuilder) fold(key string, points []model.IndicatorPoint) {
	for _, p := range points {
		i, ok := b.index[p.Date]
		if !ok {
			i = len(b.out)
			b.index[p.Date] = i
			b.out = append(b.out, model.ChartRow{Date: p.Date, Values: make(map[string]float64)})
		}
		b.out[i].Values[key] = p.Value
	}
}

func (b *rowBuilder) rows() []model.ChartRow {
	rows := b.out
	if rows == nil {
		rows = []model.ChartRow{}
	}
	// Stable so equal dates keep first-encounter order.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// Column extracts the observed values of key in row order.
func Column(rows []model.ChartRow, key string) []model.IndicatorPoint {
	var pts []model.IndicatorPoint
	for _, r := range rows {
		if v, ok := r.Value(key); ok {
			pts = append(pts, model.IndicatorPoint{Date: r.Date, Value: v})
		}
	}
	return pts
}
