package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"EconDash/internal/calculator"
	"EconDash/internal/model"
	"EconDash/internal/view"
)

// ErrNothingToChart is returned when a view has no plottable points.
var ErrNothingToChart = errors.New("no data to chart")

// normalizeRatio is the spread of series magnitudes above which the chart
// is drawn on a shared 0-100 scale.
const normalizeRatio = 100

const (
	pngWidth  = 1024
	pngHeight = 480
)

// ChartPNG draws a loaded chart view as a multi-line time chart with a
// legend. Each series is drawn over its own observed dates only.
func ChartPNG(spec view.ChartSpec, st view.State[view.ChartData]) ([]byte, error) {
	if st.Status != view.Loaded {
		return nil, fmt.Errorf("view %s is %s", spec.Name, st.Status)
	}

	columns := make(map[string][]model.IndicatorPoint, len(st.Data.Series))
	for _, s := range st.Data.Series {
		columns[s.Key] = calculator.Column(st.Data.Rows, s.Key)
	}
	normalized := needsNormalizing(columns)
	yName := ""
	if normalized {
		yName = "normalized (0-100)"
	}

	var series []chart.Series
	for i, s := range st.Data.Series {
		points := columns[s.Key]
		if len(points) == 0 {
			continue
		}
		if normalized {
			points = calculator.Normalize(points)
		}
		xs := make([]time.Time, 0, len(points)+1)
		ys := make([]float64, 0, len(points)+1)
		for _, p := range points {
			xs = append(xs, p.Date.Time())
			ys = append(ys, p.Value)
		}
		// a single point has no x range to draw
		if len(xs) == 1 {
			xs = append(xs, xs[0].Add(24*time.Hour))
			ys = append(ys, ys[0])
		}
		series = append(series, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return nil, ErrNothingToChart
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s (%s)", spec.Title, st.Period),
		Width:      pngWidth,
		Height:     pngHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis:  chart.YAxis{Name: yName},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", spec.Name, err)
	}
	return buf.Bytes(), nil
}

// needsNormalizing reports whether the largest series dwarfs the smallest.
func needsNormalizing(columns map[string][]model.IndicatorPoint) bool {
	lo, hi := math.Inf(1), 0.0
	for _, points := range columns {
		if len(points) == 0 {
			continue
		}
		_, top, err := calculator.Range(points)
		if err != nil {
			continue
		}
		m := math.Abs(top)
		if m == 0 {
			continue
		}
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	return !math.IsInf(lo, 1) && hi/lo > normalizeRatio
}
