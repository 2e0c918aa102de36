package view

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"EconDash/internal/calculator"
	"EconDash/internal/collector"
	"EconDash/internal/model"
)

// Insight is one derived headline shown under a chart.
type Insight struct {
	Label string           `json:"label"`
	Value float64          `json:"value"`
	Unit  string           `json:"unit,omitempty"`
	Date  model.Date       `json:"date"`
	Trend calculator.Trend `json:"trend,omitempty"`
	Note  string           `json:"note,omitempty"`
}

// SeriesLine labels one plotted key.
type SeriesLine struct {
	Key  string     `json:"key"`
	Code string     `json:"code"`
	Name string     `json:"name"`
	Unit model.Unit `json:"unit"`
}

// ChartData is what a loaded chart view renders.
type ChartData struct {
	Rows     []model.ChartRow `json:"rows"`
	Series   []SeriesLine     `json:"series"`
	Insights []Insight        `json:"insights"`
}

// ChartSpec declares one chart view.
type ChartSpec struct {
	Name          string
	Title         string
	Subtitle      string
	Category      model.Category
	Bindings      []calculator.SeriesBinding
	Periods       []model.Period
	DefaultPeriod model.Period
	Insights      func(rows []model.ChartRow) []Insight
}

// Allows reports whether p is selectable in the view.
func (s ChartSpec) Allows(p model.Period) bool { return slices.Contains(s.Periods, p) }

// Lines labels the spec's bindings from the series catalogue.
func (s ChartSpec) Lines() []SeriesLine {
	lines := make([]SeriesLine, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		info, _, _ := model.LookupSeries(b.Code)
		lines = append(lines, SeriesLine{Key: b.Key, Code: b.Code, Name: info.Name, Unit: info.Unit})
	}
	return lines
}

// ChartView loads one category for the selected period and pivots it.
type ChartView struct {
	spec    ChartSpec
	fetcher collector.Fetcher
	l       *loader[ChartData]
}

// NewChartView creates an idle view at the spec's default period.
func NewChartView(spec ChartSpec, fetcher collector.Fetcher, logger *zap.Logger) *ChartView {
	return &ChartView{
		spec:    spec,
		fetcher: fetcher,
		l:       newLoader[ChartData](spec.Name, spec.DefaultPeriod, logger),
	}
}

func (v *ChartView) Name() string { return v.spec.Name }

func (v *ChartView) Spec() ChartSpec { return v.spec }

func (v *ChartView) State() State[ChartData] { return v.l.snapshot() }

func (v *ChartView) Period() model.Period { return v.l.period() }

// Load fetches the currently selected period.
func (v *ChartView) Load(ctx context.Context) State[ChartData] {
	return v.l.run(ctx, v.l.period(), v.fetch)
}

// SetPeriod selects p and reloads. A period the view does not offer is
// rejected and the state is left untouched.
func (v *ChartView) SetPeriod(ctx context.Context, p model.Period) (State[ChartData], error) {
	if !v.spec.Allows(p) {
		return v.State(), fmt.Errorf("view %s does not offer period %s", v.spec.Name, p)
	}
	return v.l.run(ctx, p, v.fetch), nil
}

// Retry re-issues the request for the current period.
func (v *ChartView) Retry(ctx context.Context) State[ChartData] { return v.Load(ctx) }

func (v *ChartView) fetch(ctx context.Context, p model.Period) (ChartData, error) {
	series, err := v.fetcher.Indicators(ctx, v.spec.Category, p)
	if err != nil {
		return ChartData{}, err
	}
	rows := calculator.Pivot(series, v.spec.Bindings)
	data := ChartData{Rows: rows, Series: v.spec.Lines()}
	if v.spec.Insights != nil {
		data.Insights = v.spec.Insights(rows)
	}
	return data, nil
}
