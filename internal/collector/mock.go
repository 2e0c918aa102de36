package collector

import (
	"context"
	"math"
	"time"

	"EconDash/internal/model"
)

// MockFetcher returns controllable canned data for development and testing.
// Fields left nil are generated on demand; Err, when set, fails every call.
type MockFetcher struct {
	Now         time.Time
	Indicator   map[model.Category]*model.IndicatorSeries
	SummaryRes  *model.Summary
	AnalysisRes *model.Analysis
	Err         error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Health(_ context.Context) (*model.Health, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &model.Health{Status: "healthy"}, nil
}

func (m *MockFetcher) Indicators(_ context.Context, cat model.Category, period model.Period) (*model.IndicatorSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Indicator[cat]; ok {
		return s, nil
	}
	return generateMockSeries(m.now(), cat, period), nil
}

func (m *MockFetcher) InterestRates(ctx context.Context, p model.Period) (*model.IndicatorSeries, error) {
	return m.Indicators(ctx, model.CategoryInterestRates, p)
}

func (m *MockFetcher) Inflation(ctx context.Context, p model.Period) (*model.IndicatorSeries, error) {
	return m.Indicators(ctx, model.CategoryInflation, p)
}

func (m *MockFetcher) Employment(ctx context.Context, p model.Period) (*model.IndicatorSeries, error) {
	return m.Indicators(ctx, model.CategoryEmployment, p)
}

func (m *MockFetcher) GDP(ctx context.Context, p model.Period) (*model.IndicatorSeries, error) {
	return m.Indicators(ctx, model.CategoryGDP, p)
}

func (m *MockFetcher) Leading(ctx context.Context, p model.Period) (*model.IndicatorSeries, error) {
	return m.Indicators(ctx, model.CategoryLeading, p)
}

func (m *MockFetcher) Summary(_ context.Context) (*model.Summary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.SummaryRes != nil {
		return m.SummaryRes, nil
	}
	return generateMockSummary(m.now()), nil
}

func (m *MockFetcher) GenerateAnalysis(_ context.Context) (*model.Analysis, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.AnalysisRes != nil {
		return m.AnalysisRes, nil
	}
	return &model.Analysis{
		Summary: "Mock economy: growth steady, inflation easing.",
		Outlook: "Mock outlook: no change expected.",
		Model:   "mock",
	}, nil
}

func (m *MockFetcher) TestAnalysis(_ context.Context) (map[string]any, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return map[string]any{"status": "success", "model": "mock"}, nil
}

func (m *MockFetcher) now() time.Time {
	if m.Now.IsZero() {
		return time.Now()
	}
	return m.Now
}

// mockBase is a plausible level per series code.
var mockBase = map[string]float64{
	"DFF": 5.33, "DGS10": 4.2, "DGS2": 4.6, "T10Y2Y": -0.4, "MORTGAGE30US": 6.9,
	"CPIAUCSL": 310, "CPILFESL": 316, "PCEPI": 122, "PCEPILFE": 121,
	"UNRATE": 3.9, "PAYEMS": 157000, "ICSA": 220000, "JTSJOL": 8800,
	"GDP": 27000, "GDPC1": 22500, "A191RL1Q225SBEA": 2.4, "INDPRO": 103,
	"USSLIND": 1.1, "UMCSENT": 68, "PERMIT": 1450, "RETAILSMNSA": 700000,
}

// generateMockSeries emits one monthly observation per series, newest
// first, the way the backend orders them.
func generateMockSeries(now time.Time, cat model.Category, period model.Period) *model.IndicatorSeries {
	months := period.Days() / 30
	if months < 1 {
		months = 1
	}
	end := model.DateOf(now)
	out := &model.IndicatorSeries{
		Category: cat,
		Period:   period,
		Series:   make(map[string]model.SeriesData),
		Metadata: model.SeriesMetadata{
			StartDate: end.AddDays(-period.Days()).String(),
			EndDate:   end.String(),
			Source:    "mock",
		},
	}
	for _, info := range cat.Series() {
		base := mockBase[info.Code]
		points := make([]model.IndicatorPoint, 0, months)
		for i := 0; i < months; i++ {
			v := base * (1 + 0.02*math.Sin(float64(i)/3))
			points = append(points, model.IndicatorPoint{
				Date:  end.AddMonths(-i),
				Value: math.Round(v*100) / 100,
			})
		}
		out.Series[info.Code] = model.SeriesData{
			SeriesID: info.Code,
			Data:     points,
			Count:    len(points),
		}
	}
	return out
}

func generateMockSummary(now time.Time) *model.Summary {
	d := model.DateOf(now)
	s := &model.Summary{
		Categories: make(map[model.Category]map[string]model.SummaryEntry),
		UpdatedAt:  now,
	}
	for _, cat := range model.Categories {
		entries := make(map[string]model.SummaryEntry)
		for _, info := range cat.Series() {
			entries[info.Code] = model.SummaryEntry{Name: info.Name, Value: mockBase[info.Code], Date: d}
		}
		s.Categories[cat] = entries
	}
	return s
}
