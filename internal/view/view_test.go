package view

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"EconDash/internal/calculator"
	"EconDash/internal/collector"
	"EconDash/internal/model"
)

func specNamed(t *testing.T, name string) ChartSpec {
	t.Helper()
	for _, s := range ChartSpecs() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no chart spec %q", name)
	return ChartSpec{}
}

func pts(kv ...any) []model.IndicatorPoint {
	var out []model.IndicatorPoint
	for i := 0; i+1 < len(kv); i += 2 {
		d, _ := model.ParseDate(kv[i].(string))
		out = append(out, model.IndicatorPoint{Date: d, Value: kv[i+1].(float64)})
	}
	return out
}

func indicators(cat model.Category, p model.Period, series map[string][]model.IndicatorPoint) *model.IndicatorSeries {
	s := &model.IndicatorSeries{Category: cat, Period: p, Series: map[string]model.SeriesData{}}
	for code, points := range series {
		s.Series[code] = model.SeriesData{SeriesID: code, Data: points, Count: len(points)}
	}
	return s
}

func TestChartView_InterestRatesEndToEnd(t *testing.T) {
	m := &collector.MockFetcher{Indicator: map[model.Category]*model.IndicatorSeries{
		model.CategoryInterestRates: indicators(model.CategoryInterestRates, model.Period1Y, map[string][]model.IndicatorPoint{
			"DFF":   pts("2024-01-01", 5.3),
			"DGS10": pts("2024-01-01", 4.1),
			"DGS2":  pts("2024-01-01", 4.6),
		}),
	}}
	v := NewChartView(specNamed(t, InterestRates), m, nil)
	assert.Equal(t, Idle, v.State().Status)
	assert.Equal(t, model.Period1Y, v.Period())

	st := v.Load(context.Background())
	require.Equal(t, Loaded, st.Status)
	require.Len(t, st.Data.Rows, 1)
	row := st.Data.Rows[0]
	assert.Equal(t, "2024-01-01", row.Date.String())
	assert.Equal(t, map[string]float64{"dff": 5.3, "dgs10": 4.1, "dgs2": 4.6}, row.Values)

	require.Len(t, st.Data.Insights, 4)
	spread := st.Data.Insights[3]
	assert.Equal(t, "10Y-2Y Spread", spread.Label)
	assert.InDelta(t, -0.5, spread.Value, 1e-9)
	assert.Equal(t, "inverted yield curve", spread.Note)

	require.Len(t, st.Data.Series, 3)
	assert.Equal(t, "Federal Funds Rate", st.Data.Series[0].Name)
}

func TestChartView_FailureClearsData(t *testing.T) {
	m := &collector.MockFetcher{Now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	v := NewChartView(specNamed(t, Employment), m, nil)

	st := v.Load(context.Background())
	require.Equal(t, Loaded, st.Status)
	require.NotEmpty(t, st.Data.Rows)

	m.Err = &collector.FetchError{Kind: collector.KindNetwork, Message: collector.ConnectivityMessage}
	st = v.Retry(context.Background())
	assert.Equal(t, Failed, st.Status)
	assert.Empty(t, st.Data.Rows)
	assert.Equal(t, collector.ConnectivityMessage, st.Message)

	var fe *collector.FetchError
	assert.True(t, errors.As(st.Err, &fe))

	m.Err = nil
	st = v.Retry(context.Background())
	assert.Equal(t, Loaded, st.Status)
	assert.Empty(t, st.Message)
}

func TestChartView_FailureLogsFetchDetail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := &collector.MockFetcher{
		Now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Err: &collector.FetchError{
			Kind:    collector.KindHTTP,
			Op:      collector.OpInterestRates,
			Status:  502,
			Message: "bad gateway",
			Err:     errors.New("status 502"),
		},
	}
	v := NewChartView(specNamed(t, InterestRates), m, zap.New(core))

	st := v.Load(context.Background())
	require.Equal(t, Failed, st.Status)

	entries := logs.FilterMessage("view load failed").All()
	require.Len(t, entries, 1)
	detail, ok := entries[0].ContextMap()["detail"].(string)
	require.True(t, ok)
	assert.Contains(t, detail, "bad gateway")
	assert.Contains(t, detail, "status 502")
}

func TestChartView_SetPeriodRejectsDisallowed(t *testing.T) {
	m := &collector.MockFetcher{}
	v := NewChartView(specNamed(t, GDP), m, nil)

	_, err := v.SetPeriod(context.Background(), model.Period1M)
	require.Error(t, err)
	assert.Equal(t, Idle, v.State().Status)
	assert.Equal(t, model.Period5Y, v.Period())

	st, err := v.SetPeriod(context.Background(), model.Period3Y)
	require.NoError(t, err)
	assert.Equal(t, Loaded, st.Status)
	assert.Equal(t, model.Period3Y, st.Period)
}

// gatedFetcher blocks Indicators for a period until its gate is closed.
type gatedFetcher struct {
	*collector.MockFetcher
	mu     sync.Mutex
	gates  map[model.Period]chan struct{}
	series map[model.Period]*model.IndicatorSeries
}

func (g *gatedFetcher) Indicators(ctx context.Context, cat model.Category, p model.Period) (*model.IndicatorSeries, error) {
	g.mu.Lock()
	gate := g.gates[p]
	s := g.series[p]
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s, nil
}

func TestChartView_StaleResponseDropped(t *testing.T) {
	g := &gatedFetcher{
		MockFetcher: &collector.MockFetcher{},
		gates:       map[model.Period]chan struct{}{model.Period3Y: make(chan struct{})},
		series: map[model.Period]*model.IndicatorSeries{
			model.Period3Y: indicators(model.CategoryLeading, model.Period3Y, map[string][]model.IndicatorPoint{
				"UMCSENT": pts("2021-01-01", 80.0),
			}),
			model.Period5Y: indicators(model.CategoryLeading, model.Period5Y, map[string][]model.IndicatorPoint{
				"UMCSENT": pts("2019-01-01", 90.0, "2024-01-01", 70.0),
			}),
		},
	}
	v := NewChartView(specNamed(t, Leading), g, nil)
	ctx := context.Background()

	done := make(chan State[ChartData], 1)
	go func() {
		st, _ := v.SetPeriod(ctx, model.Period3Y)
		done <- st
	}()
	require.Eventually(t, func() bool {
		st := v.State()
		return st.Status == Loading && st.Period == model.Period3Y
	}, time.Second, 5*time.Millisecond)

	st, err := v.SetPeriod(ctx, model.Period5Y)
	require.NoError(t, err)
	require.Equal(t, Loaded, st.Status)
	assert.Len(t, st.Data.Rows, 2)

	close(g.gates[model.Period3Y])
	stale := <-done
	assert.Equal(t, model.Period5Y, stale.Period)

	final := v.State()
	assert.Equal(t, Loaded, final.Status)
	assert.Equal(t, model.Period5Y, final.Period)
	require.Len(t, final.Data.Rows, 2)
	assert.Equal(t, "2019-01-01", final.Data.Rows[0].Date.String())
}

func TestChartView_ConcurrentViewsIndependent(t *testing.T) {
	m := &collector.MockFetcher{}
	views := make([]*ChartView, 0)
	for _, s := range ChartSpecs() {
		views = append(views, NewChartView(s, m, nil))
	}
	var wg sync.WaitGroup
	for _, v := range views {
		wg.Add(1)
		go func(v *ChartView) {
			defer wg.Done()
			v.Load(context.Background())
		}(v)
	}
	wg.Wait()
	for _, v := range views {
		assert.Equal(t, Loaded, v.State().Status, v.Name())
	}
}

func TestInsights(t *testing.T) {
	t.Run("leading trends", func(t *testing.T) {
		rows := calculator.PivotSeries([]string{"sentiment", "permit", "retail"}, map[string][]model.IndicatorPoint{
			"sentiment": pts("2024-01-01", 60.0, "2024-02-01", 62.0, "2024-03-01", 65.0),
			"permit":    pts("2024-01-01", 1500.0, "2024-02-01", 1450.0, "2024-03-01", 1400.0),
			"retail":    pts("2024-01-01", 700.0, "2024-03-01", 703.0),
		})
		in := leadingInsights(rows)
		require.Len(t, in, 3)
		assert.Equal(t, calculator.TrendUp, in[0].Trend)
		assert.Equal(t, calculator.TrendDown, in[1].Trend)
		assert.Equal(t, calculator.TrendStable, in[2].Trend)
		assert.Equal(t, 65.0, in[0].Value)
	})

	t.Run("employment payrolls in millions", func(t *testing.T) {
		rows := calculator.PivotSeries([]string{"unrate", "payems"}, map[string][]model.IndicatorPoint{
			"unrate": pts("2024-01-01", 3.7, "2024-02-01", 3.9),
			"payems": pts("2024-01-01", 157000.0, "2024-02-01", 157275.0),
		})
		in := employmentInsights(rows)
		require.Len(t, in, 2)
		assert.Equal(t, 3.9, in[0].Value)
		assert.Equal(t, "%", in[0].Unit)
		assert.InDelta(t, 157.275, in[1].Value, 1e-9)
		assert.Equal(t, "+275K vs previous month", in[1].Note)
	})

	t.Run("inflation year over year", func(t *testing.T) {
		var cpi []model.IndicatorPoint
		start := model.NewDate(2023, time.January, 1)
		for i := 0; i < 13; i++ {
			cpi = append(cpi, model.IndicatorPoint{Date: start.AddMonths(i), Value: 300 + float64(i)})
		}
		rows := calculator.PivotSeries([]string{"cpi"}, map[string][]model.IndicatorPoint{"cpi": cpi})
		in := inflationInsights(rows)
		require.Len(t, in, 1)
		assert.Equal(t, 312.0, in[0].Value)
		assert.Equal(t, "+3.65% year over year", in[0].Note)
	})

	t.Run("no rows", func(t *testing.T) {
		assert.Empty(t, gdpInsights(nil))
		assert.Empty(t, interestRateInsights([]model.ChartRow{}))
	})
}

func TestBuildSummary(t *testing.T) {
	d, _ := model.ParseDate("2024-02-01")
	s := &model.Summary{
		Categories: map[model.Category]map[string]model.SummaryEntry{
			model.CategoryInterestRates: {
				"DGS10": {Name: "10-Year Treasury Rate", Value: 4.2, Date: d},
				"DFF":   {Name: "Federal Funds Rate", Value: 5.33, Date: d},
				"ZZZ":   {Name: "Extra", Value: 1, Date: d},
			},
			model.CategoryLeading: {
				"UMCSENT": {Name: "Consumer Sentiment", Value: 79, Date: d},
			},
		},
		UpdatedAt: time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC),
	}

	out := BuildSummary(s)
	require.Len(t, out.Metrics, 2)
	assert.Equal(t, "DFF", out.Metrics[0].Code)
	assert.Equal(t, model.UnitPercent, out.Metrics[0].Unit)
	assert.Equal(t, "UMCSENT", out.Metrics[1].Code)

	require.Len(t, out.Groups, 2)
	assert.Equal(t, model.CategoryInterestRates, out.Groups[0].Category)
	codes := []string{}
	for _, e := range out.Groups[0].Entries {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{"DFF", "DGS10", "ZZZ"}, codes)
	assert.Equal(t, "2024-02-02 10:00:00", out.UpdatedAt)
}

func TestSummaryViewAndHeader(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &collector.MockFetcher{Now: now}
	sv := NewSummaryView(m, nil)
	h := NewHeader("", sv)
	assert.Equal(t, DefaultTitle, h.Title)

	_, ok := h.LastUpdated()
	assert.False(t, ok)

	st := h.Refresh(context.Background())
	require.Equal(t, Loaded, st.Status)
	assert.Len(t, st.Data.Metrics, 5)
	assert.Len(t, st.Data.Groups, len(model.Categories))

	ts, ok := h.LastUpdated()
	require.True(t, ok)
	assert.Equal(t, now, ts)
}

func TestAnalysisPanel(t *testing.T) {
	m := &collector.MockFetcher{}
	p := NewAnalysisPanel(m, nil)
	assert.Equal(t, Idle, p.State().Status)

	st := p.Generate(context.Background())
	require.Equal(t, Loaded, st.Status)
	assert.NotEmpty(t, st.Data.Summary)
	assert.NotEmpty(t, st.Data.Outlook)

	m.Err = &collector.FetchError{Kind: collector.KindHTTP, Message: "OpenAI API key not configured"}
	st = p.Retry(context.Background())
	assert.Equal(t, Failed, st.Status)
	assert.Nil(t, st.Data)
	assert.Equal(t, "OpenAI API key not configured", st.Message)
}

func TestStatusText(t *testing.T) {
	b, err := Loading.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "loading", string(b))
	assert.Equal(t, "failed", Failed.String())
}

func TestState_JSONOmitsZeroDataAndTime(t *testing.T) {
	failed := State[ChartData]{Status: Failed, Message: "not found", Period: model.Period1Y}
	raw, err := json.Marshal(failed)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "data")
	assert.NotContains(t, out, "updated_at")
	assert.Equal(t, "failed", out["status"])
	assert.Equal(t, "not found", out["error"])

	loaded := State[ChartData]{
		Status:    Loaded,
		Data:      ChartData{Rows: []model.ChartRow{}},
		UpdatedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	raw, err = json.Marshal(loaded)
	require.NoError(t, err)
	out = nil
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "data")
	assert.Equal(t, "2024-06-01T08:00:00Z", out["updated_at"])
}
