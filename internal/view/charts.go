package view

import (
	"fmt"

	"EconDash/internal/calculator"
	"EconDash/internal/model"
)

// Chart view names.
const (
	InterestRates = "interest-rates"
	Inflation     = "inflation"
	Employment    = "employment"
	GDP           = "gdp"
	Leading       = "leading"
)

var longPeriods = []model.Period{model.Period1Y, model.Period3Y, model.Period5Y}

// ChartSpecs returns the five chart views in display order.
func ChartSpecs() []ChartSpec {
	return []ChartSpec{
		{
			Name:     InterestRates,
			Title:    "Interest Rates",
			Subtitle: "Federal funds and Treasury yields",
			Category: model.CategoryInterestRates,
			Bindings: []calculator.SeriesBinding{
				{Code: "DFF", Key: "dff"},
				{Code: "DGS10", Key: "dgs10"},
				{Code: "DGS2", Key: "dgs2"},
			},
			Periods:       model.AllPeriods,
			DefaultPeriod: model.Period1Y,
			Insights:      interestRateInsights,
		},
		{
			Name:     Inflation,
			Title:    "Inflation Indicators",
			Subtitle: "CPI and PCE price indexes",
			Category: model.CategoryInflation,
			Bindings: []calculator.SeriesBinding{
				{Code: "CPIAUCSL", Key: "cpi"},
				{Code: "CPILFESL", Key: "coreCpi"},
				{Code: "PCEPI", Key: "pce"},
				{Code: "PCEPILFE", Key: "corePce"},
			},
			Periods:       longPeriods,
			DefaultPeriod: model.Period3Y,
			Insights:      inflationInsights,
		},
		{
			Name:     Employment,
			Title:    "Employment",
			Subtitle: "Unemployment rate and nonfarm payrolls",
			Category: model.CategoryEmployment,
			Bindings: []calculator.SeriesBinding{
				{Code: "UNRATE", Key: "unrate"},
				{Code: "PAYEMS", Key: "payems"},
			},
			Periods:       longPeriods,
			DefaultPeriod: model.Period3Y,
			Insights:      employmentInsights,
		},
		{
			Name:     GDP,
			Title:    "GDP & Growth",
			Subtitle: "Real GDP, growth rate and industrial production",
			Category: model.CategoryGDP,
			Bindings: []calculator.SeriesBinding{
				{Code: "GDPC1", Key: "gdp"},
				{Code: "A191RL1Q225SBEA", Key: "growth"},
				{Code: "INDPRO", Key: "indpro"},
			},
			Periods:       []model.Period{model.Period3Y, model.Period5Y},
			DefaultPeriod: model.Period5Y,
			Insights:      gdpInsights,
		},
		{
			Name:     Leading,
			Title:    "Leading Indicators",
			Subtitle: "Sentiment, housing permits and retail sales",
			Category: model.CategoryLeading,
			Bindings: []calculator.SeriesBinding{
				{Code: "UMCSENT", Key: "sentiment"},
				{Code: "PERMIT", Key: "permit"},
				{Code: "RETAILSMNSA", Key: "retail"},
			},
			Periods:       longPeriods,
			DefaultPeriod: model.Period3Y,
			Insights:      leadingInsights,
		},
	}
}

func latest(rows []model.ChartRow, key, label, unit string) (Insight, bool) {
	p, ok := calculator.Latest(rows, key)
	if !ok {
		return Insight{}, false
	}
	return Insight{Label: label, Value: p.Value, Unit: unit, Date: p.Date}, true
}

func interestRateInsights(rows []model.ChartRow) []Insight {
	var out []Insight
	for _, k := range []struct{ key, label string }{
		{"dff", "Fed Funds Rate"},
		{"dgs10", "10-Year Treasury"},
		{"dgs2", "2-Year Treasury"},
	} {
		if in, ok := latest(rows, k.key, k.label, "%"); ok {
			out = append(out, in)
		}
	}
	if p, ok := calculator.LatestSpread(rows, "dgs10", "dgs2"); ok {
		in := Insight{Label: "10Y-2Y Spread", Value: p.Value, Unit: "%", Date: p.Date}
		if p.Value < 0 {
			in.Note = "inverted yield curve"
		}
		out = append(out, in)
	}
	return out
}

func inflationInsights(rows []model.ChartRow) []Insight {
	var out []Insight
	if in, ok := latest(rows, "cpi", "CPI", ""); ok {
		if yoy, err := calculator.YearOverYear(calculator.Column(rows, "cpi")); err == nil {
			in.Note = fmt.Sprintf("%+.2f%% year over year", yoy.ChangePercent)
		}
		out = append(out, in)
	}
	if in, ok := latest(rows, "corePce", "Core PCE", ""); ok {
		out = append(out, in)
	}
	return out
}

func employmentInsights(rows []model.ChartRow) []Insight {
	var out []Insight
	if in, ok := latest(rows, "unrate", "Unemployment Rate", "%"); ok {
		out = append(out, in)
	}
	// PAYEMS is reported in thousands of jobs.
	if in, ok := latest(rows, "payems", "Nonfarm Payrolls", "M"); ok {
		in.Value /= 1000
		if ch, err := calculator.Change(calculator.Column(rows, "payems")); err == nil {
			in.Note = fmt.Sprintf("%+.0fK vs previous month", ch.Change)
		}
		out = append(out, in)
	}
	return out
}

func gdpInsights(rows []model.ChartRow) []Insight {
	var out []Insight
	if in, ok := latest(rows, "growth", "GDP Growth", "%"); ok {
		out = append(out, in)
	}
	// GDPC1 is reported in billions of chained dollars.
	if in, ok := latest(rows, "gdp", "Real GDP", "B"); ok {
		out = append(out, in)
	}
	return out
}

func leadingInsights(rows []model.ChartRow) []Insight {
	var out []Insight
	for _, k := range []struct{ key, label string }{
		{"sentiment", "Consumer Sentiment"},
		{"permit", "Housing Permits"},
		{"retail", "Retail Sales"},
	} {
		if in, ok := latest(rows, k.key, k.label, ""); ok {
			in.Trend = calculator.TrendOf(rows, k.key)
			out = append(out, in)
		}
	}
	return out
}
