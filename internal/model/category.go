package model

import "fmt"

// Category groups related series behind one backend endpoint.
type Category string

const (
	CategoryInterestRates Category = "interest_rates"
	CategoryInflation     Category = "inflation"
	CategoryEmployment    Category = "employment"
	CategoryGDP           Category = "gdp"
	CategoryLeading       Category = "leading"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryInterestRates,
	CategoryInflation,
	CategoryEmployment,
	CategoryGDP,
	CategoryLeading,
}

// Unit tells the renderer how to print a value.
type Unit string

const (
	UnitPercent Unit = "%"
	UnitIndex   Unit = ""
	UnitCount   Unit = "count"
)

// SeriesInfo describes one tracked series.
type SeriesInfo struct {
	Code string
	Name string
	Unit Unit
}

type categoryInfo struct {
	path     string
	title    string
	series   []SeriesInfo
	required []string
}

var catalog = map[Category]categoryInfo{
	CategoryInterestRates: {
		path:  "/api/indicators/interest-rates",
		title: "Interest Rates",
		series: []SeriesInfo{
			{Code: "DFF", Name: "Federal Funds Rate", Unit: UnitPercent},
			{Code: "DGS10", Name: "10-Year Treasury Rate", Unit: UnitPercent},
			{Code: "DGS2", Name: "2-Year Treasury Rate", Unit: UnitPercent},
			{Code: "T10Y2Y", Name: "10Y-2Y Treasury Spread", Unit: UnitPercent},
			{Code: "MORTGAGE30US", Name: "30-Year Mortgage Rate", Unit: UnitPercent},
		},
		required: []string{"DFF", "DGS10", "DGS2"},
	},
	CategoryInflation: {
		path:  "/api/indicators/inflation",
		title: "Inflation",
		series: []SeriesInfo{
			{Code: "CPIAUCSL", Name: "Consumer Price Index", Unit: UnitIndex},
			{Code: "CPILFESL", Name: "Core CPI", Unit: UnitIndex},
			{Code: "PCEPI", Name: "PCE Price Index", Unit: UnitIndex},
			{Code: "PCEPILFE", Name: "Core PCE", Unit: UnitIndex},
		},
		required: []string{"CPIAUCSL", "CPILFESL", "PCEPI", "PCEPILFE"},
	},
	CategoryEmployment: {
		path:  "/api/indicators/employment",
		title: "Employment",
		series: []SeriesInfo{
			{Code: "UNRATE", Name: "Unemployment Rate", Unit: UnitPercent},
			{Code: "PAYEMS", Name: "Nonfarm Payrolls", Unit: UnitCount},
			{Code: "ICSA", Name: "Initial Jobless Claims", Unit: UnitCount},
			{Code: "JTSJOL", Name: "Job Openings", Unit: UnitCount},
		},
		required: []string{"UNRATE", "PAYEMS"},
	},
	CategoryGDP: {
		path:  "/api/indicators/gdp",
		title: "GDP & Growth",
		series: []SeriesInfo{
			{Code: "GDP", Name: "Gross Domestic Product", Unit: UnitCount},
			{Code: "GDPC1", Name: "Real GDP", Unit: UnitCount},
			{Code: "A191RL1Q225SBEA", Name: "Real GDP Growth Rate", Unit: UnitPercent},
			{Code: "INDPRO", Name: "Industrial Production", Unit: UnitIndex},
		},
		required: []string{"GDPC1", "A191RL1Q225SBEA", "INDPRO"},
	},
	CategoryLeading: {
		path:  "/api/indicators/leading",
		title: "Leading Indicators",
		series: []SeriesInfo{
			{Code: "USSLIND", Name: "Leading Index for US", Unit: UnitIndex},
			{Code: "UMCSENT", Name: "Consumer Sentiment", Unit: UnitIndex},
			{Code: "PERMIT", Name: "New Housing Permits", Unit: UnitCount},
			{Code: "RETAILSMNSA", Name: "Retail Sales", Unit: UnitCount},
		},
		required: []string{"UMCSENT", "PERMIT", "RETAILSMNSA"},
	},
}

// ParseCategory validates a category token.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := catalog[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Path is the backend endpoint serving the category.
func (c Category) Path() string { return catalog[c].path }

// Title is the human-readable category name.
func (c Category) Title() string {
	if t := catalog[c].title; t != "" {
		return t
	}
	return string(c)
}

// Series lists the tracked series of the category.
func (c Category) Series() []SeriesInfo { return catalog[c].series }

// RequiredSeries lists the codes an indicators response must contain.
func (c Category) RequiredSeries() []string { return catalog[c].required }

// LookupSeries finds a series by code across all categories.
func LookupSeries(code string) (SeriesInfo, Category, bool) {
	for _, c := range Categories {
		for _, s := range catalog[c].series {
			if s.Code == code {
				return s, c, true
			}
		}
	}
	return SeriesInfo{Code: code, Name: code}, "", false
}
