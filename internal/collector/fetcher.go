package collector

import (
	"context"

	"EconDash/internal/model"
)

// Fetcher is the backend API as the dashboard sees it. Every method issues
// exactly one request and returns either the parsed body or a *FetchError.
type Fetcher interface {
	Health(ctx context.Context) (*model.Health, error)
	Indicators(ctx context.Context, cat model.Category, period model.Period) (*model.IndicatorSeries, error)
	InterestRates(ctx context.Context, period model.Period) (*model.IndicatorSeries, error)
	Inflation(ctx context.Context, period model.Period) (*model.IndicatorSeries, error)
	Employment(ctx context.Context, period model.Period) (*model.IndicatorSeries, error)
	GDP(ctx context.Context, period model.Period) (*model.IndicatorSeries, error)
	Leading(ctx context.Context, period model.Period) (*model.IndicatorSeries, error)
	Summary(ctx context.Context) (*model.Summary, error)
	GenerateAnalysis(ctx context.Context) (*model.Analysis, error)
	TestAnalysis(ctx context.Context) (map[string]any, error)
	Name() string
}
