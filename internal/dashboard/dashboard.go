package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"EconDash/internal/collector"
	"EconDash/internal/model"
	"EconDash/internal/view"
)

// Dashboard owns one instance of every view. Views load independently;
// one view failing never affects another.
type Dashboard struct {
	Header   *view.Header
	Summary  *view.SummaryView
	Analysis *view.AnalysisPanel

	charts  []*view.ChartView
	byName  map[string]*view.ChartView
	fetcher collector.Fetcher
	logger  *zap.Logger
}

// New builds the dashboard. periods overrides the default period of the
// named chart views and must name a period the view offers.
func New(fetcher collector.Fetcher, title string, periods map[string]model.Period, logger *zap.Logger) (*Dashboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	summary := view.NewSummaryView(fetcher, logger)
	d := &Dashboard{
		Header:   view.NewHeader(title, summary),
		Summary:  summary,
		Analysis: view.NewAnalysisPanel(fetcher, logger),
		byName:   make(map[string]*view.ChartView),
		fetcher:  fetcher,
		logger:   logger,
	}
	for _, spec := range view.ChartSpecs() {
		if p, ok := periods[spec.Name]; ok {
			if !spec.Allows(p) {
				return nil, fmt.Errorf("view %s does not offer period %s", spec.Name, p)
			}
			spec.DefaultPeriod = p
		}
		cv := view.NewChartView(spec, fetcher, logger)
		d.charts = append(d.charts, cv)
		d.byName[spec.Name] = cv
	}
	for name := range periods {
		if _, ok := d.byName[name]; !ok {
			return nil, fmt.Errorf("unknown view %q", name)
		}
	}
	return d, nil
}

// Charts returns the chart views in display order.
func (d *Dashboard) Charts() []*view.ChartView { return d.charts }

// Chart looks a chart view up by name.
func (d *Dashboard) Chart(name string) (*view.ChartView, bool) {
	cv, ok := d.byName[name]
	return cv, ok
}

// Fetcher exposes the backend client for one-off calls such as health.
func (d *Dashboard) Fetcher() collector.Fetcher { return d.fetcher }

// LoadAll loads the summary and every chart, each in its own goroutine,
// and waits for all of them.
func (d *Dashboard) LoadAll(ctx context.Context) {
	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Summary.Load(ctx)
	}()
	d.loadCharts(ctx, &wg)
	wg.Wait()
	d.logger.Info("dashboard loaded",
		zap.Int("failed", d.failedCount()),
		zap.Duration("elapsed", time.Since(start)))
}

// Refresh reloads the summary through the header, then every chart.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.Header.Refresh(ctx)
	var wg sync.WaitGroup
	d.loadCharts(ctx, &wg)
	wg.Wait()
	d.logger.Info("dashboard refreshed", zap.Int("failed", d.failedCount()))
}

func (d *Dashboard) loadCharts(ctx context.Context, wg *sync.WaitGroup) {
	for _, cv := range d.charts {
		wg.Add(1)
		go func(cv *view.ChartView) {
			defer wg.Done()
			cv.Load(ctx)
		}(cv)
	}
}

func (d *Dashboard) failedCount() int {
	n := 0
	if d.Summary.State().Status == view.Failed {
		n++
	}
	for _, cv := range d.charts {
		if cv.State().Status == view.Failed {
			n++
		}
	}
	return n
}
