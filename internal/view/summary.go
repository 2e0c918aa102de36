package view

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"EconDash/internal/collector"
	"EconDash/internal/model"
)

// Metric is one flat card on the summary view.
type Metric struct {
	Code     string         `json:"code"`
	Label    string         `json:"label"`
	Category model.Category `json:"category"`
	Value    float64        `json:"value"`
	Unit     model.Unit     `json:"unit"`
	Date     model.Date     `json:"date"`
}

// Group is one category section of the summary detail list.
type Group struct {
	Category model.Category `json:"category"`
	Title    string         `json:"title"`
	Entries  []Metric       `json:"entries"`
}

// SummaryData is what a loaded summary view renders.
type SummaryData struct {
	Metrics   []Metric       `json:"metrics"`
	Groups    []Group        `json:"groups"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	Raw       *model.Summary `json:"-"`
}

type quickMetric struct {
	cat   model.Category
	code  string
	label string
}

var quickMetrics = []quickMetric{
	{model.CategoryInterestRates, "DFF", "Fed Funds Rate"},
	{model.CategoryInflation, "CPIAUCSL", "CPI"},
	{model.CategoryEmployment, "UNRATE", "Unemployment"},
	{model.CategoryGDP, "A191RL1Q225SBEA", "GDP Growth"},
	{model.CategoryLeading, "UMCSENT", "Consumer Sentiment"},
}

// SummaryView loads the latest value of every tracked series.
type SummaryView struct {
	fetcher collector.Fetcher
	l       *loader[SummaryData]
}

func NewSummaryView(fetcher collector.Fetcher, logger *zap.Logger) *SummaryView {
	return &SummaryView{fetcher: fetcher, l: newLoader[SummaryData]("summary", "", logger)}
}

func (v *SummaryView) State() State[SummaryData] { return v.l.snapshot() }

func (v *SummaryView) Load(ctx context.Context) State[SummaryData] {
	return v.l.run(ctx, "", v.fetch)
}

func (v *SummaryView) Retry(ctx context.Context) State[SummaryData] { return v.Load(ctx) }

func (v *SummaryView) fetch(ctx context.Context, _ model.Period) (SummaryData, error) {
	s, err := v.fetcher.Summary(ctx)
	if err != nil {
		return SummaryData{}, err
	}
	return BuildSummary(s), nil
}

// BuildSummary derives the quick metrics and the per-category groups.
// Metrics absent from s are skipped; groups follow catalogue order with
// uncatalogued codes appended alphabetically.
func BuildSummary(s *model.Summary) SummaryData {
	out := SummaryData{Raw: s}
	if s == nil {
		return out
	}
	if !s.UpdatedAt.IsZero() {
		out.UpdatedAt = s.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	for _, q := range quickMetrics {
		e, ok := s.Entry(q.cat, q.code)
		if !ok {
			continue
		}
		info, _, _ := model.LookupSeries(q.code)
		out.Metrics = append(out.Metrics, Metric{
			Code: q.code, Label: q.label, Category: q.cat,
			Value: e.Value, Unit: info.Unit, Date: e.Date,
		})
	}
	for _, cat := range model.Categories {
		entries, ok := s.Categories[cat]
		if !ok || len(entries) == 0 {
			continue
		}
		g := Group{Category: cat, Title: cat.Title()}
		seen := make(map[string]bool, len(entries))
		for _, info := range cat.Series() {
			if e, ok := entries[info.Code]; ok {
				g.Entries = append(g.Entries, entryMetric(cat, info.Code, e))
				seen[info.Code] = true
			}
		}
		var extra []string
		for code := range entries {
			if !seen[code] {
				extra = append(extra, code)
			}
		}
		sort.Strings(extra)
		for _, code := range extra {
			g.Entries = append(g.Entries, entryMetric(cat, code, entries[code]))
		}
		out.Groups = append(out.Groups, g)
	}
	return out
}

func entryMetric(cat model.Category, code string, e model.SummaryEntry) Metric {
	info, _, _ := model.LookupSeries(code)
	label := e.Name
	if label == "" {
		label = info.Name
	}
	return Metric{Code: code, Label: label, Category: cat, Value: e.Value, Unit: info.Unit, Date: e.Date}
}
