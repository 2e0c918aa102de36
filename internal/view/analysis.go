package view

import (
	"context"
	"time"

	"go.uber.org/zap"

	"EconDash/internal/collector"
	"EconDash/internal/model"
)

// AnalysisPanel fetches the AI narrative on demand. It stays Idle until
// Generate is called.
type AnalysisPanel struct {
	fetcher collector.Fetcher
	l       *loader[*model.Analysis]
}

func NewAnalysisPanel(fetcher collector.Fetcher, logger *zap.Logger) *AnalysisPanel {
	return &AnalysisPanel{fetcher: fetcher, l: newLoader[*model.Analysis]("analysis", "", logger)}
}

func (p *AnalysisPanel) State() State[*model.Analysis] { return p.l.snapshot() }

func (p *AnalysisPanel) Generate(ctx context.Context) State[*model.Analysis] {
	return p.l.run(ctx, "", func(ctx context.Context, _ model.Period) (*model.Analysis, error) {
		return p.fetcher.GenerateAnalysis(ctx)
	})
}

func (p *AnalysisPanel) Retry(ctx context.Context) State[*model.Analysis] { return p.Generate(ctx) }

// DefaultTitle heads the dashboard.
const DefaultTitle = "Economic Indicators Dashboard"

// Header shows the title and when the summary was last refreshed.
type Header struct {
	Title   string
	summary *SummaryView
}

func NewHeader(title string, summary *SummaryView) *Header {
	if title == "" {
		title = DefaultTitle
	}
	return &Header{Title: title, summary: summary}
}

// LastUpdated is the backend's updated_at of the loaded summary, falling
// back to when the summary was received.
func (h *Header) LastUpdated() (time.Time, bool) {
	st := h.summary.State()
	if st.Status != Loaded {
		return time.Time{}, false
	}
	if st.Data.Raw != nil && !st.Data.Raw.UpdatedAt.IsZero() {
		return st.Data.Raw.UpdatedAt, true
	}
	return st.UpdatedAt, !st.UpdatedAt.IsZero()
}

// Refresh reloads the summary.
func (h *Header) Refresh(ctx context.Context) State[SummaryData] { return h.summary.Load(ctx) }
