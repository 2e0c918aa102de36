package model

import "time"

// SummaryEntry is the latest observation of one series.
type SummaryEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Date  Date    `json:"date"`
}

// Summary is the latest value of every tracked series, grouped by category.
type Summary struct {
	Categories map[Category]map[string]SummaryEntry `json:"summary"`
	UpdatedAt  time.Time                            `json:"updated_at"`
}

// Entry looks up one series in the summary.
func (s *Summary) Entry(cat Category, code string) (SummaryEntry, bool) {
	if s == nil {
		return SummaryEntry{}, false
	}
	e, ok := s.Categories[cat][code]
	return e, ok
}

// Analysis is the backend's AI narrative. The client only displays it.
type Analysis struct {
	Summary        string                               `json:"summary"`
	Outlook        string                               `json:"outlook"`
	Model          string                               `json:"model,omitempty"`
	IndicatorsUsed map[Category]map[string]SummaryEntry `json:"indicators_used,omitempty"`
}

// Health is the backend's /health response.
type Health struct {
	Status    string `json:"status"`
	DebugMode bool   `json:"debug_mode"`
}
