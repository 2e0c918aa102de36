package model

// IndicatorPoint is one observation of a series.
type IndicatorPoint struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// SeriesData is one series as returned by the backend. Error carries the
// backend's upstream failure message; Data is empty in that case.
type SeriesData struct {
	SeriesID  string           `json:"series_id"`
	Data      []IndicatorPoint `json:"data"`
	Count     int              `json:"count"`
	StartDate string           `json:"start_date,omitempty"`
	EndDate   string           `json:"end_date,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// SeriesMetadata describes the window the backend actually queried.
type SeriesMetadata struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Source    string `json:"source"`
}

// IndicatorSeries is the response of one category query, keyed by series code.
type IndicatorSeries struct {
	Category Category              `json:"category"`
	Period   Period                `json:"period"`
	Series   map[string]SeriesData `json:"data"`
	Metadata SeriesMetadata        `json:"metadata"`
}

// Points returns the observations of code, or nil when the series is absent.
func (s *IndicatorSeries) Points(code string) []IndicatorPoint {
	if s == nil {
		return nil
	}
	return s.Series[code].Data
}
