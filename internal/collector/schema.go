package collector

import (
	"errors"
	"fmt"
	"time"

	"EconDash/internal/model"
)

// Wire shapes. Pointer fields distinguish "absent" from "zero" so a body
// that merely decodes is still checked against the endpoint's schema.

type rawPoint struct {
	Date  *string  `json:"date"`
	Value *float64 `json:"value"`
}

type rawSeries struct {
	SeriesID  string      `json:"series_id"`
	Data      *[]rawPoint `json:"data"`
	Count     int         `json:"count"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Error     string      `json:"error"`
}

type rawIndicators struct {
	Category string                `json:"category"`
	Period   string                `json:"period"`
	Data     map[string]*rawSeries `json:"data"`
	Metadata model.SeriesMetadata  `json:"metadata"`
}

type rawSummaryEntry struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Date  *string  `json:"date"`
}

type rawSummary struct {
	Summary   map[string]map[string]*rawSummaryEntry `json:"summary"`
	UpdatedAt string                                 `json:"updated_at"`
}

type rawAnalysisBody struct {
	Summary *string `json:"summary"`
	Outlook *string `json:"outlook"`
}

type rawAnalysis struct {
	Analysis       *rawAnalysisBody                       `json:"analysis"`
	IndicatorsUsed map[string]map[string]*rawSummaryEntry `json:"indicators_used"`
	Model          string                                 `json:"model"`
}

type rawHealth struct {
	Status    *string `json:"status"`
	DebugMode bool    `json:"debug_mode"`
}

func (r *rawIndicators) toModel(cat model.Category, period model.Period) (*model.IndicatorSeries, error) {
	if r.Data == nil {
		return nil, errors.New("missing data object")
	}
	for _, code := range cat.RequiredSeries() {
		if _, ok := r.Data[code]; !ok {
			return nil, fmt.Errorf("missing series %s", code)
		}
	}

	out := &model.IndicatorSeries{
		Category: cat,
		Period:   period,
		Series:   make(map[string]model.SeriesData, len(r.Data)),
		Metadata: r.Metadata,
	}
	if r.Period != "" {
		out.Period = model.Period(r.Period)
	}
	for code, rs := range r.Data {
		if rs == nil {
			return nil, fmt.Errorf("series %s is null", code)
		}
		if rs.Data == nil {
			return nil, fmt.Errorf("series %s has no data array", code)
		}
		points := make([]model.IndicatorPoint, 0, len(*rs.Data))
		for i, rp := range *rs.Data {
			p, err := rp.toModel()
			if err != nil {
				return nil, fmt.Errorf("series %s point %d: %w", code, i, err)
			}
			points = append(points, p)
		}
		out.Series[code] = model.SeriesData{
			SeriesID:  rs.SeriesID,
			Data:      points,
			Count:     rs.Count,
			StartDate: rs.StartDate,
			EndDate:   rs.EndDate,
			Error:     rs.Error,
		}
	}
	return out, nil
}

func (r rawPoint) toModel() (model.IndicatorPoint, error) {
	if r.Date == nil {
		return model.IndicatorPoint{}, errors.New("missing date")
	}
	if r.Value == nil {
		return model.IndicatorPoint{}, errors.New("missing value")
	}
	d, err := model.ParseDate(*r.Date)
	if err != nil {
		return model.IndicatorPoint{}, err
	}
	return model.IndicatorPoint{Date: d, Value: *r.Value}, nil
}

func (r *rawSummary) toModel() (*model.Summary, error) {
	if r.Summary == nil {
		return nil, errors.New("missing summary object")
	}
	cats, err := convertEntries(r.Summary)
	if err != nil {
		return nil, err
	}
	out := &model.Summary{Categories: cats}
	if r.UpdatedAt != "" {
		ts, err := parseTimestamp(r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out.UpdatedAt = ts
	}
	return out, nil
}

func (r *rawAnalysis) toModel() (*model.Analysis, error) {
	if r.Analysis == nil {
		return nil, errors.New("missing analysis object")
	}
	if r.Analysis.Summary == nil || r.Analysis.Outlook == nil {
		return nil, errors.New("analysis needs both summary and outlook")
	}
	out := &model.Analysis{
		Summary: *r.Analysis.Summary,
		Outlook: *r.Analysis.Outlook,
		Model:   r.Model,
	}
	if r.IndicatorsUsed != nil {
		used, err := convertEntries(r.IndicatorsUsed)
		if err != nil {
			return nil, fmt.Errorf("indicators_used: %w", err)
		}
		out.IndicatorsUsed = used
	}
	return out, nil
}

func (r *rawHealth) toModel() (*model.Health, error) {
	if r.Status == nil {
		return nil, errors.New("missing status")
	}
	return &model.Health{Status: *r.Status, DebugMode: r.DebugMode}, nil
}

func convertEntries(in map[string]map[string]*rawSummaryEntry) (map[model.Category]map[string]model.SummaryEntry, error) {
	out := make(map[model.Category]map[string]model.SummaryEntry, len(in))
	for cat, entries := range in {
		conv := make(map[string]model.SummaryEntry, len(entries))
		for code, e := range entries {
			if e == nil || e.Value == nil || e.Date == nil {
				return nil, fmt.Errorf("%s.%s needs value and date", cat, code)
			}
			d, err := model.ParseDate(*e.Date)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cat, code, err)
			}
			conv[code] = model.SummaryEntry{Name: e.Name, Value: *e.Value, Date: d}
		}
		out[model.Category(cat)] = conv
	}
	return out, nil
}

// The backend stamps updated_at with a naive ISO timestamp in its local
// time; zone-less layouts are read in time.Local.
var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range naiveTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
