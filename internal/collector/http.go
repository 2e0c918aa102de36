package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"EconDash/internal/model"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 30 * time.Second

// HTTPFetcher implements Fetcher against the dashboard backend's REST API.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewHTTPFetcher creates a fetcher with the given timeout and optional proxy.
func NewHTTPFetcher(baseURL string, timeout time.Duration, proxyURL string, logger *zap.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			logger.Warn("ignoring invalid proxy url", zap.String("proxy", proxyURL), zap.Error(err))
		}
	}
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Logger: logger,
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

func (f *HTTPFetcher) Health(ctx context.Context) (*model.Health, error) {
	var raw rawHealth
	if err := f.do(ctx, OpHealth, http.MethodGet, "/health", nil, &raw); err != nil {
		return nil, err
	}
	h, err := raw.toModel()
	if err != nil {
		return nil, malformed(OpHealth, err)
	}
	return h, nil
}

func (f *HTTPFetcher) InterestRates(ctx context.Context, period model.Period) (*model.IndicatorSeries, error) {
	return f.Indicators(ctx, model.CategoryInterestRates, period)
}

func (f *HTTPFetcher) Inflation(ctx context.Context, period model.Period) (*model.IndicatorSeries, error) {
	return f.Indicators(ctx, model.CategoryInflation, period)
}

func (f *HTTPFetcher) Employment(ctx context.Context, period model.Period) (*model.IndicatorSeries, error) {
	return f.Indicators(ctx, model.CategoryEmployment, period)
}

func (f *HTTPFetcher) GDP(ctx context.Context, period model.Period) (*model.IndicatorSeries, error) {
	return f.Indicators(ctx, model.CategoryGDP, period)
}

func (f *HTTPFetcher) Leading(ctx context.Context, period model.Period) (*model.IndicatorSeries, error) {
	return f.Indicators(ctx, model.CategoryLeading, period)
}

// Indicators loads one category's series for the trailing period.
func (f *HTTPFetcher) Indicators(ctx context.Context, cat model.Category, period model.Period) (*model.IndicatorSeries, error) {
	op := OpFor(cat)
	if cat.Path() == "" {
		return nil, &FetchError{Kind: KindRequest, Op: op, Message: op.DefaultMessage(),
			Err: fmt.Errorf("unknown category %q", cat)}
	}
	var raw rawIndicators
	query := url.Values{"period": {string(period)}}
	if err := f.do(ctx, op, http.MethodGet, cat.Path(), query, &raw); err != nil {
		return nil, err
	}
	series, err := raw.toModel(cat, period)
	if err != nil {
		return nil, malformed(op, err)
	}
	for code, s := range series.Series {
		if s.Error != "" {
			f.Logger.Warn("backend reported series error",
				zap.String("op", string(op)), zap.String("series", code), zap.String("error", s.Error))
		}
	}
	return series, nil
}

func (f *HTTPFetcher) Summary(ctx context.Context) (*model.Summary, error) {
	var raw rawSummary
	if err := f.do(ctx, OpSummary, http.MethodGet, "/api/indicators/summary", nil, &raw); err != nil {
		return nil, err
	}
	s, err := raw.toModel()
	if err != nil {
		return nil, malformed(OpSummary, err)
	}
	return s, nil
}

func (f *HTTPFetcher) GenerateAnalysis(ctx context.Context) (*model.Analysis, error) {
	var raw rawAnalysis
	if err := f.do(ctx, OpAnalysis, http.MethodPost, "/api/analysis/generate", nil, &raw); err != nil {
		return nil, err
	}
	a, err := raw.toModel()
	if err != nil {
		return nil, malformed(OpAnalysis, err)
	}
	return a, nil
}

// TestAnalysis calls the backend's AI connectivity probe. Its body has no
// fixed schema beyond being a JSON object.
func (f *HTTPFetcher) TestAnalysis(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := f.do(ctx, OpAnalysisTest, http.MethodGet, "/api/analysis/test", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, malformed(OpAnalysisTest, fmt.Errorf("expected a JSON object"))
	}
	return out, nil
}

// do issues one request and decodes a 2xx body into out. Every failure is
// returned as a *FetchError.
func (f *HTTPFetcher) do(ctx context.Context, op Op, method, path string, query url.Values, out any) error {
	req, err := f.newRequest(ctx, method, path, query)
	if err != nil {
		return &FetchError{Kind: KindRequest, Op: op, Message: op.DefaultMessage(), Err: err}
	}
	reqID := req.Header.Get("X-Request-ID")
	start := time.Now()

	resp, err := f.Client.Do(req)
	if err != nil {
		f.Logger.Warn("backend unreachable",
			zap.String("op", string(op)), zap.String("request_id", reqID), zap.Error(err))
		return &FetchError{Kind: KindNetwork, Op: op, Message: ConnectivityMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Message: ConnectivityMessage,
			Err: fmt.Errorf("read body: %w", err)}
	}
	f.Logger.Debug("backend response",
		zap.String("op", string(op)),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			Kind:    KindHTTP,
			Op:      op,
			Status:  resp.StatusCode,
			Message: detailOr(body, op.DefaultMessage()),
			Err:     fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 256)),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformed(op, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func (f *HTTPFetcher) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	if f.BaseURL == "" {
		return nil, fmt.Errorf("base url is not configured")
	}
	endpoint := f.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var body io.Reader
	if method == http.MethodPost {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// detailOr extracts the server's string "detail" field, falling back to def.
func detailOr(body []byte, def string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return def
	}
	if s, ok := payload.Detail.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
