package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconDash/internal/collector"
	"EconDash/internal/dashboard"
	"EconDash/internal/model"
	"EconDash/internal/view"
)

func newTestApp(t *testing.T, f collector.Fetcher) (*fiber.App, *dashboard.Dashboard) {
	t.Helper()
	d, err := dashboard.New(f, "", nil, nil)
	require.NoError(t, err)
	return NewApp(d, nil), d
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func mock() *collector.MockFetcher {
	return &collector.MockFetcher{Now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, mock())
	resp, body := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	down := mock()
	down.Err = &collector.FetchError{Kind: collector.KindNetwork, Message: collector.ConnectivityMessage}
	app, _ = newTestApp(t, down)
	resp, body = do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), collector.ConnectivityMessage)
}

func TestListViews(t *testing.T) {
	app, _ := newTestApp(t, mock())
	resp, body := do(t, app, http.MethodGet, "/api/views", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var views []struct {
		Name          string   `json:"name"`
		Periods       []string `json:"periods"`
		DefaultPeriod string   `json:"default_period"`
		Status        string   `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &views))
	require.Len(t, views, 5)
	assert.Equal(t, view.InterestRates, views[0].Name)
	assert.Equal(t, "idle", views[0].Status)
	assert.Equal(t, []string{"3y", "5y"}, views[3].Periods)
	assert.Equal(t, "5y", views[3].DefaultPeriod)
}

func TestGetView_LoadsIdleView(t *testing.T) {
	m := mock()
	m.Indicator = map[model.Category]*model.IndicatorSeries{
		model.CategoryInterestRates: {
			Category: model.CategoryInterestRates,
			Period:   model.Period1Y,
			Series: map[string]model.SeriesData{
				"DFF":   {Data: []model.IndicatorPoint{{Date: model.NewDate(2024, 1, 1), Value: 5.3}}},
				"DGS10": {Data: []model.IndicatorPoint{{Date: model.NewDate(2024, 1, 1), Value: 4.1}}},
				"DGS2":  {Data: []model.IndicatorPoint{{Date: model.NewDate(2024, 1, 1), Value: 4.6}}},
			},
		},
	}
	app, _ := newTestApp(t, m)
	resp, body := do(t, app, http.MethodGet, "/api/views/interest-rates", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		State struct {
			Status string `json:"status"`
			Period string `json:"period"`
			Data   struct {
				Rows []map[string]any `json:"rows"`
			} `json:"data"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "loaded", out.State.Status)
	assert.Equal(t, "1y", out.State.Period)
	require.Len(t, out.State.Data.Rows, 1)
	assert.Equal(t, map[string]any{"date": "2024-01-01", "dff": 5.3, "dgs10": 4.1, "dgs2": 4.6}, out.State.Data.Rows[0])

	resp, _ = do(t, app, http.MethodGet, "/api/views/weather", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetPeriod(t *testing.T) {
	app, d := newTestApp(t, mock())

	resp, body := do(t, app, http.MethodPost, "/api/views/leading/period", `{"period":"5y"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	cv, _ := d.Chart(view.Leading)
	assert.Equal(t, model.Period5Y, cv.Period())
	assert.Equal(t, view.Loaded, cv.State().Status)

	resp, _ = do(t, app, http.MethodPost, "/api/views/gdp/period?period=3y", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, app, http.MethodPost, "/api/views/gdp/period", `{"period":"1m"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "does not offer period")

	resp, _ = do(t, app, http.MethodPost, "/api/views/gdp/period", `{"period":"2w"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRetryAndFailure(t *testing.T) {
	m := mock()
	m.Err = &collector.FetchError{Kind: collector.KindHTTP, Status: 404, Message: "not found"}
	app, _ := newTestApp(t, m)

	resp, body := do(t, app, http.MethodPost, "/api/views/inflation/retry", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"failed"`)
	assert.Contains(t, string(body), `"error":"not found"`)

	resp, _ = do(t, app, http.MethodGet, "/api/views/inflation/chart.png", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	m.Err = nil
	resp, body = do(t, app, http.MethodPost, "/api/views/inflation/retry", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"loaded"`)
}

func TestChartPNGAndAverage(t *testing.T) {
	app, _ := newTestApp(t, mock())

	resp, _ := do(t, app, http.MethodGet, "/api/views/employment/average?window=3", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/api/views/employment/chart.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "\x89PNG", string(body[:4]))

	resp, body = do(t, app, http.MethodGet, "/api/views/employment/average?window=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var avg []struct {
		Code   string `json:"code"`
		Points []struct {
			HasAverage bool `json:"has_average"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(body, &avg))
	require.Len(t, avg, 2)
	assert.Equal(t, "UNRATE", avg[0].Code)
	require.Greater(t, len(avg[0].Points), 3)
	assert.False(t, avg[0].Points[1].HasAverage)
	assert.True(t, avg[0].Points[2].HasAverage)

	resp, _ = do(t, app, http.MethodGet, "/api/views/employment/average?window=0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummaryAndAnalysis(t *testing.T) {
	app, d := newTestApp(t, mock())

	resp, body := do(t, app, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"last_updated"`)
	assert.Contains(t, string(body), `"DFF"`)

	resp, _ = do(t, app, http.MethodPost, "/api/summary/refresh", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/api/analysis", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"idle"`)

	resp, body = do(t, app, http.MethodPost, "/api/analysis", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"outlook"`)
	assert.Equal(t, view.Loaded, d.Analysis.State().Status)
}

func TestGenerateAnalysis_Unreachable(t *testing.T) {
	m := mock()
	m.Err = &collector.FetchError{Kind: collector.KindNetwork, Message: collector.ConnectivityMessage}
	app, _ := newTestApp(t, m)

	resp, body := do(t, app, http.MethodPost, "/api/analysis", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), collector.ConnectivityMessage)
}
