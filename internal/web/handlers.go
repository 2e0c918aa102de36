package web

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"EconDash/internal/calculator"
	"EconDash/internal/collector"
	"EconDash/internal/dashboard"
	"EconDash/internal/model"
	"EconDash/internal/render"
	"EconDash/internal/view"
)

// requestTimeout caps a handler's backend work above the fetch timeout.
const requestTimeout = 40 * time.Second

type handler struct {
	dash    *dashboard.Dashboard
	logger  *zap.Logger
	started time.Time
}

// viewInfo describes a chart view without its data.
type viewInfo struct {
	Name          string            `json:"name"`
	Title         string            `json:"title"`
	Subtitle      string            `json:"subtitle"`
	Category      model.Category    `json:"category"`
	Periods       []model.Period    `json:"periods"`
	DefaultPeriod model.Period      `json:"default_period"`
	Period        model.Period      `json:"period"`
	Status        view.Status       `json:"status"`
	Series        []view.SeriesLine `json:"series"`
}

type viewResponse struct {
	viewInfo
	State view.State[view.ChartData] `json:"state"`
}

func describe(cv *view.ChartView) viewInfo {
	spec := cv.Spec()
	st := cv.State()
	return viewInfo{
		Name:          spec.Name,
		Title:         spec.Title,
		Subtitle:      spec.Subtitle,
		Category:      spec.Category,
		Periods:       spec.Periods,
		DefaultPeriod: spec.DefaultPeriod,
		Period:        st.Period,
		Status:        st.Status,
		Series:        spec.Lines(),
	}
}

func withTimeout(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

func fail(c *fiber.Ctx, code int, msg string, err error) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if err != nil {
		resp.Message = err.Error()
	}
	return c.Status(code).JSON(resp)
}

func (h *handler) chart(c *fiber.Ctx) (*view.ChartView, error) {
	cv, ok := h.dash.Chart(c.Params("name"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown view "+c.Params("name"))
	}
	return cv, nil
}

// health handles GET /health. It reports the backend's health alongside
// the server's own.
func (h *handler) health(c *fiber.Ctx) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp := fiber.Map{
		"status": "healthy",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}
	backend, err := h.dash.Fetcher().Health(ctx)
	if err != nil {
		resp["status"] = "degraded"
		resp["backend"] = fiber.Map{"status": "unreachable", "error": err.Error()}
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	resp["backend"] = backend
	return c.JSON(resp)
}

// listViews handles GET /api/views
func (h *handler) listViews(c *fiber.Ctx) error {
	out := make([]viewInfo, 0, len(h.dash.Charts()))
	for _, cv := range h.dash.Charts() {
		out = append(out, describe(cv))
	}
	return c.JSON(out)
}

// getView handles GET /api/views/:name. An idle view is loaded first.
func (h *handler) getView(c *fiber.Ctx) error {
	cv, err := h.chart(c)
	if err != nil {
		return err
	}
	st := cv.State()
	if st.Status == view.Idle || c.QueryBool("reload") {
		ctx, cancel := withTimeout(c)
		defer cancel()
		st = cv.Load(ctx)
	}
	return c.JSON(viewResponse{viewInfo: describe(cv), State: st})
}

type periodRequest struct {
	Period string `json:"period" form:"period"`
}

// setPeriod handles POST /api/views/:name/period
func (h *handler) setPeriod(c *fiber.Ctx) error {
	cv, err := h.chart(c)
	if err != nil {
		return err
	}
	var req periodRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
	}
	if req.Period == "" {
		req.Period = c.Query("period")
	}
	p, err := model.ParsePeriod(req.Period)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid period", err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	st, err := cv.SetPeriod(ctx, p)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Period not offered", err)
	}
	return c.JSON(viewResponse{viewInfo: describe(cv), State: st})
}

// retryView handles POST /api/views/:name/retry
func (h *handler) retryView(c *fiber.Ctx) error {
	cv, err := h.chart(c)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	st := cv.Retry(ctx)
	return c.JSON(viewResponse{viewInfo: describe(cv), State: st})
}

// chartPNG handles GET /api/views/:name/chart.png
func (h *handler) chartPNG(c *fiber.Ctx) error {
	cv, err := h.chart(c)
	if err != nil {
		return err
	}
	st := cv.State()
	if st.Status == view.Idle {
		ctx, cancel := withTimeout(c)
		defer cancel()
		st = cv.Load(ctx)
	}
	if st.Status == view.Failed {
		return fail(c, fiber.StatusBadGateway, st.Message, st.Err)
	}
	png, err := render.ChartPNG(cv.Spec(), st)
	if errors.Is(err, render.ErrNothingToChart) {
		return fail(c, fiber.StatusNotFound, "No data to chart", err)
	}
	if err != nil {
		return fail(c, fiber.StatusConflict, "Chart not available", err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

type averagedSeries struct {
	Key    string                     `json:"key"`
	Code   string                     `json:"code"`
	Window int                        `json:"window"`
	Points []calculator.AveragedPoint `json:"points"`
}

// movingAverage handles GET /api/views/:name/average?window=N. It serves
// each series of the loaded view with its trailing moving average.
func (h *handler) movingAverage(c *fiber.Ctx) error {
	cv, err := h.chart(c)
	if err != nil {
		return err
	}
	window := c.QueryInt("window", 3)
	if window < 1 {
		return fail(c, fiber.StatusBadRequest, "window must be positive", nil)
	}
	st := cv.State()
	if st.Status != view.Loaded {
		return fail(c, fiber.StatusConflict, "View not loaded", errors.New(st.Status.String()))
	}
	out := make([]averagedSeries, 0, len(st.Data.Series))
	for _, s := range st.Data.Series {
		points, err := calculator.MovingAverage(calculator.Column(st.Data.Rows, s.Key), window)
		if err != nil {
			h.logger.Debug("moving average skipped", zap.String("series", s.Code), zap.Error(err))
			points = []calculator.AveragedPoint{}
		}
		out = append(out, averagedSeries{Key: s.Key, Code: s.Code, Window: window, Points: points})
	}
	return c.JSON(out)
}

// getSummary handles GET /api/summary. An idle summary is loaded first.
func (h *handler) getSummary(c *fiber.Ctx) error {
	st := h.dash.Summary.State()
	if st.Status == view.Idle {
		ctx, cancel := withTimeout(c)
		defer cancel()
		st = h.dash.Summary.Load(ctx)
	}
	return h.summaryResponse(c, st)
}

// refreshSummary handles POST /api/summary/refresh, the header's refresh.
func (h *handler) refreshSummary(c *fiber.Ctx) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	return h.summaryResponse(c, h.dash.Header.Refresh(ctx))
}

func (h *handler) summaryResponse(c *fiber.Ctx, st view.State[view.SummaryData]) error {
	resp := fiber.Map{"title": h.dash.Header.Title, "state": st}
	if ts, ok := h.dash.Header.LastUpdated(); ok {
		resp["last_updated"] = ts
	}
	return c.JSON(resp)
}

// getAnalysis handles GET /api/analysis
func (h *handler) getAnalysis(c *fiber.Ctx) error {
	return c.JSON(h.dash.Analysis.State())
}

// generateAnalysis handles POST /api/analysis
func (h *handler) generateAnalysis(c *fiber.Ctx) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	st := h.dash.Analysis.Generate(ctx)
	if st.Status == view.Failed {
		var fe *collector.FetchError
		code := fiber.StatusBadGateway
		if errors.As(st.Err, &fe) && fe.Kind == collector.KindNetwork {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(st)
	}
	return c.JSON(st)
}
