package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconDash/internal/collector"
	"EconDash/internal/dashboard"
	"EconDash/internal/view"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return f.err
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestScheduler(t *testing.T, sender Sender) *Scheduler {
	t.Helper()
	m := &collector.MockFetcher{Now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	d, err := dashboard.New(m, "", nil, nil)
	require.NoError(t, err)
	s := NewScheduler(context.Background(), d, sender, nil)
	s.Now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestRunNow_SendsDigest(t *testing.T) {
	fs := &fakeSender{}
	s := newTestScheduler(t, fs)

	s.RunNow()
	msgs := fs.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], view.DefaultTitle)
	assert.Contains(t, msgs[0], "Interest Rates")

	cv, _ := s.Dashboard.Chart(view.GDP)
	assert.Equal(t, view.Loaded, cv.State().Status)
}

func TestRunNow_WithoutSenderOrFailingSender(t *testing.T) {
	s := newTestScheduler(t, nil)
	assert.NotPanics(t, s.RunNow)

	fs := &fakeSender{err: errors.New("telegram down")}
	s = newTestScheduler(t, fs)
	s.RunNow()
	assert.Len(t, fs.messages(), 1)
}

func TestRegister(t *testing.T) {
	s := newTestScheduler(t, nil)
	require.NoError(t, s.Register("0 0 8 * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))

	s.Start()
	s.Stop()
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler(t, nil)
	ctx := context.Background()

	out := s.HandleCommand(ctx, "/summary")
	assert.Contains(t, out, "Key Indicators")
	assert.Contains(t, out, "Fed Funds Rate")

	out = s.HandleCommand(ctx, "/analysis")
	assert.Contains(t, out, "<b>Outlook</b>")

	out = s.HandleCommand(ctx, "/chart leading 5y")
	assert.Contains(t, out, "[5y]")
	cv, _ := s.Dashboard.Chart(view.Leading)
	assert.Equal(t, "5y", string(cv.Period()))

	out = s.HandleCommand(ctx, "/chart gdp 1m")
	assert.Contains(t, out, "does not offer period")

	out = s.HandleCommand(ctx, "/chart gdp 2w")
	assert.Contains(t, out, "unknown period")

	out = s.HandleCommand(ctx, "/chart weather")
	assert.Contains(t, out, `unknown view "weather"`)

	out = s.HandleCommand(ctx, "/chart")
	assert.Contains(t, out, "usage")

	out = s.HandleCommand(ctx, "/refresh")
	assert.Contains(t, out, "Employment")

	out = s.HandleCommand(ctx, "hello")
	assert.Contains(t, out, "/chart <interest-rates|inflation|employment|gdp|leading>")
}
