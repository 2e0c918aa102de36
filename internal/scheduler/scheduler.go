package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"EconDash/internal/dashboard"
	"EconDash/internal/model"
	"EconDash/internal/notifier"
	"EconDash/internal/view"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler refreshes the dashboard on a cron schedule and pushes a digest
// after every refresh when a sender is configured.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard *dashboard.Dashboard
	Notifier  Sender
	Logger    *zap.Logger
	Ctx       context.Context
	Now       func() time.Time
}

// NewScheduler creates a new Scheduler. sender may be nil.
func NewScheduler(ctx context.Context, d *dashboard.Dashboard, sender Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: d,
		Notifier:  sender,
		Logger:    logger,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// Register adds the refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.Logger.Info("running scheduled refresh")
	s.Dashboard.Refresh(s.Ctx)
	s.trySend(notifier.FormatDigest(s.Dashboard, s.Now()))
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText()
	}
	switch fields[0] {
	case "/summary":
		st := s.Dashboard.Summary.Load(ctx)
		return notifier.FormatSummary(st)
	case "/refresh":
		s.Dashboard.Refresh(ctx)
		return notifier.FormatDigest(s.Dashboard, s.Now())
	case "/analysis":
		st := s.Dashboard.Analysis.Generate(ctx)
		return notifier.FormatAnalysis(st)
	case "/chart":
		if len(fields) < 2 {
			return "usage: /chart <view> [period]"
		}
		cv, ok := s.Dashboard.Chart(fields[1])
		if !ok {
			return fmt.Sprintf("unknown view %q\n\n%s", fields[1], helpText())
		}
		var st view.State[view.ChartData]
		if len(fields) > 2 {
			var err error
			if st, err = setPeriod(ctx, cv, fields[2]); err != nil {
				return err.Error()
			}
		} else {
			st = cv.Load(ctx)
		}
		return notifier.FormatChart(cv.Spec(), st)
	default:
		return helpText()
	}
}

func helpText() string {
	return "Available commands:\n" +
		"• /summary\n" +
		"• /refresh\n" +
		"• /analysis\n" +
		"• /chart <" + strings.Join(viewNames(), "|") + "> [period]"
}

func viewNames() []string {
	specs := view.ChartSpecs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.Logger.Error("send notification failed", zap.Error(err))
	}
}

func setPeriod(ctx context.Context, cv *view.ChartView, token string) (view.State[view.ChartData], error) {
	p, err := model.ParsePeriod(token)
	if err != nil {
		return view.State[view.ChartData]{}, err
	}
	return cv.SetPeriod(ctx, p)
}
