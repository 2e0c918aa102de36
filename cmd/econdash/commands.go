package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"EconDash/internal/model"
	"EconDash/internal/notifier"
	"EconDash/internal/render"
	"EconDash/internal/scheduler"
	"EconDash/internal/view"
	"EconDash/internal/web"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func selectCharts(a *app, names []string) ([]*view.ChartView, error) {
	if len(names) == 0 {
		return a.dash.Charts(), nil
	}
	out := make([]*view.ChartView, 0, len(names))
	for _, n := range names {
		cv, ok := a.dash.Chart(n)
		if !ok {
			return nil, fmt.Errorf("unknown view %q", n)
		}
		out = append(out, cv)
	}
	return out, nil
}

// loadCharts loads each chart concurrently, at period when one is given.
func loadCharts(ctx context.Context, charts []*view.ChartView, period string) error {
	var p model.Period
	if period != "" {
		var err error
		if p, err = model.ParsePeriod(period); err != nil {
			return err
		}
		for _, cv := range charts {
			if !cv.Spec().Allows(p) {
				return fmt.Errorf("view %s does not offer period %s", cv.Name(), p)
			}
		}
	}
	var wg sync.WaitGroup
	for _, cv := range charts {
		wg.Add(1)
		go func(cv *view.ChartView) {
			defer wg.Done()
			if p != "" {
				_, _ = cv.SetPeriod(ctx, p)
				return
			}
			cv.Load(ctx)
		}(cv)
	}
	wg.Wait()
	return nil
}

func printCharts(w io.Writer, r *render.Text, charts []*view.ChartView) {
	for _, cv := range charts {
		fmt.Fprintln(w)
		fmt.Fprint(w, r.Chart(cv.Spec(), cv.State()))
	}
}

func newShowCmd(opts *options) *cobra.Command {
	var period string
	var noSummary bool
	cmd := &cobra.Command{
		Use:   "show [view...]",
		Short: "Load and print the summary and chart views",
		Long:  "Views: interest-rates, inflation, employment, gdp, leading. All are shown when none is named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			charts, err := selectCharts(a, args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			out := cmd.OutOrStdout()
			r := render.NewText(out)
			r.TableRows = a.cfg.Dashboard.TableRows
			if !noSummary {
				a.dash.Header.Refresh(ctx)
				fmt.Fprint(out, r.Header(a.dash.Header))
				fmt.Fprintln(out)
				fmt.Fprint(out, r.Summary(a.dash.Summary.State()))
			}
			if err := loadCharts(ctx, charts, period); err != nil {
				return err
			}
			printCharts(out, r, charts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "", "period for every shown view (1m,3m,6m,1y,3y,5y)")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "skip the summary section")
	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch [view...]",
		Short: "Reload and reprint the dashboard on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			if interval < time.Second {
				return errors.New("interval must be at least 1s")
			}
			charts, err := selectCharts(a, args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			out := cmd.OutOrStdout()
			r := render.NewText(out)
			r.TableRows = a.cfg.Dashboard.TableRows
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				a.dash.Header.Refresh(ctx)
				_ = loadCharts(ctx, charts, "")
				if r.Color {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				fmt.Fprint(out, r.Header(a.dash.Header))
				fmt.Fprint(out, r.Summary(a.dash.Summary.State()))
				printCharts(out, r, charts)
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "reload interval")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	var schedule bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard views as JSON and PNG over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, cancel := signalContext()
			defer cancel()

			var sender scheduler.Sender
			var tn *notifier.TelegramNotifier
			if a.cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
				sender = tn
			}
			sched := scheduler.NewScheduler(ctx, a.dash, sender, a.logger)
			if schedule {
				if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()
			}
			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				a.logger.Info("telegram polling started")
			}

			go a.dash.LoadAll(ctx)

			srv := web.NewApp(a.dash, a.logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()
			a.logger.Info("dashboard server started", zap.String("addr", addr))

			select {
			case err := <-errCh:
				return fmt.Errorf("listen: %w", err)
			case <-ctx.Done():
			}
			a.logger.Info("shutdown signal received, stopping")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			return srv.ShutdownWithContext(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "refresh on the configured cron schedule")
	return cmd
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			ctx, cancel := signalContext()
			defer cancel()
			h, err := a.fetcher.Health(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend %s: %s (debug mode %v)\n", a.cfg.API.BaseURL, h.Status, h.DebugMode)
			return nil
		},
	}
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Generate and print the AI economic analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			ctx, cancel := signalContext()
			defer cancel()
			out := cmd.OutOrStdout()
			st := a.dash.Analysis.Generate(ctx)
			fmt.Fprint(out, render.NewText(out).Analysis(st))
			if st.Status == view.Failed {
				return st.Err
			}
			return nil
		},
	}
}

func newAnalysisTestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analysis-test",
		Short: "Call the backend's AI connectivity probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			ctx, cancel := signalContext()
			defer cancel()
			res, err := a.fetcher.TestAnalysis(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var period, out string
	cmd := &cobra.Command{
		Use:   "export <view>",
		Short: "Write a chart view as a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			charts, err := selectCharts(a, args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			if err := loadCharts(ctx, charts, period); err != nil {
				return err
			}
			cv := charts[0]
			st := cv.State()
			if st.Status == view.Failed {
				return st.Err
			}
			png, err := render.ChartPNG(cv.Spec(), st)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s_%s.png", cv.Name(), st.Period)
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "", "period to chart")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <view>_<period>.png)")
	return cmd
}
