package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"EconDash/internal/collector"
	"EconDash/internal/config"
	"EconDash/internal/dashboard"
)

type options struct {
	configPath string
	apiURL     string
	verbose    bool
	mock       bool
}

// app is what every command runs against.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	fetcher collector.Fetcher
	dash    *dashboard.Dashboard
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "econdash",
		Short:         "Terminal and local web dashboard for economic indicators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultPath, "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&opts.mock, "mock", false, "serve canned data instead of calling the backend")

	root.AddCommand(
		newShowCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		newHealthCmd(opts),
		newAnalyzeCmd(opts),
		newAnalysisTestCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// setup loads .env and the config, then builds the logger, fetcher and
// dashboard.
func setup(opts *options) (*app, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	var fetcher collector.Fetcher
	if opts.mock {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewHTTPFetcher(cfg.API.BaseURL, cfg.Timeout(), cfg.Proxy, logger)
	}
	logger.Debug("data source", zap.String("fetcher", fetcher.Name()), zap.String("base_url", cfg.API.BaseURL))

	periods, err := cfg.Periods()
	if err != nil {
		return nil, err
	}
	d, err := dashboard.New(fetcher, cfg.Dashboard.Title, periods, logger)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, fetcher: fetcher, dash: d}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.DisableStacktrace = lvl > zapcore.DebugLevel
	return zc.Build()
}
