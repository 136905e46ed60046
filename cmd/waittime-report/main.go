// Command waittime-report runs the radiology wait-time analysis pipeline:
// it loads the configured dataset, cleans and derives columns, renders the
// descriptive plots, prints summary statistics, and tests whether wait
// times differ between AI-suspected positive and negative cases.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"radpulse/internal/config"
	"radpulse/internal/exporter"
	"radpulse/internal/infrastructure"
	"radpulse/internal/pipeline"
	"radpulse/internal/plotting"
)

func main() {
	configPath := flag.String("config", "", "path to the INI settings file (defaults to config.ini, override with RADPULSE_CONFIG_FILE)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	runID := infrastructure.GenerateRunID()
	ctx := infrastructure.WithRunID(context.Background(), runID)
	logger.InfoContext(ctx, "Starting analysis run",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("dataset", cfg.Paths.Dataset))

	tracing, err := infrastructure.InitializeTracing(cfg.Observability, cfg.Paths.TraceFile, logger)
	if err != nil {
		return err
	}
	defer tracing.Shutdown(ctx)

	var metrics *infrastructure.RunMetrics
	if cfg.Observability.MetricsEnabled {
		metrics = infrastructure.NewRunMetrics()
	}

	style, err := plotting.StyleFromConfig(cfg)
	if err != nil {
		return err
	}
	renderer := plotting.NewRenderer(cfg.Paths.PlotsDir, style, logger)

	p := pipeline.New(cfg, logger, renderer, exporter.NewCSVWriter(logger), metrics, os.Stdout)
	summary := p.Summary()
	summary.RunID = runID
	summary.AppVersion = config.AppVersion

	started := time.Now()
	summary.StartedAt = started.Format(time.RFC3339)

	runner := pipeline.NewRunner(logger, tracing.Tracer, metrics)
	if err := runner.Execute(ctx, p.Stages()); err != nil {
		return err
	}

	finished := time.Now()
	summary.FinishedAt = finished.Format(time.RFC3339)

	if cfg.Paths.RunSummary != "" {
		if err := summary.Write(cfg.Paths.RunSummary); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Run summary written", slog.String("path", cfg.Paths.RunSummary))
	}

	if metrics != nil {
		metrics.RunDuration.Set(finished.Sub(started).Seconds())
		if cfg.Paths.MetricsTextfile != "" {
			if err := metrics.WriteTextfile(cfg.Paths.MetricsTextfile); err != nil {
				return err
			}
			logger.InfoContext(ctx, "Metrics written", slog.String("path", cfg.Paths.MetricsTextfile))
		}
	}

	logger.InfoContext(ctx, "Analysis run complete",
		slog.Int("plots", len(summary.Plots)),
		slog.Duration("duration", finished.Sub(started)))
	return nil
}
