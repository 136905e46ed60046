package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"radpulse/internal/infrastructure"
)

// Stage is one named step of the pipeline.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes stages sequentially. Each stage gets a span, structured
// entry/exit logs, and a duration metric. The first failing stage aborts
// the run.
type Runner struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// NewRunner creates a stage runner. A nil logger falls back to the default
// logger and a nil tracer to a no-op tracer; metrics may be nil.
func NewRunner(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.RunMetrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("radpulse/pipeline")
	}
	return &Runner{logger: logger, tracer: tracer, metrics: metrics}
}

// Execute runs the stages in order, stopping at the first error.
func (r *Runner) Execute(ctx context.Context, stages []Stage) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before stage %s: %w", stage.Name, err)
		}

		stageCtx, span := r.tracer.Start(ctx, stage.Name)
		r.logger.InfoContext(stageCtx, "Stage started", slog.String("stage", stage.Name))

		start := time.Now()
		err := stage.Run(stageCtx)
		elapsed := time.Since(start)

		if r.metrics != nil {
			r.metrics.ObserveStage(stage.Name, elapsed)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			r.logger.ErrorContext(stageCtx, "Stage failed",
				slog.String("stage", stage.Name),
				slog.Duration("duration", elapsed),
				slog.String("error", err.Error()))
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		span.End()
		r.logger.InfoContext(stageCtx, "Stage completed",
			slog.String("stage", stage.Name),
			slog.Duration("duration", elapsed))
	}
	return nil
}
