package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radpulse/internal/config"
)

func TestInitializeTracing_Disabled(t *testing.T) {
	tracing, err := InitializeTracing(config.ObservabilityConfig{TracingEnabled: false}, "", nil)
	require.NoError(t, err)
	require.NotNil(t, tracing.Tracer)

	// No-op tracer must still hand out usable spans.
	_, span := tracing.Tracer.Start(context.Background(), "load")
	span.End()

	assert.NoError(t, tracing.Shutdown(context.Background()))
}

func TestInitializeTracing_EnabledWithoutFileIsNoop(t *testing.T) {
	tracing, err := InitializeTracing(config.ObservabilityConfig{TracingEnabled: true}, "", nil)
	require.NoError(t, err)

	_, span := tracing.Tracer.Start(context.Background(), "load")
	span.End()

	assert.NoError(t, tracing.Shutdown(context.Background()))
}

func TestInitializeTracing_WritesSpansToFile(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "traces", "run.json")

	tracing, err := InitializeTracing(
		config.ObservabilityConfig{TracingEnabled: true}, traceFile, nil)
	require.NoError(t, err)

	ctx, span := tracing.Tracer.Start(context.Background(), "hypothesis")
	span.End()
	_ = ctx

	require.NoError(t, tracing.Shutdown(context.Background()))

	data, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hypothesis")
	assert.Contains(t, string(data), ServiceName)
}
