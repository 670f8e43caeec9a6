package bench_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/ordtree/internal/bench"
	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := bench.Config{Operations: 10, KeySpace: 10, VerifyEvery: 1, RemoveRatio: 0.5}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*bench.Config)
	}{
		{name: "operations", mutate: func(c *bench.Config) { c.Operations = 0 }},
		{name: "key space", mutate: func(c *bench.Config) { c.KeySpace = 0 }},
		{name: "verify every", mutate: func(c *bench.Config) { c.VerifyEvery = -1 }},
		{name: "ratio low", mutate: func(c *bench.Config) { c.RemoveRatio = -0.1 }},
		{name: "ratio high", mutate: func(c *bench.Config) { c.RemoveRatio = 1.1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), bench.ErrInvalidConfig)

			_, err := bench.Run(context.Background(), cfg, bench.Deps{})
			require.ErrorIs(t, err, bench.ErrInvalidConfig)
		})
	}
}

// TestRunVerifiesEveryOperation is the 10,000 operation randomized property:
// invariants and order are checked after every single Add and Remove.
func TestRunVerifiesEveryOperation(t *testing.T) {
	t.Parallel()

	cfg := bench.Config{
		Operations:  10000,
		KeySpace:    2000,
		Seed:        17,
		VerifyEvery: 1,
		RemoveRatio: 0.45,
	}

	report, err := bench.Run(context.Background(), cfg, bench.Deps{})
	require.NoError(t, err)
	require.True(t, report.Passed(), report.Failure)

	assert.Equal(t, cfg.Operations, report.Operations)
	assert.Equal(t, cfg.Operations, report.Adds+report.Removes)
	assert.Equal(t, cfg.Operations+1, report.Verifications)
	assert.Equal(t, report.AddsApplied-report.RemovesApplied, report.Len)
	assert.Equal(t, report.Len, report.ArenaUsed-1)
	assert.Positive(t, report.Rotations)
	assert.Positive(t, report.InsertFixups)
	assert.Positive(t, report.DeleteFixups)
	assert.Positive(t, report.Elapsed)
}

func TestRunIsReproducible(t *testing.T) {
	t.Parallel()

	cfg := bench.Config{Operations: 3000, KeySpace: 500, Seed: 99, VerifyEvery: 250, RemoveRatio: 0.3}

	first, err := bench.Run(context.Background(), cfg, bench.Deps{})
	require.NoError(t, err)

	second, err := bench.Run(context.Background(), cfg, bench.Deps{})
	require.NoError(t, err)

	first.Elapsed, second.Elapsed = 0, 0
	assert.Equal(t, first, second)
}

func TestRunOnlyFinalVerification(t *testing.T) {
	t.Parallel()

	cfg := bench.Config{Operations: 100, KeySpace: 10, Seed: 1, RemoveRatio: 0}

	report, err := bench.Run(context.Background(), cfg, bench.Deps{})
	require.NoError(t, err)
	require.True(t, report.Passed())

	assert.Equal(t, 1, report.Verifications)
	assert.Equal(t, 0, report.Removes)
	assert.LessOrEqual(t, report.Len, 10)
	assert.Equal(t, report.Len, report.AddsApplied)
}

func TestRunHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := bench.Config{Operations: 100, KeySpace: 10, Seed: 1}

	report, err := bench.Run(ctx, cfg, bench.Deps{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Operations)
}

func TestRunRecordsTelemetry(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := observability.NewTreeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var logs bytes.Buffer

	deps := bench.Deps{
		Tracer:  tp.Tracer("test"),
		Metrics: metrics,
		Logger: observability.NewLogger(observability.Config{
			Mode:      observability.ModeBench,
			LogLevel:  slog.LevelInfo,
			LogOutput: &logs,
		}),
	}

	cfg := bench.Config{Operations: 400, KeySpace: 50, Seed: 3, VerifyEvery: 100, RemoveRatio: 0.5}

	report, err := bench.Run(context.Background(), cfg, deps)
	require.NoError(t, err)
	require.True(t, report.Passed())

	spans := recorder.Ended()
	names := make([]string, 0, len(spans))

	for _, span := range spans {
		names = append(names, span.Name())
	}

	assert.ElementsMatch(t, []string{"bench.verify", "bench.run"}, names)
	assert.Contains(t, logs.String(), "bench finished")
	assert.Contains(t, logs.String(), "trace_id=")

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	var ops, size int64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "ordtree.ops.total":
					ops += dp.Value
				case "ordtree.tree.size":
					size += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(cfg.Operations), ops)
	assert.Equal(t, int64(report.Len), size)
}

func TestReportOpsPerSecond(t *testing.T) {
	t.Parallel()

	assert.Zero(t, bench.Report{Operations: 10}.OpsPerSecond())
	assert.InDelta(t, 20.0, bench.Report{Operations: 10, Elapsed: 500_000_000}.OpsPerSecond(), 1e-9)
}
