package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
)

func setupTreeMetrics(t *testing.T) (*observability.TreeMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	tm, err := observability.NewTreeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return tm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}

	return metricdata.Metrics{}, false
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64

	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attribute.Key(key)); found && v.AsString() == value {
			total += dp.Value
		}
	}

	return total
}

func TestRecordOp(t *testing.T) {
	t.Parallel()

	tm, reader := setupTreeMetrics(t)
	ctx := context.Background()

	tm.RecordOp(ctx, "add", true, 1, time.Microsecond)
	tm.RecordOp(ctx, "add", true, 1, time.Microsecond)
	tm.RecordOp(ctx, "add", false, 0, time.Microsecond)
	tm.RecordOp(ctx, "remove", true, -1, 2*time.Microsecond)

	rm := collectMetrics(t, reader)

	ops, ok := findMetric(rm, "ordtree.ops.total")
	require.True(t, ok)
	assert.Equal(t, int64(3), sumByAttr(t, ops, "result", observability.ResultApplied))
	assert.Equal(t, int64(1), sumByAttr(t, ops, "result", observability.ResultNoop))
	assert.Equal(t, int64(3), sumByAttr(t, ops, "op", "add"))

	size, ok := findMetric(rm, "ordtree.tree.size")
	require.True(t, ok)

	sizeSum, ok := size.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sizeSum.DataPoints, 1)
	assert.Equal(t, int64(1), sizeSum.DataPoints[0].Value)

	duration, ok := findMetric(rm, "ordtree.op.duration.seconds")
	require.True(t, ok)

	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}

	assert.Equal(t, uint64(4), count)
}

func TestRecordRebalance(t *testing.T) {
	t.Parallel()

	tm, reader := setupTreeMetrics(t)
	ctx := context.Background()

	tm.RecordRebalance(ctx, 5, 3, 0)
	tm.RecordRebalance(ctx, 2, 0, 4)
	tm.RecordRebalance(ctx, 0, 0, 0)

	rm := collectMetrics(t, reader)

	rotations, ok := findMetric(rm, "ordtree.rotations.total")
	require.True(t, ok)

	rotSum, ok := rotations.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rotSum.DataPoints, 1)
	assert.Equal(t, int64(7), rotSum.DataPoints[0].Value)

	fixups, ok := findMetric(rm, "ordtree.fixups.total")
	require.True(t, ok)
	assert.Equal(t, int64(3), sumByAttr(t, fixups, "phase", "insert"))
	assert.Equal(t, int64(4), sumByAttr(t, fixups, "phase", "delete"))
}
