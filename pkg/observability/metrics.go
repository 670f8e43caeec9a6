package observability

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOpsTotal    = "ordtree.ops.total"
	metricOpDuration  = "ordtree.op.duration.seconds"
	metricTreeSize    = "ordtree.tree.size"
	metricRotations   = "ordtree.rotations.total"
	metricFixupsTotal = "ordtree.fixups.total"

	attrOp     = "op"
	attrResult = "result"
	attrPhase  = "phase"

	// ResultApplied marks an operation that changed the tree.
	ResultApplied = "applied"
	// ResultNoop marks an operation that left the tree unchanged.
	ResultNoop = "noop"
)

// opBucketBoundaries covers 100ns to 10ms, the range of a single tree operation.
var opBucketBoundaries = []float64{1e-7, 2.5e-7, 5e-7, 1e-6, 2.5e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3, 1e-2}

// TreeMetrics holds the OTel instruments describing tree activity.
type TreeMetrics struct {
	opsTotal   metric.Int64Counter
	opDuration metric.Float64Histogram
	treeSize   metric.Int64UpDownCounter
	rotations  metric.Int64Counter
	fixups     metric.Int64Counter
}

// NewTreeMetrics creates the tree instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	opsTotal, err := mt.Int64Counter(metricOpsTotal,
		metric.WithDescription("Tree operations by kind and result"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOpsTotal, err)
	}

	opDuration, err := mt.Float64Histogram(metricOpDuration,
		metric.WithDescription("Duration of a single tree operation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(opBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOpDuration, err)
	}

	treeSize, err := mt.Int64UpDownCounter(metricTreeSize,
		metric.WithDescription("Number of items stored in the tree"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTreeSize, err)
	}

	rotations, err := mt.Int64Counter(metricRotations,
		metric.WithDescription("Rotations performed while rebalancing"),
		metric.WithUnit("{rotation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRotations, err)
	}

	fixups, err := mt.Int64Counter(metricFixupsTotal,
		metric.WithDescription("Rebalancing loop iterations by phase"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFixupsTotal, err)
	}

	return &TreeMetrics{
		opsTotal:   opsTotal,
		opDuration: opDuration,
		treeSize:   treeSize,
		rotations:  rotations,
		fixups:     fixups,
	}, nil
}

// RecordOp records one operation. applied reports whether the tree changed;
// sizeDelta is the resulting change in item count.
func (tm *TreeMetrics) RecordOp(ctx context.Context, op string, applied bool, sizeDelta int64, duration time.Duration) {
	result := ResultNoop
	if applied {
		result = ResultApplied
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrResult, result),
	)

	tm.opsTotal.Add(ctx, 1, attrs)
	tm.opDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrOp, op)))

	if sizeDelta != 0 {
		tm.treeSize.Add(ctx, sizeDelta)
	}
}

// RecordRebalance adds rebalancing work done since the previous call.
func (tm *TreeMetrics) RecordRebalance(ctx context.Context, rotations, insertFixups, deleteFixups uint64) {
	if rotations > 0 {
		tm.rotations.Add(ctx, clampInt64(rotations))
	}

	if insertFixups > 0 {
		tm.fixups.Add(ctx, clampInt64(insertFixups), metric.WithAttributes(attribute.String(attrPhase, "insert")))
	}

	if deleteFixups > 0 {
		tm.fixups.Add(ctx, clampInt64(deleteFixups), metric.WithAttributes(attribute.String(attrPhase, "delete")))
	}
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}
