// Package bench drives a tree with a seeded random workload and cross-checks
// every result against a sorted slice.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
	"github.com/Sumatoshi-tech/ordtree/pkg/rbtree"
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid bench config")
	ErrVerification  = errors.New("verification failed")
)

const (
	opAdd    = "add"
	opRemove = "remove"

	// cancelCheckMask sets how often the context is polled: every 1024 operations.
	cancelCheckMask = 1<<10 - 1
)

// Config describes one workload.
type Config struct {
	// Operations is the number of Add/Remove calls to issue.
	Operations int
	// KeySpace bounds keys to [0, KeySpace).
	KeySpace int
	// Seed makes a run reproducible.
	Seed int64
	// VerifyEvery runs a full check every N operations. 1 checks after each
	// operation, 0 only checks once at the end.
	VerifyEvery int
	// RemoveRatio is the probability that an operation is a removal.
	RemoveRatio float64
}

// Validate reports whether the config describes a runnable workload.
func (cfg Config) Validate() error {
	switch {
	case cfg.Operations <= 0:
		return fmt.Errorf("%w: operations %d", ErrInvalidConfig, cfg.Operations)
	case cfg.KeySpace <= 0:
		return fmt.Errorf("%w: key space %d", ErrInvalidConfig, cfg.KeySpace)
	case cfg.VerifyEvery < 0:
		return fmt.Errorf("%w: verify every %d", ErrInvalidConfig, cfg.VerifyEvery)
	case cfg.RemoveRatio < 0 || cfg.RemoveRatio > 1:
		return fmt.Errorf("%w: remove ratio %v", ErrInvalidConfig, cfg.RemoveRatio)
	}

	return nil
}

// Deps are the optional collaborators of a run. Zero values are replaced by
// no-op implementations.
type Deps struct {
	Tracer  trace.Tracer
	Metrics *observability.TreeMetrics
	Logger  *slog.Logger
}

// Report summarizes a finished or aborted run.
type Report struct {
	Seed           int64         `json:"seed"            yaml:"seed"`
	Operations     int           `json:"operations"      yaml:"operations"`
	Adds           int           `json:"adds"            yaml:"adds"`
	AddsApplied    int           `json:"adds_applied"    yaml:"adds_applied"`
	Removes        int           `json:"removes"         yaml:"removes"`
	RemovesApplied int           `json:"removes_applied" yaml:"removes_applied"`
	Len            int           `json:"len"             yaml:"len"`
	ArenaSize      int           `json:"arena_size"      yaml:"arena_size"`
	ArenaUsed      int           `json:"arena_used"      yaml:"arena_used"`
	Rotations      uint64        `json:"rotations"       yaml:"rotations"`
	InsertFixups   uint64        `json:"insert_fixups"   yaml:"insert_fixups"`
	DeleteFixups   uint64        `json:"delete_fixups"   yaml:"delete_fixups"`
	Verifications  int           `json:"verifications"   yaml:"verifications"`
	Elapsed        time.Duration `json:"elapsed_ns"      yaml:"elapsed"`
	Failure        string        `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Passed reports whether every verification succeeded.
func (r Report) Passed() bool {
	return r.Failure == ""
}

// OpsPerSecond is the achieved throughput, zero for an instantaneous run.
func (r Report) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}

	return float64(r.Operations) / r.Elapsed.Seconds()
}

type runner struct {
	cfg    Config
	deps   Deps
	rng    *rand.Rand
	tree   *rbtree.Tree[int]
	oracle []int
	stats  rbtree.Stats
	report Report
}

// Run executes the workload. A verification failure stops the run and is
// reported through Report.Failure; the returned error is reserved for
// invalid configs and cancellation.
func Run(ctx context.Context, cfg Config, deps Deps) (Report, error) {
	err := cfg.Validate()
	if err != nil {
		return Report{}, err
	}

	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer("")
	}

	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	ctx, span := deps.Tracer.Start(ctx, "bench.run", trace.WithAttributes(
		attribute.Int("bench.operations", cfg.Operations),
		attribute.Int("bench.key_space", cfg.KeySpace),
		attribute.Int64("bench.seed", cfg.Seed),
	))
	defer span.End()

	rnr := &runner{
		cfg:  cfg,
		deps: deps,
		rng:  rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // reproducible workload, not security.
		tree: rbtree.New[int](),
	}
	rnr.report.Seed = cfg.Seed

	deps.Logger.InfoContext(ctx, "bench started",
		"operations", cfg.Operations, "key_space", cfg.KeySpace, "seed", cfg.Seed)

	start := time.Now()
	runErr := rnr.loop(ctx)
	rnr.report.Elapsed = time.Since(start)
	rnr.finish()

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())

		return rnr.report, runErr
	}

	if !rnr.report.Passed() {
		span.SetStatus(codes.Error, rnr.report.Failure)
		deps.Logger.ErrorContext(ctx, "bench verification failed", "failure", rnr.report.Failure)
	} else {
		deps.Logger.InfoContext(ctx, "bench finished",
			"len", rnr.report.Len, "elapsed", rnr.report.Elapsed, "verifications", rnr.report.Verifications)
	}

	return rnr.report, nil
}

func (rnr *runner) loop(ctx context.Context) error {
	for idx := range rnr.cfg.Operations {
		if idx&cancelCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("bench aborted after %d operations: %w", idx, err)
			}
		}

		key := rnr.rng.Intn(rnr.cfg.KeySpace)

		var err error
		if rnr.rng.Float64() < rnr.cfg.RemoveRatio {
			err = rnr.remove(ctx, key)
		} else {
			err = rnr.add(ctx, key)
		}

		rnr.report.Operations++

		if err == nil && rnr.cfg.VerifyEvery > 0 && rnr.report.Operations%rnr.cfg.VerifyEvery == 0 {
			err = rnr.verify()
		}

		if err != nil {
			rnr.report.Failure = fmt.Sprintf("operation %d: %v", idx, err)

			return nil
		}
	}

	ctx, span := rnr.deps.Tracer.Start(ctx, "bench.verify")
	defer span.End()

	err := rnr.verify()
	if err != nil {
		rnr.report.Failure = fmt.Sprintf("final check: %v", err)
		span.SetStatus(codes.Error, err.Error())
	}

	rnr.deps.Logger.DebugContext(ctx, "final verification done", "ok", err == nil)

	return nil
}

func (rnr *runner) add(ctx context.Context, key int) error {
	start := time.Now()
	applied := rnr.tree.Add(key)
	elapsed := time.Since(start)

	rnr.report.Adds++

	pos, found := slices.BinarySearch(rnr.oracle, key)
	if applied == found {
		return fmt.Errorf("%w: Add(%d) returned %t with key present=%t", ErrVerification, key, applied, found)
	}

	var delta int64
	if applied {
		rnr.report.AddsApplied++
		rnr.oracle = slices.Insert(rnr.oracle, pos, key)
		delta = 1
	}

	rnr.record(ctx, opAdd, applied, delta, elapsed)

	return nil
}

func (rnr *runner) remove(ctx context.Context, key int) error {
	start := time.Now()
	applied := rnr.tree.Remove(key)
	elapsed := time.Since(start)

	rnr.report.Removes++

	pos, found := slices.BinarySearch(rnr.oracle, key)
	if applied != found {
		return fmt.Errorf("%w: Remove(%d) returned %t with key present=%t", ErrVerification, key, applied, found)
	}

	var delta int64
	if applied {
		rnr.report.RemovesApplied++
		rnr.oracle = slices.Delete(rnr.oracle, pos, pos+1)
		delta = -1
	}

	rnr.record(ctx, opRemove, applied, delta, elapsed)

	return nil
}

func (rnr *runner) record(ctx context.Context, op string, applied bool, delta int64, elapsed time.Duration) {
	if rnr.deps.Metrics == nil {
		return
	}

	rnr.deps.Metrics.RecordOp(ctx, op, applied, delta, elapsed)

	stats := rnr.tree.Stats()
	rnr.deps.Metrics.RecordRebalance(ctx,
		stats.Rotations-rnr.stats.Rotations,
		stats.InsertFixups-rnr.stats.InsertFixups,
		stats.DeleteFixups-rnr.stats.DeleteFixups,
	)
	rnr.stats = stats
}

// verify checks the structural invariants, then compares contents and ranks
// with the oracle.
func (rnr *runner) verify() error {
	rnr.report.Verifications++

	err := rnr.tree.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	if rnr.tree.Len() != len(rnr.oracle) {
		return fmt.Errorf("%w: Len()=%d, expected %d", ErrVerification, rnr.tree.Len(), len(rnr.oracle))
	}

	for idx, item := range rnr.tree.Indexed() {
		if rnr.oracle[idx] != item {
			return fmt.Errorf("%w: item %d is %d, expected %d", ErrVerification, idx, item, rnr.oracle[idx])
		}
	}

	if len(rnr.oracle) == 0 {
		return nil
	}

	probe := rnr.rng.Intn(len(rnr.oracle))

	item, err := rnr.tree.At(probe)
	if err != nil || item != rnr.oracle[probe] {
		return fmt.Errorf("%w: At(%d)=%d (%v), expected %d", ErrVerification, probe, item, err, rnr.oracle[probe])
	}

	if got := rnr.tree.IndexOf(item); got != probe {
		return fmt.Errorf("%w: IndexOf(%d)=%d, expected %d", ErrVerification, item, got, probe)
	}

	if got := rnr.tree.CountBefore(item); got != probe {
		return fmt.Errorf("%w: CountBefore(%d)=%d, expected %d", ErrVerification, item, got, probe)
	}

	return nil
}

func (rnr *runner) finish() {
	stats := rnr.tree.Stats()

	rnr.report.Len = rnr.tree.Len()
	rnr.report.ArenaSize = rnr.tree.Allocator().Size()
	rnr.report.ArenaUsed = rnr.tree.Allocator().Used()
	rnr.report.Rotations = stats.Rotations
	rnr.report.InsertFixups = stats.InsertFixups
	rnr.report.DeleteFixups = stats.DeleteFixups
}
