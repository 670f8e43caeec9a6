package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordtree/internal/bench"
	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
)

const (
	flagOperations  = "operations"
	flagKeySpace    = "key-space"
	flagSeed        = "seed"
	flagVerifyEvery = "verify-every"
	flagRemoveRatio = "remove-ratio"
	flagMetricsOut  = "metrics-out"
)

type benchOptions struct {
	operations  int
	keySpace    int
	seed        int64
	verifyEvery int
	removeRatio float64
	metricsOut  string
}

// NewBenchCommand creates the bench subcommand.
func NewBenchCommand(opts *GlobalOptions) *cobra.Command {
	var benchOpts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a verified randomized workload",
		Long: `Bench applies a seeded mix of random inserts and removals to a tree and
checks it against a sorted slice. The tree invariants, contents and ranks are
verified every --verify-every operations and once more at the end. The command
fails when any verification fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, opts, benchOpts)
		},
	}

	cmd.Flags().IntVar(&benchOpts.operations, flagOperations, 0, "number of operations (default from config)")
	cmd.Flags().IntVar(&benchOpts.keySpace, flagKeySpace, 0, "keys are drawn from [0, key-space)")
	cmd.Flags().Int64Var(&benchOpts.seed, flagSeed, 0, "random seed")
	cmd.Flags().IntVar(&benchOpts.verifyEvery, flagVerifyEvery, 0, "verify every N operations, 0 checks only at the end")
	cmd.Flags().Float64Var(&benchOpts.removeRatio, flagRemoveRatio, 0, "probability of a removal")
	cmd.Flags().StringVar(&benchOpts.metricsOut, flagMetricsOut, "", "write Prometheus metrics to this file")

	return cmd
}

func runBench(cmd *cobra.Command, opts *GlobalOptions, benchOpts benchOptions) (err error) {
	env, err := loadRuntime(cmd, opts, observability.ModeBench)
	if err != nil {
		return err
	}

	cfg := benchConfig(cmd, env, benchOpts)

	providers, err := observability.Init(env.obs)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(cmd.Context())))
	}()

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	report, runErr := bench.Run(cmd.Context(), cfg, bench.Deps{
		Tracer:  providers.Tracer,
		Metrics: metrics,
		Logger:  providers.Logger,
	})
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	renderErr := renderBenchReport(cmd.OutOrStdout(), env.cfg.Output.Format, env.cfg.Output.Color, report)
	if renderErr != nil {
		return renderErr
	}

	if benchOpts.metricsOut != "" {
		writeErr := observability.WriteTextfile(benchOpts.metricsOut, providers.Registry)
		if writeErr != nil {
			return writeErr
		}
	}

	if runErr != nil {
		return runErr
	}

	if !report.Passed() {
		return fmt.Errorf("%w: %s", bench.ErrVerification, report.Failure)
	}

	return nil
}

// benchConfig starts from the configured defaults and applies the flags the
// user set explicitly.
func benchConfig(cmd *cobra.Command, env *runtimeEnv, benchOpts benchOptions) bench.Config {
	cfg := bench.Config{
		Operations:  env.cfg.Bench.Operations,
		KeySpace:    env.cfg.Bench.KeySpace,
		Seed:        env.cfg.Bench.Seed,
		VerifyEvery: env.cfg.Bench.VerifyEvery,
		RemoveRatio: env.cfg.Bench.RemoveRatio,
	}

	flags := cmd.Flags()

	if flags.Changed(flagOperations) {
		cfg.Operations = benchOpts.operations
	}

	if flags.Changed(flagKeySpace) {
		cfg.KeySpace = benchOpts.keySpace
	}

	if flags.Changed(flagSeed) {
		cfg.Seed = benchOpts.seed
	}

	if flags.Changed(flagVerifyEvery) {
		cfg.VerifyEvery = benchOpts.verifyEvery
	}

	if flags.Changed(flagRemoveRatio) {
		cfg.RemoveRatio = benchOpts.removeRatio
	}

	return cfg
}
