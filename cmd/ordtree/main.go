// Package main provides the entry point for the ordtree CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordtree/cmd/ordtree/commands"
	"github.com/Sumatoshi-tech/ordtree/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	opts := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ordtree",
		Short: "Order-statistic red-black tree toolkit",
		Long: `ordtree sorts and ranks newline-separated items with an
order-statistic red-black tree, and stress-tests the tree itself.

Commands:
  sort      Sort input lines
  rank      Answer rank and count queries over input lines
  bench     Run a verified randomized workload`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: ordtree.yaml in ., ./config, /etc/ordtree)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "output format: table, json or yaml")

	rootCmd.AddCommand(commands.NewSortCommand(opts))
	rootCmd.AddCommand(commands.NewRankCommand(opts))
	rootCmd.AddCommand(commands.NewBenchCommand(opts))
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "ordtree %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
