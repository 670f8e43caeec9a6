package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordtree/pkg/config"
	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
)

type sortOptions struct {
	numeric bool
	strict  bool
	reverse bool
}

// NewSortCommand creates the sort subcommand.
func NewSortCommand(opts *GlobalOptions) *cobra.Command {
	var sortOpts sortOptions

	cmd := &cobra.Command{
		Use:   "sort [file...]",
		Short: "Sort input lines, dropping duplicates",
		Long: `Sort reads newline-separated items from the given files, or stdin, and
prints them in ascending order. Each distinct item is printed once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, opts, sortOpts, args)
		},
	}

	cmd.Flags().BoolVarP(&sortOpts.numeric, "numeric", "n", false, "compare items as numbers")
	cmd.Flags().BoolVarP(&sortOpts.strict, "unique", "u", false, "fail when an item occurs more than once")
	cmd.Flags().BoolVarP(&sortOpts.reverse, "reverse", "r", false, "print in descending order")

	return cmd
}

func runSort(cmd *cobra.Command, opts *GlobalOptions, sortOpts sortOptions, args []string) error {
	env, err := loadRuntime(cmd, opts, observability.ModeCLI)
	if err != nil {
		return err
	}

	lines, err := readLines(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tree, err := buildTree(lines, sortOpts.numeric, sortOpts.strict)
	if err != nil {
		return err
	}

	env.logger.DebugContext(cmd.Context(), "input sorted",
		"lines", len(lines), "distinct", tree.Len(), "rotations", tree.Stats().Rotations)

	items := tree.All()
	if sortOpts.reverse {
		items = tree.Backward()
	}

	out := cmd.OutOrStdout()

	if env.cfg.Output.Format != config.FormatTable {
		texts := make([]string, 0, tree.Len())
		for item := range items {
			texts = append(texts, item.text)
		}

		return writeStructured(out, env.cfg.Output.Format, texts)
	}

	for item := range items {
		_, err = fmt.Fprintln(out, item.text)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return nil
}
