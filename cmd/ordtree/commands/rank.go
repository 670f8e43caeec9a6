package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
)

// ErrNoRankQuery is returned when neither --query nor --at is given.
var ErrNoRankQuery = errors.New("nothing to answer (use --query or --at)")

type rankOptions struct {
	numeric bool
	queries []string
	ranks   []int
}

type queryResult struct {
	Item        string `json:"item"          yaml:"item"`
	Index       int    `json:"index"         yaml:"index"`
	Before      int    `json:"before"        yaml:"before"`
	AtAndBefore int    `json:"at_and_before" yaml:"at_and_before"`
	After       int    `json:"after"         yaml:"after"`
	AtAndAfter  int    `json:"at_and_after"  yaml:"at_and_after"`
}

type positionResult struct {
	Rank int    `json:"rank" yaml:"rank"`
	Item string `json:"item" yaml:"item"`
}

type rankResult struct {
	Size      int              `json:"size"                yaml:"size"`
	Queries   []queryResult    `json:"queries,omitempty"   yaml:"queries,omitempty"`
	Positions []positionResult `json:"positions,omitempty" yaml:"positions,omitempty"`
}

// NewRankCommand creates the rank subcommand.
func NewRankCommand(opts *GlobalOptions) *cobra.Command {
	var rankOpts rankOptions

	cmd := &cobra.Command{
		Use:   "rank [file...]",
		Short: "Answer rank and count queries over input lines",
		Long: `Rank loads newline-separated items from the given files, or stdin, then
reports for every --query item its zero-based index (-1 when absent) and how
many items sort before and after it, and for every --at rank the item stored
there.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(rankOpts.queries) == 0 && len(rankOpts.ranks) == 0 {
				return ErrNoRankQuery
			}

			return runRank(cmd, opts, rankOpts, args)
		},
	}

	cmd.Flags().BoolVarP(&rankOpts.numeric, "numeric", "n", false, "compare items as numbers")
	cmd.Flags().StringSliceVarP(&rankOpts.queries, "query", "q", nil, "item to rank (repeatable)")
	cmd.Flags().IntSliceVar(&rankOpts.ranks, "at", nil, "zero-based rank to look up (repeatable)")

	return cmd
}

func runRank(cmd *cobra.Command, opts *GlobalOptions, rankOpts rankOptions, args []string) error {
	env, err := loadRuntime(cmd, opts, observability.ModeCLI)
	if err != nil {
		return err
	}

	lines, err := readLines(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tree, err := buildTree(lines, rankOpts.numeric, false)
	if err != nil {
		return err
	}

	result := rankResult{Size: tree.Len()}

	for _, text := range rankOpts.queries {
		probe, parseErr := parseEntry(text, rankOpts.numeric)
		if parseErr != nil {
			return parseErr
		}

		result.Queries = append(result.Queries, queryResult{
			Item:        text,
			Index:       tree.IndexOf(probe),
			Before:      tree.CountBefore(probe),
			AtAndBefore: tree.CountAtAndBefore(probe),
			After:       tree.CountAfter(probe),
			AtAndAfter:  tree.CountAtAndAfter(probe),
		})
	}

	for _, rank := range rankOpts.ranks {
		item, atErr := tree.At(rank)
		if atErr != nil {
			return atErr
		}

		result.Positions = append(result.Positions, positionResult{Rank: rank, Item: item.text})
	}

	env.logger.DebugContext(cmd.Context(), "rank queries answered",
		"size", result.Size, "queries", len(result.Queries), "positions", len(result.Positions))

	return renderQueries(cmd.OutOrStdout(), env.cfg.Output.Format, result)
}
