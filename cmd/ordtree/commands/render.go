package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ordtree/internal/bench"
	"github.com/Sumatoshi-tech/ordtree/pkg/config"
)

const yamlIndent = 2

// ErrUnknownFormat is returned for an output format other than table, json or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

func validateFormat(format string) error {
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// writeStructured encodes value as JSON or YAML.
func writeStructured(w io.Writer, format string, value any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func newTable(w io.Writer, header table.Row) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(header)

	return tbl
}

func renderQueries(w io.Writer, format string, result rankResult) error {
	if format != config.FormatTable {
		return writeStructured(w, format, result)
	}

	if len(result.Queries) > 0 {
		tbl := newTable(w, table.Row{"Item", "Index", "Before", "At+Before", "After", "At+After"})

		for _, q := range result.Queries {
			index := "-"
			if q.Index >= 0 {
				index = strconv.Itoa(q.Index)
			}

			tbl.AppendRow(table.Row{q.Item, index, q.Before, q.AtAndBefore, q.After, q.AtAndAfter})
		}

		tbl.Render()
	}

	if len(result.Positions) > 0 {
		tbl := newTable(w, table.Row{"Rank", "Item"})

		for _, p := range result.Positions {
			tbl.AppendRow(table.Row{p.Rank, p.Item})
		}

		tbl.Render()
	}

	return nil
}

func renderBenchReport(w io.Writer, format string, colored bool, report bench.Report) error {
	if format != config.FormatTable {
		return writeStructured(w, format, report)
	}

	tbl := newTable(w, table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"seed", report.Seed},
		{"operations", humanize.Comma(int64(report.Operations))},
		{"adds (applied)", fmt.Sprintf("%s (%s)", humanize.Comma(int64(report.Adds)), humanize.Comma(int64(report.AddsApplied)))},
		{"removes (applied)", fmt.Sprintf("%s (%s)", humanize.Comma(int64(report.Removes)), humanize.Comma(int64(report.RemovesApplied)))},
		{"final size", humanize.Comma(int64(report.Len))},
		{"arena slots (used)", fmt.Sprintf("%s (%s)", humanize.Comma(int64(report.ArenaSize)), humanize.Comma(int64(report.ArenaUsed)))},
		{"rotations", humanize.Comma(clampInt(report.Rotations))},
		{"insert fixups", humanize.Comma(clampInt(report.InsertFixups))},
		{"delete fixups", humanize.Comma(clampInt(report.DeleteFixups))},
		{"verifications", humanize.Comma(int64(report.Verifications))},
		{"elapsed", report.Elapsed.String()},
		{"throughput", humanize.CommafWithDigits(report.OpsPerSecond(), 0) + " ops/s"},
	})
	tbl.Render()

	verdict := color.New(color.FgGreen, color.Bold)
	text := "PASS"

	if !report.Passed() {
		verdict = color.New(color.FgRed, color.Bold)
		text = "FAIL: " + report.Failure
	}

	if !colored {
		verdict.DisableColor()
	}

	_, err := verdict.Fprintln(w, text)
	if err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}

	return nil
}

func clampInt(v uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if v > maxInt64 {
		return maxInt64
	}

	return int64(v)
}
