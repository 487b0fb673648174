package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/compiler"
	"github.com/roach88/wavescan/internal/query"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Trace    TraceOptions
	From     int64
	To       int64
	Backward bool
	All      bool
}

// SearchResult is the outcome of running one query.
type SearchResult struct {
	Name      string             `json:"name,omitempty"`
	Expr      string             `json:"expr"`
	Tree      string             `json:"tree"`
	Direction compiler.Direction `json:"direction"`
	From      int64              `json:"from"`
	To        *int64             `json:"to,omitempty"`
	Time      *int64             `json:"time,omitempty"`
	Times     []int64            `json:"times,omitempty"`
	Found     bool               `json:"found"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <expr>",
		Short: "Find the next or previous time a query holds",
		Long: `Search a trace for the times a boolean query holds.

Without --from, a forward search reports the first match in the trace and a
backward search the end of the last completed match. --all lists the start
of every match region starting in [--from, --to).

Exit codes:
  0 - Match found
  1 - No match
  2 - Command error (bad query, trace not found, etc.)

Examples:
  wavescan search "clk = 1 and valid" --trace sim.yaml
  wavescan search "addr[7:0] = 'h3f" --db waves.db --id sim --from 100
  wavescan search "irq" --db waves.db --id sim --from 500 --backward
  wavescan search "state = 'd3" --trace sim.yaml --all --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	addTraceFlags(cmd, &opts.Trace)
	cmd.Flags().Int64Var(&opts.From, "from", 0, "time to search from")
	cmd.Flags().Int64Var(&opts.To, "to", 0, "end of the --all window, exclusive (default: one past the last transition)")
	cmd.Flags().BoolVar(&opts.Backward, "backward", false, "search toward earlier times")
	cmd.Flags().BoolVar(&opts.All, "all", false, "list every match region start")
	cmd.MarkFlagsMutuallyExclusive("backward", "all")

	return cmd
}

func runSearch(opts *SearchOptions, expr string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	tr, err := loadTrace(cmd.Context(), opts.Trace, logger)
	if err != nil {
		return failLoad(formatter, err)
	}

	s, err := query.Parse(expr, tr)
	if err != nil {
		return failQuery(formatter, expr, err)
	}

	dir := compiler.DirectionNext
	switch {
	case opts.All:
		dir = compiler.DirectionAll
	case opts.Backward:
		dir = compiler.DirectionPrevious
	}

	flags := cmd.Flags()
	var from, to *int64
	if flags.Changed("from") {
		from = &opts.From
	}
	if flags.Changed("to") {
		to = &opts.To
	}
	result := execute(s, dir, from, to, tr.MaxTimestamp())
	formatter.VerboseLog("Searched %s from %d over %d net(s)", result.Tree, result.From, len(s.Nets()))

	if err := outputSearchResult(formatter, tr.ID, result); err != nil {
		return err
	}
	if !result.Found {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: no match", ErrCodeNoMatch))
	}
	return nil
}

// execute runs a parsed query in one direction. A nil from picks the
// direction's default start; a nil to bounds --all at one past the last
// transition.
func execute(s *query.Search, dir compiler.Direction, from, to *int64, maxTS int64) SearchResult {
	result := SearchResult{Expr: s.Text(), Tree: s.String(), Direction: dir}

	switch dir {
	case compiler.DirectionAll:
		end := maxTS + 1
		if to != nil {
			end = *to
		}
		result.To = &end
		if from != nil {
			result.From = *from
		}
		result.Times = slices.Collect(s.All(result.From, end))
		result.Found = len(result.Times) > 0
	case compiler.DirectionPrevious:
		result.From = maxTS + 1
		if from != nil {
			result.From = *from
		}
		t := s.Previous(result.From)
		result.Time = &t
		result.Found = t != query.NotFound
	default:
		var t int64
		if from != nil {
			result.From = *from
			t = s.Next(result.From)
		} else {
			t = s.First(0)
		}
		result.Time = &t
		result.Found = t != query.NotFound
	}
	return result
}

func outputSearchResult(f *OutputFormatter, traceID string, r SearchResult) error {
	if f.JSON() {
		return f.Respond(CLIResponse{Status: "ok", Data: r, TraceID: traceID})
	}
	fmt.Fprintln(f.Writer, formatSearchResult(r))
	return nil
}

func formatSearchResult(r SearchResult) string {
	switch {
	case r.Direction == compiler.DirectionAll && !r.Found:
		return fmt.Sprintf("no match in [%d, %d)", r.From, *r.To)
	case r.Direction == compiler.DirectionAll:
		parts := make([]string, len(r.Times))
		for i, t := range r.Times {
			parts[i] = fmt.Sprint(t)
		}
		return strings.Join(parts, "\n")
	case !r.Found && r.Direction == compiler.DirectionPrevious:
		return fmt.Sprintf("no match before %d", r.From)
	case !r.Found:
		return fmt.Sprintf("no match after %d", r.From)
	default:
		return fmt.Sprint(*r.Time)
	}
}

// failQuery reports a query parse error. In text mode the offending span is
// marked under the query.
func failQuery(f *OutputFormatter, expr string, err error) error {
	var pe *query.ParseError
	if !errors.As(err, &pe) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	details := map[string]int{"start": pe.Start, "end": pe.End}
	_ = f.Error(string(pe.Code), pe.Message, details)
	if !f.JSON() {
		fmt.Fprintln(f.Writer, indent(pe.Caret(expr), "  "))
	}
	return NewExitError(ExitCommandError, pe.Error())
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
