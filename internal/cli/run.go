package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/compiler"
	"github.com/roach88/wavescan/internal/query"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Trace TraceOptions
	Only  []string
}

// RunResult holds the outcome of every saved search run against one trace.
type RunResult struct {
	Trace   string          `json:"trace"`
	Results []SearchResult  `json:"results"`
	Errors  []SearchFailure `json:"errors,omitempty"`
}

// SearchFailure is a saved search that could not run against the trace.
type SearchFailure struct {
	Search  string `json:"search"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <searches>",
		Short: "Run saved searches against a trace",
		Long: `Run the saved searches in a CUE file or directory against a trace.

Each search runs in its own direction from its own start time. A search that
fails to resolve against the trace is reported and the rest still run.

Examples:
  wavescan run ./searches --db waves.db --id sim
  wavescan run searches.cue --trace sim.yaml --only rise --only "last-high"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearches(opts, args[0], cmd)
		},
	}

	addTraceFlags(cmd, &opts.Trace)
	cmd.Flags().StringArrayVar(&opts.Only, "only", nil, "run only the named search (repeatable)")

	return cmd
}

func runSearches(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	loadResult, loadErrors := LoadSearches(path, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return failLoad(formatter, loadErrors[0])
	}

	searches := loadResult.Searches
	if len(opts.Only) > 0 {
		for _, name := range opts.Only {
			if _, ok := compiler.Find(searches, name); !ok {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("saved search %q not found", name), nil)
			}
		}
		searches = slices.DeleteFunc(slices.Clone(searches), func(s compiler.SavedSearch) bool {
			return !slices.Contains(opts.Only, s.Name)
		})
	}

	tr, err := loadTrace(cmd.Context(), opts.Trace, logger)
	if err != nil {
		return failLoad(formatter, err)
	}

	result := RunResult{Trace: tr.Name, Results: []SearchResult{}}
	for _, saved := range searches {
		s, err := query.Parse(saved.Expr, tr)
		if err != nil {
			result.Errors = append(result.Errors, searchError(saved.Name, err))
			continue
		}
		var from *int64
		if saved.HasFrom {
			from = &saved.From
		}
		r := execute(s, saved.Direction, from, nil, tr.MaxTimestamp())
		r.Name = saved.Name
		logger.Debug("saved search run", "search", saved.Name, "tree", r.Tree, "found", r.Found)
		result.Results = append(result.Results, r)
	}

	if formatter.JSON() {
		status := "ok"
		if len(result.Errors) > 0 {
			status = "error"
		}
		resp := CLIResponse{Status: status, Data: result, TraceID: tr.ID}
		if len(result.Errors) > 0 {
			first := result.Errors[0]
			resp.Error = &CLIError{Code: first.Code, Message: first.Message, Details: first}
		}
		if err := formatter.Respond(resp); err != nil {
			return err
		}
	} else {
		outputRunText(formatter, result)
	}

	if len(result.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d search(es) failed", len(result.Errors)))
	}
	return nil
}

func searchError(name string, err error) SearchFailure {
	var pe *query.ParseError
	if errors.As(err, &pe) {
		return SearchFailure{Search: name, Code: string(pe.Code), Message: pe.Message}
	}
	return SearchFailure{Search: name, Code: ErrCodeGeneric, Message: err.Error()}
}

func outputRunText(f *OutputFormatter, result RunResult) {
	w := f.Writer
	fmt.Fprintf(w, "Trace: %s\n\n", result.Trace)
	for _, r := range result.Results {
		mark := "✓"
		if !r.Found {
			mark = "-"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", mark, r.Name, r.Direction)
		fmt.Fprintln(w, indent(formatSearchResult(r), "    "))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "✗ %s\n", e.Search)
		fmt.Fprintf(w, "    %s: %s\n", e.Code, e.Message)
	}
}
