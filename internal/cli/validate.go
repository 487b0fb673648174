package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/compiler"
	"github.com/roach88/wavescan/internal/query"
	"github.com/roach88/wavescan/internal/trace"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Trace    TraceOptions
	Searches string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Tree   string                     `json:"tree,omitempty"`
	Count  int                        `json:"searches,omitempty"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [expr]",
		Short: "Check a query or saved searches without running them",
		Long: `Check a query, or a file or directory of saved searches, for errors.

Without a trace only the syntax is checked. With --trace or --db/--id, net
names are resolved as well, so unknown and ambiguous names are reported.
Query errors are shown with a caret under the offending text.

Examples:
  wavescan validate "clk = 1 and (valid or ready"
  wavescan validate "addr[15:0] = 'h10" --trace sim.yaml
  wavescan validate --searches ./searches --db waves.db --id sim`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (opts.Searches != "") {
				return NewExitError(ExitCommandError, "validate takes either an expression or --searches")
			}
			if len(args) == 1 {
				return runValidateExpr(opts, args[0], cmd)
			}
			return runValidateSearches(opts, cmd)
		},
	}

	addTraceFlags(cmd, &opts.Trace)
	cmd.Flags().StringVar(&opts.Searches, "searches", "", "CUE file or directory of saved searches")

	return cmd
}

// validationTrace returns the trace names are resolved against, or nil when
// only syntax is checked.
func validationTrace(opts *ValidateOptions, cmd *cobra.Command) (trace.Source, error) {
	if !opts.Trace.set() {
		return nil, nil
	}
	tr, err := loadTrace(cmd.Context(), opts.Trace, newLogger(opts.RootOptions, cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func runValidateExpr(opts *ValidateOptions, expr string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	src, err := validationTrace(opts, cmd)
	if err != nil {
		return failLoad(formatter, err)
	}

	root, _, err := query.ParseExpr(expr, src)
	if err != nil {
		var pe *query.ParseError
		if !errors.As(err, &pe) {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		verr := compiler.ValidationError{Field: "expr", Message: pe.Message, Code: string(pe.Code)}
		if formatter.JSON() {
			return outputValidationErrors(formatter, []compiler.ValidationError{verr})
		}
		fmt.Fprintln(formatter.Writer, "✗ Invalid query")
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", verr.Code, verr.Message)
		fmt.Fprintln(formatter.Writer, indent(pe.Caret(expr), "    "))
		return NewExitError(ExitFailure, pe.Error())
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Tree: root.String()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Query valid: %s\n", root)
	return nil
}

func runValidateSearches(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := LoadSearches(opts.Searches, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return failLoad(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, opts.Searches)

	src, err := validationTrace(opts, cmd)
	if err != nil {
		return failLoad(formatter, err)
	}

	var errs []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			errs = append(errs, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Error(),
				Code:    loadErr.Code,
			})
		}
	}
	errs = append(errs, compiler.Validate(loadResult.Searches)...)

	if src != nil {
		for _, s := range loadResult.Searches {
			if query.Check(s.Expr) != nil {
				continue // reported by Validate
			}
			formatter.VerboseLog("Resolving search: %s", s.Name)
			if _, err := query.Parse(s.Expr, src); err != nil {
				var pe *query.ParseError
				if errors.As(err, &pe) {
					errs = append(errs, compiler.ValidationError{
						Search:  s.Name,
						Field:   "expr",
						Message: pe.Message,
						Code:    string(pe.Code),
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Count: len(loadResult.Searches)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d search(es) valid\n", len(loadResult.Searches))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Search != "" {
			fmt.Fprintf(formatter.Writer, "search %s\n", err.Search)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
