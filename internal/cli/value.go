package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/query"
)

// ValueOptions holds flags for the value command.
type ValueOptions struct {
	*RootOptions
	Trace TraceOptions
	At    int64
	Radix int
}

// ValueResult is a net's value at one time.
type ValueResult struct {
	Net   string `json:"net"`
	At    int64  `json:"at"`
	Width int    `json:"width"`
	Radix int    `json:"radix"`
	Value string `json:"value"`

	// Since and Until bound the interval over which the value holds. Nil
	// means the value holds from the start or to the end of time.
	Since *int64 `json:"since,omitempty"`
	Until *int64 `json:"until,omitempty"`
}

// NewValueCommand creates the value command.
func NewValueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "value <net>",
		Short: "Print a net's value at a time",
		Long: `Print the value of a net, bit or slice at a given time.

Net names resolve like query names: a unique suffix such as "clk" is enough.
A digit prints as Z when all of its bits are Z and as X when any bit is
unknown.

Examples:
  wavescan value addr --trace sim.yaml --at 120
  wavescan value "addr[7:0]" --db waves.db --id sim --at 120 --radix 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValue(opts, args[0], cmd)
		},
	}

	addTraceFlags(cmd, &opts.Trace)
	cmd.Flags().Int64Var(&opts.At, "at", 0, "time to sample")
	cmd.Flags().IntVar(&opts.Radix, "radix", 16, "output radix (2|8|10|16)")

	return cmd
}

func runValue(opts *ValueOptions, ref string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	switch opts.Radix {
	case 2, 8, 10, 16:
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("unsupported radix %d", opts.Radix), nil)
	}

	tr, err := loadTrace(cmd.Context(), opts.Trace, logger)
	if err != nil {
		return failLoad(formatter, err)
	}

	node, err := query.ParseValue(ref, tr)
	if err != nil {
		return failQuery(formatter, ref, err)
	}

	v, hint := node.Eval(opts.At)
	result := ValueResult{
		Net:   node.String(),
		At:    opts.At,
		Width: node.Width(),
		Radix: opts.Radix,
		Value: v.Format(opts.Radix),
	}
	if hint.Prev != query.Never {
		since := hint.Prev + 1
		result.Since = &since
	}
	if hint.Next != query.Forever {
		until := hint.Next - 1
		result.Until = &until
	}

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: result, TraceID: tr.ID})
	}
	fmt.Fprintf(formatter.Writer, "%s = %s\n", result.Net, result.Value)
	formatter.VerboseLog("  held over [%s, %s]", bound(result.Since, "-inf"), bound(result.Until, "+inf"))
	return nil
}

func bound(t *int64, open string) string {
	if t == nil {
		return open
	}
	return fmt.Sprint(*t)
}
