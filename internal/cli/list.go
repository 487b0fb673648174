package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/series"
	"github.com/roach88/wavescan/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	ID       string
}

// NetInfo describes one net of a stored trace.
type NetInfo struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Transitions int    `json:"transitions"`
	AliasOf     string `json:"alias_of,omitempty"`
}

// TraceDetail is a stored trace with its nets and scopes.
type TraceDetail struct {
	store.TraceInfo
	Scopes  []string  `json:"scopes"`
	NetList []NetInfo `json:"net_list"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored traces, or the nets of one trace",
		Long: `List the traces stored in a database, ordered by name. With --id, list
the scopes and nets of one trace instead; nets that share another net's
transitions are shown as aliases.

Examples:
  wavescan list --db waves.db
  wavescan list --db waves.db --id sim --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "trace ID or name to describe")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.ID != "" {
		return runListNets(opts, cmd, formatter)
	}

	st, err := openExistingStore(opts.Database, logger)
	if err != nil {
		return failLoad(formatter, err)
	}
	defer st.Close()

	infos, err := st.ListTraces(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No traces stored.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%s  %s  (%d nets, %d series, end %d)\n",
			info.ID, info.Name, info.Nets, info.Series, info.MaxTimestamp)
	}
	return nil
}

func runListNets(opts *ListOptions, cmd *cobra.Command, formatter *OutputFormatter) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	st, err := openExistingStore(opts.Database, logger)
	if err != nil {
		return failLoad(formatter, err)
	}
	defer st.Close()

	info, err := st.FindTrace(cmd.Context(), opts.ID)
	if errors.Is(err, store.ErrTraceNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeTraceNotFound, fmt.Sprintf("no trace with id or name %q", opts.ID), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	tr, err := st.ReadTrace(cmd.Context(), info.ID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	detail := TraceDetail{TraceInfo: info, Scopes: tr.Scopes(), NetList: []NetInfo{}}
	owner := make(map[*series.Series]string)
	for _, n := range tr.Nets() {
		ni := NetInfo{Name: n.Name, Width: n.Width, Transitions: n.Series.Len()}
		if first, ok := owner[n.Series]; ok {
			ni.AliasOf = first
		} else {
			owner[n.Series] = n.Name
		}
		detail.NetList = append(detail.NetList, ni)
	}

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: detail, TraceID: info.ID})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Trace: %s (%s)\n", info.Name, info.ID)
	fmt.Fprintf(w, "Last transition: %d\n", info.MaxTimestamp)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Scopes ===")
	if len(detail.Scopes) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, s := range detail.Scopes {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Nets ===")
	for _, n := range detail.NetList {
		if n.AliasOf != "" {
			fmt.Fprintf(w, "  %s [%d] -> %s\n", n.Name, n.Width, n.AliasOf)
			continue
		}
		fmt.Fprintf(w, "  %s [%d] %d transition(s)\n", n.Name, n.Width, n.Transitions)
	}
	return nil
}
