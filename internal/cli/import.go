package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Name     string
	Replace  bool

	// IDGenerator overrides trace ID generation (for testing).
	// If nil, the store defaults to UUIDv7.
	IDGenerator store.IDGenerator
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return newImportCommand(&ImportOptions{RootOptions: rootOpts})
}

func newImportCommand(opts *ImportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <trace.yaml>",
		Short: "Store a YAML trace fixture in a database",
		Long: `Store a YAML trace fixture in a SQLite database, creating the database if
it does not exist. The trace is named after the file unless --name is given.

Examples:
  wavescan import sim.yaml --db waves.db
  wavescan import sim.yaml --db waves.db --name sim --replace`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "trace name (default: file name without extension)")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace a stored trace with the same name")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx := cmd.Context()

	tr, err := loadTrace(ctx, TraceOptions{Fixture: path}, logger)
	if err != nil {
		return failLoad(formatter, err)
	}

	name := opts.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	if opts.Replace {
		if err := replaceTrace(cmd, st, name); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
	}

	info, err := st.WriteTrace(ctx, name, tr.Trace)
	if errors.Is(err, store.ErrDuplicateName) {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed,
			fmt.Sprintf("trace %q already exists (use --replace)", name), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: info, TraceID: info.ID})
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %s as %s\n", name, info.ID)
	fmt.Fprintf(formatter.Writer, "  %d net(s), %d series, last transition at %d\n", info.Nets, info.Series, info.MaxTimestamp)
	return nil
}

// replaceTrace deletes the stored trace called name, if there is one.
func replaceTrace(cmd *cobra.Command, st *store.Store, name string) error {
	existing, err := st.FindTrace(cmd.Context(), name)
	if errors.Is(err, store.ErrTraceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Name != name {
		// name matched another trace's ID; leave it alone.
		return nil
	}
	return st.DeleteTrace(cmd.Context(), existing.ID)
}
