package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/wavescan/internal/store"
	"github.com/roach88/wavescan/internal/trace"
)

// TraceOptions selects the trace a command runs against: a YAML fixture
// (--trace) or a stored trace (--db with --id).
type TraceOptions struct {
	Fixture  string
	Database string
	ID       string // trace ID or name
}

func addTraceFlags(cmd *cobra.Command, t *TraceOptions) {
	cmd.Flags().StringVar(&t.Fixture, "trace", "", "path to a YAML trace fixture")
	cmd.Flags().StringVar(&t.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&t.ID, "id", "", "stored trace ID or name (with --db)")
}

// set reports whether any trace source was given.
func (t TraceOptions) set() bool {
	return t.Fixture != "" || t.Database != ""
}

// LoadedTrace is a trace plus where it came from.
type LoadedTrace struct {
	*trace.Trace
	ID   string // store ID, empty for fixtures
	Name string
}

// loadTrace opens the selected trace. Failures are returned as LoadErrors
// carrying a CLI error code.
func loadTrace(ctx context.Context, t TraceOptions, logger *slog.Logger) (*LoadedTrace, error) {
	switch {
	case t.Fixture != "" && t.Database != "":
		return nil, &LoadError{Code: ErrCodeTraceSource, Message: "--trace and --db are mutually exclusive"}
	case t.Fixture != "":
		if t.ID != "" {
			return nil, &LoadError{Code: ErrCodeTraceSource, Message: "--id requires --db"}
		}
		tr, err := trace.LoadFile(t.Fixture)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("trace file not found: %s", t.Fixture)}
			}
			return nil, &LoadError{Code: ErrCodeTraceSource, Message: err.Error()}
		}
		return &LoadedTrace{Trace: tr, Name: t.Fixture}, nil
	case t.Database != "":
		if t.ID == "" {
			return nil, &LoadError{Code: ErrCodeTraceSource, Message: "--db requires --id"}
		}
		st, err := openExistingStore(t.Database, logger)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		info, err := st.FindTrace(ctx, t.ID)
		if errors.Is(err, store.ErrTraceNotFound) {
			return nil, &LoadError{Code: ErrCodeTraceNotFound, Message: fmt.Sprintf("no trace with id or name %q", t.ID)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
		}
		tr, err := st.ReadTrace(ctx, info.ID)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
		}
		logger.Debug("trace loaded", "id", info.ID, "name", info.Name, "nets", info.Nets)
		return &LoadedTrace{Trace: tr, ID: info.ID, Name: info.Name}, nil
	default:
		return nil, &LoadError{Code: ErrCodeTraceSource, Message: "one of --trace or --db is required"}
	}
}

// openExistingStore opens a database that must already exist; reads never
// create one.
func openExistingStore(path string, logger *slog.Logger) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", path)}
	}
	st, err := store.Open(path, store.WithLogger(logger))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("failed to open database: %v", err)}
	}
	return st, nil
}

// failLoad reports a loadTrace or LoadSearches error as a command error.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
