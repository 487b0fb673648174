package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/wavescan/internal/compiler"
	"github.com/roach88/wavescan/internal/query"
	"github.com/roach88/wavescan/internal/store"
	"github.com/roach88/wavescan/internal/testutil"
	"github.com/roach88/wavescan/internal/trace"
)

// Harness runs the steps of one scenario against its trace.
type Harness struct {
	src      *trace.Trace
	searches []compiler.SavedSearch
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build the trace from the fixture file or inline nets
// 2. Write it to a fresh in-memory store and read it back
// 3. Load saved searches, if any
// 4. Run each step and compare it with its expectation
//
// Errors are returned only when the scenario cannot be run at all; failed
// expectations are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	ctx := context.Background()

	built, err := buildTrace(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace: %w", err)
	}

	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.Name)),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	info, err := st.WriteTrace(ctx, scenario.Name, built)
	if err != nil {
		return nil, fmt.Errorf("failed to store trace: %w", err)
	}
	src, err := st.ReadTrace(ctx, info.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace back: %w", err)
	}

	h := &Harness{src: src, logger: logger}
	if scenario.Searches != "" {
		h.searches, err = compiler.LoadFile(scenario.Searches)
		if err != nil {
			return nil, fmt.Errorf("failed to load searches: %w", err)
		}
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		ev, err := h.runStep(i, step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		result.Events = append(result.Events, ev)
		if err := checkStep(ev, step.Expect); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

func buildTrace(scenario *Scenario) (*trace.Trace, error) {
	if scenario.Trace != "" {
		return trace.LoadFile(scenario.Trace)
	}
	return trace.BuildNets(scenario.Nets)
}

// runStep executes a single step. Parse errors are recorded in the event,
// since scenarios may expect them.
func (h *Harness) runStep(index int, st Step) (Event, error) {
	ev := Event{Step: index, Op: st.Op, Expr: st.Expr, Net: st.Net}
	maxTS := h.src.MaxTimestamp()
	// A forward saved search without from reports a match open at its start.
	first := false

	if st.Saved != "" {
		saved, ok := compiler.Find(h.searches, st.Saved)
		if !ok {
			return ev, fmt.Errorf("saved search %q not found", st.Saved)
		}
		ev.Saved = saved.Name
		ev.Op = string(saved.Direction)
		ev.Expr = saved.Expr
		ev.At = saved.Start(maxTS)
		first = saved.Direction == compiler.DirectionNext && !saved.HasFrom
	}
	if st.At != nil {
		ev.At = *st.At
		first = false
	}

	if ev.Op == OpValue {
		v, err := query.ParseValue(ev.Net, h.src)
		if err != nil {
			return withError(ev, err)
		}
		ev.Tree = v.String()
		val, _ := v.Eval(ev.At)
		radix := st.Radix
		if radix == 0 {
			radix = 2
		}
		ev.Value = val.Format(radix)
		h.logger.Debug("value step", "step", index, "net", ev.Tree, "at", ev.At, "value", ev.Value)
		return ev, nil
	}

	s, err := query.Parse(ev.Expr, h.src)
	if err != nil {
		return withError(ev, err)
	}
	ev.Tree = s.String()

	switch ev.Op {
	case OpNext:
		var t int64
		if first {
			t = s.First(ev.At)
		} else {
			t = s.Next(ev.At)
		}
		ev.Time = &t
	case OpPrevious:
		t := s.Previous(ev.At)
		ev.Time = &t
	case OpMatches:
		m := s.Matches(ev.At)
		ev.Match = &m
	case OpAll:
		to := maxTS + 1
		if st.To != nil {
			to = *st.To
		}
		ev.To = &to
		ev.Times = slices.Collect(s.All(ev.At, to))
	default:
		return ev, fmt.Errorf("unknown op %q", ev.Op)
	}
	h.logger.Debug("search step", "step", index, "op", ev.Op, "tree", ev.Tree, "at", ev.At)
	return ev, nil
}

func withError(ev Event, err error) (Event, error) {
	var pe *query.ParseError
	if errors.As(err, &pe) {
		ev.Error = string(pe.Code)
		return ev, nil
	}
	return ev, err
}
