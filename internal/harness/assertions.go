package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when a step's outcome differs from its
// expectation.
type AssertionError struct {
	Step     int
	Op       string
	Query    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "step %d (%s %q) failed\n", e.Step, e.Op, e.Query)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkStep compares an event against the step's expectation.
func checkStep(ev Event, exp Expect) error {
	fail := func(expected, actual string) error {
		q := ev.Expr
		if ev.Op == OpValue {
			q = ev.Net
		}
		return &AssertionError{Step: ev.Step, Op: ev.Op, Query: q, Expected: expected, Actual: actual}
	}

	if exp.Error != "" || ev.Error != "" {
		if exp.Error != ev.Error {
			return fail(describeError(exp.Error), describeError(ev.Error))
		}
		return nil
	}

	switch ev.Op {
	case OpNext, OpPrevious:
		if exp.Time != nil && (ev.Time == nil || *ev.Time != *exp.Time) {
			return fail(fmt.Sprintf("time %d", *exp.Time), describeTime(ev.Time))
		}
	case OpAll:
		if !slices.Equal(exp.Times, ev.Times) {
			return fail(fmt.Sprintf("times %v", orEmpty(exp.Times)), fmt.Sprintf("times %v", orEmpty(ev.Times)))
		}
	case OpMatches:
		if exp.Match != nil && (ev.Match == nil || *ev.Match != *exp.Match) {
			return fail(fmt.Sprintf("match %t", *exp.Match), describeMatch(ev.Match))
		}
	case OpValue:
		if exp.Value != "" && !strings.EqualFold(exp.Value, ev.Value) {
			return fail(fmt.Sprintf("value %s", exp.Value), fmt.Sprintf("value %s", ev.Value))
		}
	}
	return nil
}

func describeError(code string) string {
	if code == "" {
		return "no error"
	}
	return "error " + code
}

func describeTime(t *int64) string {
	if t == nil {
		return "no time"
	}
	return fmt.Sprintf("time %d", *t)
}

func describeMatch(m *bool) string {
	if m == nil {
		return "no match result"
	}
	return fmt.Sprintf("match %t", *m)
}

func orEmpty(ts []int64) []int64 {
	if ts == nil {
		return []int64{}
	}
	return ts
}
