package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/wavescan/internal/query"
)

// Direction selects how a saved search is run.
type Direction string

const (
	// DirectionAll lists the start of every match region.
	DirectionAll Direction = "all"
	// DirectionNext finds the first match after From.
	DirectionNext Direction = "next"
	// DirectionPrevious finds the last match before From.
	DirectionPrevious Direction = "previous"
)

// SavedSearch is a named query authored in CUE:
//
//	search: "bus-busy": {
//		expr:        "valid and ready = 0"
//		description: "valid held without ready"
//		direction:   "next"
//		from:        100
//	}
type SavedSearch struct {
	Name        string    `json:"name"`
	Expr        string    `json:"expr"`
	Description string    `json:"description,omitempty"`
	Direction   Direction `json:"direction"`
	From        int64     `json:"from"`
	HasFrom     bool      `json:"-"`
}

// CompileSearch parses a CUE value into a SavedSearch.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the search struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`search: busy: { expr: "valid" }`)
//	s, err := CompileSearch(v.LookupPath(cue.ParsePath("search.busy")))
//
// The expression is syntax-checked but not resolved: net names are only
// known once the search is run against a trace.
func CompileSearch(v cue.Value) (*SavedSearch, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &SavedSearch{Direction: DirectionAll}

	// The name may be quoted in CUE, e.g. search: "bus-busy": {...}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		s.Name = strings.Trim(labels[len(labels)-1].String(), `"`)
	}

	exprVal := v.LookupPath(cue.ParsePath("expr"))
	if !exprVal.Exists() {
		return nil, &CompileError{
			Field:   "expr",
			Message: "expr is required",
			Pos:     v.Pos(),
		}
	}
	expr, err := exprVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if err := query.Check(expr); err != nil {
		return nil, &CompileError{
			Field:   "expr",
			Message: err.Error(),
			Pos:     exprVal.Pos(),
		}
	}
	s.Expr = expr

	// Description is optional
	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s.Description = desc
	}

	if dirVal := v.LookupPath(cue.ParsePath("direction")); dirVal.Exists() {
		dir, err := dirVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		switch Direction(dir) {
		case DirectionAll, DirectionNext, DirectionPrevious:
			s.Direction = Direction(dir)
		default:
			return nil, &CompileError{
				Field:   "direction",
				Message: fmt.Sprintf("invalid direction %q, must be \"all\", \"next\", or \"previous\"", dir),
				Pos:     dirVal.Pos(),
			}
		}
	}

	if fromVal := v.LookupPath(cue.ParsePath("from")); fromVal.Exists() {
		from, err := fromVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s.From = from
		s.HasFrom = true
	}

	return s, nil
}

// Start returns the timestamp a run of s begins at for a trace whose last
// transition is at maxTimestamp. Without an explicit from, forward searches
// start at 0 and backward searches one past the end of the trace. A forward
// search without from reports a match already holding at 0 (query.Search.First).
func (s *SavedSearch) Start(maxTimestamp int64) int64 {
	if s.HasFrom {
		return s.From
	}
	if s.Direction == DirectionPrevious {
		return maxTimestamp + 1
	}
	return 0
}
