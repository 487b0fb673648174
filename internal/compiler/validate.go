package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/wavescan/internal/query"
)

// Validation error codes (E100-E199)
const (
	ErrSearchNameInvalid = "E101" // name missing or not a plain identifier
	ErrExprEmpty         = "E102" // expr is required
	ErrExprSyntax        = "E103" // expr does not parse
	ErrInvalidDirection  = "E104" // direction is not all, next or previous
	ErrNegativeFrom      = "E105" // from is before time 0
	ErrDuplicateName     = "E106" // two searches share a name
)

// namePattern matches search names usable as CLI arguments.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidationError represents a saved-search validation error.
type ValidationError struct {
	Search  string `json:"search"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] search %q: %s: %s", e.Code, e.Search, e.Field, e.Message)
}

// Validate checks a set of compiled searches.
// Returns all errors found (does not fail-fast).
func Validate(searches []SavedSearch) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for _, s := range searches {
		if seen[s.Name] {
			errs = append(errs, ValidationError{
				Search:  s.Name,
				Field:   "name",
				Message: "duplicate search name",
				Code:    ErrDuplicateName,
			})
		}
		seen[s.Name] = true
		errs = append(errs, validateSearch(s)...)
	}
	return errs
}

func validateSearch(s SavedSearch) []ValidationError {
	var errs []ValidationError
	add := func(field, code, msg string) {
		errs = append(errs, ValidationError{Search: s.Name, Field: field, Message: msg, Code: code})
	}

	if !namePattern.MatchString(s.Name) {
		add("name", ErrSearchNameInvalid, fmt.Sprintf("invalid search name %q", s.Name))
	}

	if strings.TrimSpace(s.Expr) == "" {
		add("expr", ErrExprEmpty, "expr is required and must be non-empty")
	} else if err := query.Check(s.Expr); err != nil {
		add("expr", ErrExprSyntax, err.Error())
	}

	switch s.Direction {
	case DirectionAll, DirectionNext, DirectionPrevious:
	default:
		add("direction", ErrInvalidDirection,
			fmt.Sprintf("invalid direction %q, must be \"all\", \"next\", or \"previous\"", s.Direction))
	}

	if s.HasFrom && s.From < 0 {
		add("from", ErrNegativeFrom, fmt.Sprintf("from %d is negative", s.From))
	}
	return errs
}
