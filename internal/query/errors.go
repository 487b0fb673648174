package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes parse errors.
type ErrorCode string

const (
	// ErrCodeUnexpectedToken indicates structurally invalid syntax.
	ErrCodeUnexpectedToken ErrorCode = "UNEXPECTED_TOKEN"

	// ErrCodeUnknownNet indicates a name that matches no net.
	ErrCodeUnknownNet ErrorCode = "UNKNOWN_NET"

	// ErrCodeAmbiguousNet indicates a name that matches nets backed by
	// different series.
	ErrCodeAmbiguousNet ErrorCode = "AMBIGUOUS_NET"

	// ErrCodeInvalidSlice indicates an inverted or out-of-range bit slice.
	ErrCodeInvalidSlice ErrorCode = "INVALID_SLICE"

	// ErrCodeInvalidLiteral indicates a literal malformed for its radix.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"
)

// ParseError reports a problem in a query together with the byte span
// [Start, End) of the offending text, for caret diagnostics.
type ParseError struct {
	Code    ErrorCode
	Message string
	Start   int
	End     int

	// Err is the underlying cause, if any (for example logic.ErrFormat or
	// trace.ErrUnknownNet).
	Err error
}

func newParseError(code ErrorCode, message string, start, end int, cause error) *ParseError {
	return &ParseError{Code: code, Message: message, Start: start, End: end, Err: cause}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Code, e.Start, e.End, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Caret renders src with a marker line underneath the error span:
//
//	top.clk = 'q1
//	          ^^^
func (e *ParseError) Caret(src string) string {
	start := min(max(e.Start, 0), len(src))
	width := max(e.End-start, 1)
	return src + "\n" + strings.Repeat(" ", start) + strings.Repeat("^", width)
}

func hasCode(err error, code ErrorCode) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsUnknownNet reports whether err is an unknown-net parse error.
func IsUnknownNet(err error) bool {
	return hasCode(err, ErrCodeUnknownNet)
}

// IsAmbiguousNet reports whether err is an ambiguous-net parse error.
func IsAmbiguousNet(err error) bool {
	return hasCode(err, ErrCodeAmbiguousNet)
}

// IsInvalidSlice reports whether err is a bit-slice range error.
func IsInvalidSlice(err error) bool {
	return hasCode(err, ErrCodeInvalidSlice)
}

// IsInvalidLiteral reports whether err is a malformed-literal error.
func IsInvalidLiteral(err error) bool {
	return hasCode(err, ErrCodeInvalidLiteral)
}

// IsSyntaxError reports whether err is an unexpected-token error.
func IsSyntaxError(err error) bool {
	return hasCode(err, ErrCodeUnexpectedToken)
}
