package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateValid(t *testing.T) {
	errs := Validate([]SavedSearch{
		{Name: "rise", Expr: "clk", Direction: DirectionAll},
		{Name: "bus-busy.v2", Expr: "valid and ready = 0", Direction: DirectionNext, From: 10, HasFrom: true},
	})
	assert.Empty(t, errs)
}

func TestValidateCollectsAll(t *testing.T) {
	errs := Validate([]SavedSearch{
		{Name: "9lives", Expr: "", Direction: "up", From: -1, HasFrom: true},
	})

	var codes []string
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{ErrSearchNameInvalid, ErrExprEmpty, ErrInvalidDirection, ErrNegativeFrom}, codes)
}

func TestValidateExprSyntax(t *testing.T) {
	errs := Validate([]SavedSearch{{Name: "s", Expr: "a[1:2]", Direction: DirectionAll}})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, ErrExprSyntax, errs[0].Code)
		assert.Contains(t, errs[0].Message, "INVALID_SLICE")
	}
}

func TestValidateDuplicateName(t *testing.T) {
	errs := Validate([]SavedSearch{
		{Name: "s", Expr: "a", Direction: DirectionAll},
		{Name: "s", Expr: "b", Direction: DirectionAll},
	})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, ErrDuplicateName, errs[0].Code)
		assert.Equal(t, `[E106] search "s": name: duplicate search name`, errs[0].Error())
	}
}
