package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileOne(t *testing.T, src, path string) (*SavedSearch, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return CompileSearch(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileSearchBasic(t *testing.T) {
	s, err := compileOne(t, `
		search: "bus-busy": {
			expr:        "valid and ready = 0"
			description: "valid held without ready"
			direction:   "next"
			from:        100
		}
	`, `search."bus-busy"`)
	require.NoError(t, err)

	assert.Equal(t, &SavedSearch{
		Name:        "bus-busy",
		Expr:        "valid and ready = 0",
		Description: "valid held without ready",
		Direction:   DirectionNext,
		From:        100,
		HasFrom:     true,
	}, s)
}

func TestCompileSearchDefaults(t *testing.T) {
	s, err := compileOne(t, `search: rise: expr: "clk"`, "search.rise")
	require.NoError(t, err)

	assert.Equal(t, "rise", s.Name)
	assert.Equal(t, DirectionAll, s.Direction)
	assert.False(t, s.HasFrom)
	assert.Empty(t, s.Description)
}

func TestCompileSearchMissingExpr(t *testing.T) {
	_, err := compileOne(t, `search: empty: description: "nothing"`, "search.empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expr is required")
}

func TestCompileSearchSyntaxError(t *testing.T) {
	_, err := compileOne(t, `search: bad: expr: "a = = 1"`, "search.bad")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "expr", ce.Field)
	assert.Contains(t, ce.Message, "UNEXPECTED_TOKEN")
}

func TestCompileSearchInvalidDirection(t *testing.T) {
	_, err := compileOne(t, `search: s: { expr: "a", direction: "sideways" }`, "search.s")
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "direction", ce.Field)
}

func TestCompileSearchWrongTypes(t *testing.T) {
	_, err := compileOne(t, `search: s: { expr: 42 }`, "search.s")
	assert.Error(t, err)

	_, err = compileOne(t, `search: s: { expr: "a", from: "soon" }`, "search.s")
	assert.Error(t, err)
}

func TestSavedSearchStart(t *testing.T) {
	tests := []struct {
		name string
		s    SavedSearch
		want int64
	}{
		{"all defaults to zero", SavedSearch{Direction: DirectionAll}, 0},
		{"next defaults to zero", SavedSearch{Direction: DirectionNext}, 0},
		{"previous defaults past the end", SavedSearch{Direction: DirectionPrevious}, 51},
		{"explicit from wins", SavedSearch{Direction: DirectionPrevious, From: 7, HasFrom: true}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.Start(50))
		})
	}
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "expr", Message: "expr is required"}
	assert.Equal(t, "expr: expr is required", err.Error())
}
