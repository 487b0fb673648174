package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searches.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
search: rise: expr: "clk"
search: "bus-busy": {
	expr:      "valid and ready = 0"
	direction: "previous"
}
`), 0644))

	searches, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "rise", searches[0].Name)
	assert.Equal(t, "bus-busy", searches[1].Name)
	assert.Equal(t, DirectionPrevious, searches[1].Direction)

	s, ok := Find(searches, "bus-busy")
	assert.True(t, ok)
	assert.Equal(t, "valid and ready = 0", s.Expr)

	_, ok = Find(searches, "missing")
	assert.False(t, ok)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`search: bad: expr: "a ="`), 0644))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search bad")
}

func TestCompileAll_NoSearches(t *testing.T) {
	searches, err := CompileAll(cuecontext.New().CompileString(`other: 1`))
	require.NoError(t, err)
	assert.Empty(t, searches)
}
