package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Text(t *testing.T) {
	out, _, err := execute(t, "run", clockSearches, "--trace", clockTrace)
	require.NoError(t, err)

	want := "Trace: " + clockTrace + "\n\n" +
		"✓ rise (all)\n    10\n    20\n" +
		"✓ last-high (previous)\n    14\n" +
		"✓ after-first (next)\n    20\n" +
		"✓ first-low (next)\n    0\n"
	assert.Equal(t, want, out)
}

func TestRun_ForwardSearchMatchingAtZero(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "run", clockSearches, "--trace", clockTrace, "--only", "first-low")
	require.NoError(t, err)

	var resp struct {
		Data RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Results, 1)
	r := resp.Data.Results[0]
	assert.True(t, r.Found)
	require.NotNil(t, r.Time)
	assert.Equal(t, int64(0), *r.Time)
}

func TestRun_Only(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "run", clockSearches, "--trace", clockTrace, "--only", "last-high")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Results, 1)
	r := resp.Data.Results[0]
	assert.Equal(t, "last-high", r.Name)
	assert.Equal(t, int64(21), r.From)
	require.NotNil(t, r.Time)
	assert.Equal(t, int64(14), *r.Time)
}

func TestRun_OnlyUnknown(t *testing.T) {
	out, _, err := execute(t, "run", clockSearches, "--trace", clockTrace, "--only", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `saved search "nope" not found`)
}

func TestRun_StoredTrace(t *testing.T) {
	db := importFixture(t, clockTrace, "clock")

	out, _, err := execute(t, "--format", "json", "run", clockSearches, "--db", db, "--id", "clock")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.TraceID)
	assert.Contains(t, out, `"trace":"clock"`)
}

func TestRun_ReportsUnresolvedSearches(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.cue", `
search: rise: expr: "clk = 1"
search: ghost: expr: "nosuch = 1"
`)

	out, _, err := execute(t, "run", path, "--trace", clockTrace)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ rise (all)")
	assert.Contains(t, out, "✗ ghost\n    UNKNOWN_NET")
}

func TestRun_NoMatchIsNotAFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.cue", `
search: late: {
	expr:      "clk = 1"
	direction: "next"
	from:      20
}
`)

	out, _, err := execute(t, "run", path, "--trace", clockTrace)
	require.NoError(t, err)
	assert.Contains(t, out, "- late (next)\n    no match after 20\n")
}
