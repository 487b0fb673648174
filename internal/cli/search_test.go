package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Text(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     string
		wantCode int
	}{
		{"first match", []string{"clk = 1"}, "10\n", ExitSuccess},
		{"next from", []string{"clk = 1", "--from", "4"}, "10\n", ExitSuccess},
		{"next from inside match", []string{"clk = 1", "--from", "12"}, "20\n", ExitSuccess},
		{"no later match", []string{"clk = 1", "--from", "20"}, "no match after 20\n", ExitFailure},
		{"backward from", []string{"clk = 1", "--backward", "--from", "21"}, "14\n", ExitSuccess},
		{"backward default", []string{"clk = 1", "--backward"}, "14\n", ExitSuccess},
		{"no earlier match", []string{"clk = 1", "--backward", "--from", "5"}, "no match before 5\n", ExitFailure},
		{"all", []string{"clk", "--all"}, "10\n20\n", ExitSuccess},
		{"all bounded", []string{"clk", "--all", "--to", "15"}, "10\n", ExitSuccess},
		{"all excludes to", []string{"clk", "--all", "--to", "20"}, "10\n", ExitSuccess},
		{"all none", []string{"clk = 0", "--all", "--from", "20"}, "no match in [20, 21)\n", ExitFailure},
		{"alias", []string{"core.clk = 0", "--from", "12"}, "15\n", ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"search"}, tt.args...)
			args = append(args, "--trace", clockTrace)
			out, _, err := execute(t, args...)
			if tt.wantCode == ExitSuccess {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, GetExitCode(err))
			}
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSearch_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "search", "clk = 1", "--from", "4", "--trace", clockTrace)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "(= top.clk 1)", resp.Data.Tree)
	assert.Equal(t, "next", string(resp.Data.Direction))
	assert.Equal(t, int64(4), resp.Data.From)
	require.NotNil(t, resp.Data.Time)
	assert.Equal(t, int64(10), *resp.Data.Time)
	assert.True(t, resp.Data.Found)
}

func TestSearch_StoredTrace(t *testing.T) {
	db := importFixture(t, clockTrace, "clock")

	out, _, err := execute(t, "search", "clk = 1", "--from", "4", "--db", db, "--id", "clock")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)

	out, _, err = execute(t, "--format", "json", "search", "clk", "--all", "--db", db, "--id", "clock")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.TraceID)
}

func TestSearch_ParseErrorShowsCaret(t *testing.T) {
	out, _, err := execute(t, "search", "nosuch = 1", "--trace", clockTrace)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [UNKNOWN_NET]")
	assert.Contains(t, out, "  nosuch = 1\n  ^^^^^^\n")
}

func TestSearch_ParseErrorJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "search", "clk = 1 and", "--trace", clockTrace)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNEXPECTED_TOKEN", resp.Error.Code)
	assert.NotContains(t, out, "^")
}

func TestSearch_TraceSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no source", []string{}, ErrCodeTraceSource},
		{"both sources", []string{"--trace", clockTrace, "--db", "x.db"}, ErrCodeTraceSource},
		{"db without id", []string{"--db", "x.db"}, ErrCodeTraceSource},
		{"id without db", []string{"--trace", clockTrace, "--id", "x"}, ErrCodeTraceSource},
		{"missing fixture", []string{"--trace", "nope.yaml"}, ErrCodeNotFound},
		{"missing db", []string{"--db", "nope.db", "--id", "x"}, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"search", "clk"}, tt.args...)
			out, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestSearch_UnknownStoredTrace(t *testing.T) {
	db := importFixture(t, clockTrace, "clock")

	out, _, err := execute(t, "search", "clk", "--db", db, "--id", "other")
	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ErrCodeTraceNotFound+"]")
}

func TestSearch_BackwardAndAllConflict(t *testing.T) {
	_, _, err := execute(t, "search", "clk", "--trace", clockTrace, "--backward", "--all")
	require.Error(t, err)
}
