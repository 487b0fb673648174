package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// clockTrace is the shared clock fixture: rises at 10, falls at 15, rises at 20.
var clockTrace = filepath.Join("..", "..", "testdata", "traces", "clock.yaml")

const busFixture = `nets:
  - name: top.bus
    width: 8
    radix: 16
    transitions:
      - {at: 0, value: "zz"}
      - {at: 12, value: "a5"}
      - {at: 20, value: "3c"}
  - name: top.valid
    width: 1
    transitions:
      - {at: 0, value: "0"}
      - {at: 12, value: "1"}
      - {at: 14, value: "0"}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// importFixture stores a fixture in a fresh database and returns its path.
func importFixture(t *testing.T, fixture, name string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "waves.db")
	_, _, err := execute(t, "import", fixture, "--db", db, "--name", name)
	require.NoError(t, err)
	return db
}
