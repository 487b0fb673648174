package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/wavescan/internal/logic"
	"github.com/roach88/wavescan/internal/series"
	"github.com/roach88/wavescan/internal/testutil"
	"github.com/roach88/wavescan/internal/trace"
)

// createTestStore opens a store in a temporary directory with deterministic
// trace IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewFixedIDGenerator()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTrace builds a small trace with an alias, a multi-bit bus
// holding unknown bits, repeated timestamps and an empty series.
func createTestTrace(t *testing.T) *trace.Trace {
	t.Helper()
	clk := testutil.Series(1,
		testutil.Change{At: 0, Value: 0},
		testutil.Change{At: 10, Value: 1},
		testutil.Change{At: 15, Value: 0},
		testutil.Change{At: 20, Value: 1},
	)

	bus := series.NewBuilder(8)
	bus.Append(0, logic.Filled(8, logic.Z))
	v := logic.FromUint64(8, 0xa5)
	v.SetBit(3, logic.X)
	bus.Append(5, v)
	bus.Append(5, logic.FromUint64(8, 0x3c))
	bus.Append(30, logic.FromUint64(8, 0xff))

	return testutil.Trace(t,
		testutil.Net("top.clk", clk),
		testutil.Net("top.core.clk", clk),
		testutil.Net("top.core.bus", bus.Finish()),
		testutil.Net("top.idle", testutil.Series(4)),
	)
}
