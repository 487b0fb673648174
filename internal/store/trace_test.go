package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavescan/internal/series"
	"github.com/roach88/wavescan/internal/testutil"
	"github.com/roach88/wavescan/internal/trace"
)

func TestWriteTrace_Summary(t *testing.T) {
	s := createTestStore(t)

	info, err := s.WriteTrace(context.Background(), "counter", createTestTrace(t))
	require.NoError(t, err)

	assert.Equal(t, TraceInfo{
		ID:           "trace-1",
		Name:         "counter",
		MaxTimestamp: 30,
		Nets:         4,
		Series:       3,
	}, info)
}

func TestWriteTrace_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := createTestTrace(t)

	info, err := s.WriteTrace(ctx, "counter", want)
	require.NoError(t, err)

	got, err := s.ReadTrace(ctx, info.ID)
	require.NoError(t, err)

	assert.Equal(t, want.MaxTimestamp(), got.MaxTimestamp())
	assert.Equal(t, want.SeriesCount(), got.SeriesCount())

	wantNets, gotNets := want.Nets(), got.Nets()
	require.Len(t, gotNets, len(wantNets))
	for i := range wantNets {
		assert.Equal(t, wantNets[i].Name, gotNets[i].Name, "net %d", i)
		assert.Equal(t, wantNets[i].Width, gotNets[i].Width, "net %d", i)
		assertSameTransitions(t, wantNets[i].Series, gotNets[i].Series)
	}
}

func TestWriteTrace_PreservesAliases(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	info, err := s.WriteTrace(ctx, "counter", createTestTrace(t))
	require.NoError(t, err)
	got, err := s.ReadTrace(ctx, info.ID)
	require.NoError(t, err)

	a, err := got.Lookup("top.clk")
	require.NoError(t, err)
	b, err := got.Lookup("top.core.clk")
	require.NoError(t, err)
	assert.Same(t, a.Series, b.Series, "aliases must share one series after a round trip")

	// "clk" names both aliases, which only resolves if they share a series.
	n, err := got.Lookup("clk")
	require.NoError(t, err)
	assert.Equal(t, "top.clk", n.Name)
}

func TestWriteTrace_DuplicateName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteTrace(ctx, "counter", createTestTrace(t))
	require.NoError(t, err)

	_, err = s.WriteTrace(ctx, "counter", createTestTrace(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))

	traces, err := s.ListTraces(ctx)
	require.NoError(t, err)
	assert.Len(t, traces, 1, "failed write must not leave a partial trace")
}

func TestWriteTrace_EmptyTrace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	info, err := s.WriteTrace(ctx, "empty", trace.New())
	require.NoError(t, err)
	assert.Zero(t, info.Nets)

	got, err := s.ReadTrace(ctx, info.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Nets())
}

func TestWriteTrace_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := Open(t.TempDir()+"/test.db",
		WithIDGenerator(testutil.NewFixedIDGenerator("abc")),
		WithLogger(logger))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.WriteTrace(context.Background(), "counter", createTestTrace(t))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "trace written")
	assert.Contains(t, buf.String(), "id=abc")
	assert.Contains(t, buf.String(), "transitions=8")
}

func TestReadTrace_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadTrace(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTraceNotFound))
}

func TestListTraces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	traces, err := s.ListTraces(ctx)
	require.NoError(t, err)
	assert.NotNil(t, traces, "empty store lists an empty slice")
	assert.Empty(t, traces)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.WriteTrace(ctx, name, createTestTrace(t))
		require.NoError(t, err)
	}

	traces, err = s.ListTraces(ctx)
	require.NoError(t, err)
	var names []string
	for _, info := range traces {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
	assert.Equal(t, "trace-2", traces[0].ID)
}

func TestFindTrace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteTrace(ctx, "counter", createTestTrace(t))
	require.NoError(t, err)
	// A trace whose name equals another trace's ID.
	_, err = s.WriteTrace(ctx, first.ID, createTestTrace(t))
	require.NoError(t, err)

	got, err := s.FindTrace(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = s.FindTrace(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "counter", got.Name, "ID match wins over name match")

	_, err = s.FindTrace(ctx, "missing")
	assert.True(t, errors.Is(err, ErrTraceNotFound))
}

func TestDeleteTrace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	info, err := s.WriteTrace(ctx, "counter", createTestTrace(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteTrace(ctx, info.ID))

	_, err = s.ReadTrace(ctx, info.ID)
	assert.True(t, errors.Is(err, ErrTraceNotFound))

	for _, table := range []string{"series", "nets", "transitions"} {
		var n int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, "%s rows must cascade", table)
	}

	err = s.DeleteTrace(ctx, info.ID)
	assert.True(t, errors.Is(err, ErrTraceNotFound))
}

func TestUnmarshalValue(t *testing.T) {
	v, err := unmarshalValue("1XZ0", 4)
	require.NoError(t, err)
	assert.Equal(t, "1XZ0", marshalValue(v))

	_, err = unmarshalValue("101", 4)
	assert.Error(t, err, "width mismatch")

	_, err = unmarshalValue("12", 2)
	assert.Error(t, err, "not binary")
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func assertSameTransitions(t *testing.T, want, got *series.Series) {
	t.Helper()
	w := slices.Collect(want.All())
	g := slices.Collect(got.All())
	require.Len(t, g, len(w))
	for i := range w {
		assert.Equal(t, w[i].Timestamp, g[i].Timestamp, "transition %d", i)
		assert.True(t, w[i].Value.Equal(g[i].Value), "transition %d: want %s, got %s", i, w[i].Value, g[i].Value)
	}
}
