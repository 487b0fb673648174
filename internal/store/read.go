package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/wavescan/internal/series"
	"github.com/roach88/wavescan/internal/trace"
)

// ListTraces returns a summary of every stored trace, ordered by name.
//
// Returns an empty slice (not nil) if the store holds no traces.
func (s *Store) ListTraces(ctx context.Context) ([]TraceInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, max_timestamp, net_count, series_count
		FROM traces
		ORDER BY name COLLATE BINARY ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	infos := []TraceInfo{}
	for rows.Next() {
		var info TraceInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.MaxTimestamp, &info.Nets, &info.Series); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}
	return infos, nil
}

// FindTrace looks a trace up by ID, then by name.
// Returns ErrTraceNotFound if neither matches.
func (s *Store) FindTrace(ctx context.Context, ref string) (TraceInfo, error) {
	var info TraceInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, max_timestamp, net_count, series_count
		FROM traces
		WHERE id = ? OR name = ?
		ORDER BY (id = ?) DESC
		LIMIT 1
	`, ref, ref, ref).Scan(&info.ID, &info.Name, &info.MaxTimestamp, &info.Nets, &info.Series)
	if errors.Is(err, sql.ErrNoRows) {
		return TraceInfo{}, fmt.Errorf("find trace %q: %w", ref, ErrTraceNotFound)
	}
	if err != nil {
		return TraceInfo{}, fmt.Errorf("find trace %q: %w", ref, err)
	}
	return info, nil
}

// ReadTrace loads the trace with the given ID.
//
// Nets are registered in their stored order and aliases share a single
// series, so the result answers every query exactly as the trace that was
// written. Returns ErrTraceNotFound if no trace has the given ID.
func (s *Store) ReadTrace(ctx context.Context, id string) (*trace.Trace, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM traces WHERE id = ?`, id).Scan(&count); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("read trace %q: %w", id, ErrTraceNotFound)
	}

	built, err := s.readSeries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read trace %q: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, series_index
		FROM nets
		WHERE trace_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read trace %q: query nets: %w", id, err)
	}
	defer rows.Close()

	tr := trace.New()
	for rows.Next() {
		var (
			name string
			idx  int
		)
		if err := rows.Scan(&name, &idx); err != nil {
			return nil, fmt.Errorf("read trace %q: scan net: %w", id, err)
		}
		sr, ok := built[idx]
		if !ok {
			return nil, fmt.Errorf("read trace %q: net %q references missing series %d", id, name, idx)
		}
		if err := tr.AddNet(name, sr); err != nil {
			return nil, fmt.Errorf("read trace %q: %w", id, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read trace %q: iterate nets: %w", id, err)
	}
	return tr, nil
}

// readSeries rebuilds every series of a trace, keyed by series index.
func (s *Store) readSeries(ctx context.Context, id string) (map[int]*series.Series, error) {
	widths := make(map[int]int)
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_index, width
		FROM series
		WHERE trace_id = ?
		ORDER BY series_index ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	for rows.Next() {
		var idx, width int
		if err := rows.Scan(&idx, &width); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan series: %w", err)
		}
		widths[idx] = width
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}

	builders := make(map[int]*series.Builder, len(widths))
	for idx, width := range widths {
		builders[idx] = series.NewBuilder(width)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT series_index, timestamp, value
		FROM transitions
		WHERE trace_id = ?
		ORDER BY series_index ASC, seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx  int
			ts   int64
			text string
		)
		if err := rows.Scan(&idx, &ts, &text); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		b, ok := builders[idx]
		if !ok {
			return nil, fmt.Errorf("transition references missing series %d", idx)
		}
		v, err := unmarshalValue(text, widths[idx])
		if err != nil {
			return nil, err
		}
		b.Append(ts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}

	built := make(map[int]*series.Series, len(builders))
	for idx, b := range builders {
		built[idx] = b.Finish()
	}
	return built, nil
}
