package store

import (
	"context"
	"fmt"

	"github.com/roach88/wavescan/internal/series"
	"github.com/roach88/wavescan/internal/trace"
)

// TraceInfo summarizes a stored trace.
type TraceInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MaxTimestamp int64  `json:"max_timestamp"`
	Nets         int    `json:"nets"`
	Series       int    `json:"series"`
}

// WriteTrace stores every net of src under a new trace ID and returns the
// stored trace's summary.
//
// Nets backed by the same series are stored once and reference a shared
// series row, so aliases survive a round trip. The whole trace is written in
// one transaction; a name that is already stored returns ErrDuplicateName.
func (s *Store) WriteTrace(ctx context.Context, name string, src trace.Source) (TraceInfo, error) {
	nets := src.Nets()
	info := TraceInfo{
		ID:           s.ids.Generate(),
		Name:         name,
		MaxTimestamp: src.MaxTimestamp(),
		Nets:         len(nets),
	}

	// Assign series indices in order of first use.
	index := make(map[*series.Series]int)
	var ordered []*series.Series
	for _, n := range nets {
		if _, ok := index[n.Series]; !ok {
			index[n.Series] = len(ordered)
			ordered = append(ordered, n.Series)
		}
	}
	info.Series = len(ordered)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TraceInfo{}, fmt.Errorf("write trace: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM traces WHERE name = ?`, name).Scan(&exists); err != nil {
		return TraceInfo{}, fmt.Errorf("write trace: check name: %w", err)
	}
	if exists > 0 {
		return TraceInfo{}, fmt.Errorf("write trace %q: %w", name, ErrDuplicateName)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO traces (id, name, max_timestamp, net_count, series_count)
		VALUES (?, ?, ?, ?, ?)
	`, info.ID, info.Name, info.MaxTimestamp, info.Nets, info.Series); err != nil {
		return TraceInfo{}, fmt.Errorf("write trace: insert trace: %w", err)
	}

	seriesStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO series (trace_id, series_index, width) VALUES (?, ?, ?)
	`)
	if err != nil {
		return TraceInfo{}, fmt.Errorf("write trace: prepare series: %w", err)
	}
	defer seriesStmt.Close()

	transitionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transitions (trace_id, series_index, seq, timestamp, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return TraceInfo{}, fmt.Errorf("write trace: prepare transitions: %w", err)
	}
	defer transitionStmt.Close()

	total := 0
	for i, sr := range ordered {
		if _, err := seriesStmt.ExecContext(ctx, info.ID, i, sr.Width()); err != nil {
			return TraceInfo{}, fmt.Errorf("write trace: insert series %d: %w", i, err)
		}
		seq := 0
		for tr := range sr.All() {
			if _, err := transitionStmt.ExecContext(ctx, info.ID, i, seq, tr.Timestamp, marshalValue(tr.Value)); err != nil {
				return TraceInfo{}, fmt.Errorf("write trace: insert transition %d of series %d: %w", seq, i, err)
			}
			seq++
		}
		total += seq
	}

	for pos, n := range nets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nets (trace_id, position, name, series_index)
			VALUES (?, ?, ?, ?)
		`, info.ID, pos, n.Name, index[n.Series]); err != nil {
			return TraceInfo{}, fmt.Errorf("write trace: insert net %q: %w", n.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return TraceInfo{}, fmt.Errorf("write trace: commit: %w", err)
	}

	s.logger.Info("trace written",
		"id", info.ID,
		"name", info.Name,
		"nets", info.Nets,
		"series", info.Series,
		"transitions", total,
	)
	return info, nil
}

// DeleteTrace removes a trace and, by cascade, its nets and transitions.
// Returns ErrTraceNotFound if no trace has the given ID.
func (s *Store) DeleteTrace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete trace %q: %w", id, ErrTraceNotFound)
	}
	s.logger.Info("trace deleted", "id", id)
	return nil
}
