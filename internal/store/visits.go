package store

import (
	"context"
	"fmt"
	"time"
)

// Visit is one page view. The client address is only ever stored hashed.
type Visit struct {
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type VisitStats struct {
	Total  int64 `json:"total"`
	Unique int64 `json:"unique"`
}

func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// PruneVisits deletes visits older than before and reports how many went.
func (s *Store) PruneVisits(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune visits: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) VisitStats(ctx context.Context) (VisitStats, error) {
	var st VisitStats
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT hashed_ip) FROM visitors`).Scan(&st.Total, &st.Unique)
	if err != nil {
		return VisitStats{}, fmt.Errorf("visit stats: %w", err)
	}
	return st, nil
}
