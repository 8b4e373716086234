package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"shiftbot/backend/internal/tracking"
	apperrors "shiftbot/backend/pkg/errors"
)

// StoredSnapshot is one persisted sheet capture.
type StoredSnapshot struct {
	ID               int64
	EmployeeUsername string
	WorksheetName    string
	Data             tracking.Snapshot
	IsBaseline       bool
	Notes            string
	SnapshotTime     time.Time
}

// StoreSnapshot persists a sheet capture, optionally flagged as the
// morning baseline.
func (s *Store) StoreSnapshot(ctx context.Context, employee, worksheet string, data tracking.Snapshot, isBaseline bool, notes string) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return apperrors.NewStoreQueryFailed("encode snapshot", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sheet_snapshots
		 (employee_username, worksheet_name, snapshot_data, is_baseline, notes, snapshot_time)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		employee, worksheet, string(encoded), isBaseline, notes, time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewStoreQueryFailed("store snapshot", err)
	}

	s.logger.Info("Snapshot stored",
		zap.String("employee", employee),
		zap.String("worksheet", worksheet),
		zap.Bool("baseline", isBaseline),
		zap.Int("rows", len(data)),
	)
	return nil
}

// LatestBaseline returns the most recent baseline for an employee taken
// on the given day, or nil when none exists.
func (s *Store) LatestBaseline(ctx context.Context, employee, worksheet string, day time.Time) (*StoredSnapshot, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, employee_username, worksheet_name, snapshot_data, is_baseline,
		        COALESCE(notes, ''), snapshot_time
		 FROM sheet_snapshots
		 WHERE employee_username = ? AND worksheet_name = ? AND is_baseline = 1
		   AND snapshot_time >= ? AND snapshot_time < ?
		 ORDER BY snapshot_time DESC
		 LIMIT 1`,
		employee, worksheet, start, end,
	)

	var snap StoredSnapshot
	var encoded string
	err := row.Scan(&snap.ID, &snap.EmployeeUsername, &snap.WorksheetName,
		&encoded, &snap.IsBaseline, &snap.Notes, &snap.SnapshotTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("latest baseline", err)
	}

	if err := json.Unmarshal([]byte(encoded), &snap.Data); err != nil {
		return nil, apperrors.NewStoreQueryFailed("decode snapshot", err)
	}
	return &snap, nil
}

// BaselineExists reports whether a baseline was already taken for the
// employee on the given day.
func (s *Store) BaselineExists(ctx context.Context, employee, worksheet string, day time.Time) (bool, error) {
	snap, err := s.LatestBaseline(ctx, employee, worksheet, day)
	if err != nil {
		return false, err
	}
	return snap != nil, nil
}

// PruneSnapshots deletes snapshots older than the retention window and
// returns how many were removed.
func (s *Store) PruneSnapshots(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-keep)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_snapshots WHERE snapshot_time < ?`, cutoff,
	)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailed("prune snapshots", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewStoreQueryFailed("prune snapshots", err)
	}
	if deleted > 0 {
		s.logger.Info("Pruned old snapshots", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}
