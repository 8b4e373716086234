// Package report captures morning baselines and builds the evening
// shift summary from the day's sheet changes.
package report

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/sheets"
	"shiftbot/backend/internal/store"
	"shiftbot/backend/internal/tracking"
	"shiftbot/backend/pkg/logger"
)

const (
	baselineNotes = "Morning baseline snapshot"
	eveningNotes  = "Evening snapshot for shift report"
)

// SheetSource reads an employee's Tracking worksheet.
type SheetSource interface {
	TrackingSnapshot(ctx context.Context, employee string) (tracking.Snapshot, error)
}

// SnapshotStore persists and replays sheet captures.
type SnapshotStore interface {
	StoreSnapshot(ctx context.Context, employee, worksheet string, data tracking.Snapshot, isBaseline bool, notes string) error
	LatestBaseline(ctx context.Context, employee, worksheet string, day time.Time) (*store.StoredSnapshot, error)
	BaselineExists(ctx context.Context, employee, worksheet string, day time.Time) (bool, error)
}

// EmployeeReport pairs one employee with their day's change report.
type EmployeeReport struct {
	Username string
	Changes  *tracking.ChangeReport
}

// Service runs the twice-daily snapshot and report cycle.
type Service struct {
	sheets    SheetSource
	snapshots SnapshotStore
	dir       *permissions.Directory
	cfg       tracking.Config
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates a shift report service.
func NewService(sheetSource SheetSource, snapshots SnapshotStore, dir *permissions.Directory) *Service {
	return &Service{
		sheets:    sheetSource,
		snapshots: snapshots,
		dir:       dir,
		cfg:       tracking.DefaultConfig(),
		now:       time.Now,
		logger:    logger.Get(),
	}
}

// TakeBaselines captures a morning baseline for every employee that does
// not already have one today. Per-employee failures are logged and
// skipped so one broken sheet cannot block the rest.
func (s *Service) TakeBaselines(ctx context.Context) {
	today := s.now().UTC()

	for _, employee := range s.employees() {
		exists, err := s.snapshots.BaselineExists(ctx, employee, sheets.TrackingWorksheet, today)
		if err != nil {
			s.logger.Error("Baseline check failed",
				zap.String("employee", employee),
				zap.Error(err),
			)
			continue
		}
		if exists {
			s.logger.Info("Baseline already taken today", zap.String("employee", employee))
			continue
		}

		snapshot, err := s.sheets.TrackingSnapshot(ctx, employee)
		if err != nil {
			s.logger.Error("Baseline fetch failed",
				zap.String("employee", employee),
				zap.Error(err),
			)
			continue
		}

		if err := s.snapshots.StoreSnapshot(ctx, employee, sheets.TrackingWorksheet, snapshot, true, baselineNotes); err != nil {
			s.logger.Error("Baseline store failed",
				zap.String("employee", employee),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("Baseline captured",
			zap.String("employee", employee),
			zap.Int("rows", len(snapshot)),
		)
	}
}

// CollectReports diffs every employee's current sheet against their
// morning baseline and stores the evening state for history. Employees
// without a baseline today are skipped.
func (s *Service) CollectReports(ctx context.Context) []EmployeeReport {
	today := s.now().UTC()
	var reports []EmployeeReport

	for _, employee := range s.employees() {
		baseline, err := s.snapshots.LatestBaseline(ctx, employee, sheets.TrackingWorksheet, today)
		if err != nil {
			s.logger.Error("Baseline lookup failed",
				zap.String("employee", employee),
				zap.Error(err),
			)
			continue
		}
		if baseline == nil {
			s.logger.Warn("No baseline today, skipping report", zap.String("employee", employee))
			continue
		}

		current, err := s.sheets.TrackingSnapshot(ctx, employee)
		if err != nil {
			s.logger.Error("Current sheet fetch failed",
				zap.String("employee", employee),
				zap.Error(err),
			)
			continue
		}

		changes := s.cfg.Diff(baseline.Data, current)
		reports = append(reports, EmployeeReport{Username: employee, Changes: changes})

		s.logger.Info("Shift analysis complete",
			zap.String("employee", employee),
			zap.Int("completions", len(changes.Completions)),
			zap.Int("subjects_updated", len(changes.SubjectsTouched)),
			zap.Int("escalations", len(changes.Escalations)),
			zap.Int("attention", len(changes.AttentionNeeded)),
		)

		if err := s.snapshots.StoreSnapshot(ctx, employee, sheets.TrackingWorksheet, current, false, eveningNotes); err != nil {
			s.logger.Error("Evening snapshot store failed",
				zap.String("employee", employee),
				zap.Error(err),
			)
		}
	}

	return reports
}

// employees returns the directory's employee usernames in stable order.
func (s *Service) employees() []string {
	names := make([]string, 0, len(s.dir.Sheets))
	for username := range s.dir.Sheets {
		names = append(names, username)
	}
	sort.Strings(names)
	return names
}
