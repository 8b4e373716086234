package sheets

import (
	"context"

	"go.uber.org/zap"

	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/tracking"
	apperrors "shiftbot/backend/pkg/errors"
	"shiftbot/backend/pkg/logger"
)

// TrackingWorksheet is the worksheet every employee sheet uses for the
// task cross-reference table.
const TrackingWorksheet = "Tracking"

// Reader is the slice of Client the service needs, split out so tests
// can substitute canned worksheets.
type Reader interface {
	WorksheetNames(ctx context.Context, spreadsheetID string) ([]string, error)
	ReadWorksheet(ctx context.Context, spreadsheetID, worksheetName string) (tracking.Snapshot, error)
}

// Service layers permission checks on top of raw sheet reads.
type Service struct {
	reader Reader
	dir    *permissions.Directory
	logger *zap.Logger
}

// FetchResult is the outcome of a permission-checked fetch: either a
// worksheet listing (no worksheet requested) or one worksheet's data.
type FetchResult struct {
	Worksheets    []string
	WorksheetName string
	Snapshot      tracking.Snapshot
}

// NewService creates a permission-checked sheet service.
func NewService(reader Reader, dir *permissions.Directory) *Service {
	return &Service{
		reader: reader,
		dir:    dir,
		logger: logger.Get(),
	}
}

// FetchEmployeeSheet fetches sheet data for an employee after checking
// that the requester may read it. With an empty worksheetName it returns
// the list of worksheets instead of data.
func (s *Service) FetchEmployeeSheet(ctx context.Context, employee, requester, worksheetName string) (*FetchResult, error) {
	canAccess, sheetID := s.dir.CanAccessSheet(requester, employee)
	if !canAccess || sheetID == "" {
		s.logger.Warn("Sheet access denied",
			zap.String("requester", requester),
			zap.String("employee", employee),
		)
		return nil, apperrors.NewSheetAccessDenied(requester, employee)
	}

	if worksheetName == "" {
		names, err := s.reader.WorksheetNames(ctx, sheetID)
		if err != nil {
			return nil, err
		}
		return &FetchResult{Worksheets: names}, nil
	}

	snapshot, err := s.reader.ReadWorksheet(ctx, sheetID, worksheetName)
	if err != nil {
		return nil, err
	}
	return &FetchResult{
		WorksheetName: worksheetName,
		Snapshot:      snapshot,
	}, nil
}

// TrackingSnapshot reads an employee's Tracking worksheet without a
// requester check. Only the scheduler and report paths use this.
func (s *Service) TrackingSnapshot(ctx context.Context, employee string) (tracking.Snapshot, error) {
	sheetID := s.dir.SheetID(employee)
	if sheetID == "" {
		return nil, apperrors.NewSheetAccessDenied(employee, employee)
	}
	return s.reader.ReadWorksheet(ctx, sheetID, TrackingWorksheet)
}
