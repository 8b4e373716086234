// Package sheets fetches employee tracking spreadsheets and converts
// worksheet values into tracking snapshots.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"go.uber.org/zap"

	"shiftbot/backend/internal/tracking"
	apperrors "shiftbot/backend/pkg/errors"
	"shiftbot/backend/pkg/logger"
)

// Client wraps the Google Sheets API for read access.
type Client struct {
	service *sheetsapi.Service
	logger  *zap.Logger
}

// NewClient creates a sheets client authenticated with a service
// account credentials file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger.Get(),
	}, nil
}

// WorksheetNames returns the titles of all worksheets in a spreadsheet.
func (c *Client) WorksheetNames(ctx context.Context, spreadsheetID string) ([]string, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewSheetFetchFailed(spreadsheetID, err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}

	c.logger.Debug("Listed worksheets",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("count", len(names)),
	)
	return names, nil
}

// ReadWorksheet fetches all values from one worksheet and builds a
// snapshot. An unqualified range reads the whole worksheet.
func (c *Client) ReadWorksheet(ctx context.Context, spreadsheetID, worksheetName string) (tracking.Snapshot, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, worksheetName).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewSheetFetchFailed(spreadsheetID, err)
	}

	snapshot := BuildSnapshot(resp.Values)
	c.logger.Debug("Read worksheet",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("worksheet", worksheetName),
		zap.Int("rows", len(snapshot)),
	)
	return snapshot, nil
}
