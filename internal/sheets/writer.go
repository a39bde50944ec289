package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
	"github.com/launchpad-edu/launchpad/internal/service"
)

const sheetName = "Colleges"

// Writer exports college lists to a Google Sheets spreadsheet.
type Writer struct {
	service *sheetsapi.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a Google Sheets exporter.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := newSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

// Export writes the student's list to the configured spreadsheet, replacing
// any previous export.
func (w *Writer) Export(ctx context.Context, profile *model.StudentProfile, entries []model.CollegeEntry) error {
	w.logger.Info("starting list export",
		"email", profile.Email,
		"colleges", len(entries))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	values := buildRows(profile, entries)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeRows(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("list export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))
	return nil
}

// buildRows converts a college list into spreadsheet rows, header first.
// Entries keep their list order.
func buildRows(profile *model.StudentProfile, entries []model.CollegeEntry) [][]any {
	rows := make([][]any, 0, len(entries)+2)
	rows = append(rows,
		[]any{fmt.Sprintf("College list for %s", profile.Email)},
		[]any{"University", "Location", "Category", "Match %", "Fit Status", "Added"},
	)

	for _, entry := range entries {
		match := ""
		if entry.FitAnalysis != nil {
			match = fmt.Sprintf("%.0f%%", entry.FitAnalysis.MatchPercentage)
		}
		rows = append(rows, []any{
			entry.UniversityName,
			entry.Location,
			entry.EffectiveCategory().DisplayName(),
			match,
			string(entry.ComputeStatus),
			entry.AddedAt.Format("2006-01-02"),
		})
	}
	return rows
}

// getOrCreateSpreadsheet resolves the target spreadsheet, creating one when
// no ID is configured.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet, err := w.service.Spreadsheets.Create(&sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{
			Title: w.config.SpreadsheetName,
		},
		Sheets: []*sheetsapi.Sheet{{
			Properties: &sheetsapi.SheetProperties{Title: sheetName},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	w.logger.Info("created spreadsheet",
		"spreadsheet_id", spreadsheet.SpreadsheetId,
		"title", w.config.SpreadsheetName)
	return spreadsheet.SpreadsheetId, nil
}

func (w *Writer) writeRows(ctx context.Context, spreadsheetID string, values [][]any) error {
	clearRange := fmt.Sprintf("%s!A:Z", sheetName)
	if _, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange,
		&sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, writeRange,
		&sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}
	return nil
}
