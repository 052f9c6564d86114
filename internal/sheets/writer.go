package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/getcohort/cohort/internal/common"
	"github.com/getcohort/cohort/internal/model"
	"github.com/getcohort/cohort/internal/service"
)

const (
	summaryTab = "Segments"
	methodsTab = "Methods"
)

// Writer implements service.SegmentWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets segment writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

// Write implements the SegmentWriter interface.
func (w *Writer) Write(ctx context.Context, run *model.SegmentRun) error {
	w.logger.Info("starting segment export",
		"run", run.ID,
		"segments", len(run.Segments))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	summary := buildSummaryValues(run)
	methods := buildMethodValues(run)

	for tab, values := range map[string][][]any{summaryTab: summary, methodsTab: methods} {
		tab, values := tab, values
		err = common.WithRetry(ctx, func() error {
			return w.writeTab(ctx, spreadsheetID, tab, values)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write %s tab: %w", tab, err)
		}
	}

	w.logger.Info("segment export complete",
		"spreadsheet_id", spreadsheetID,
		"run", run.ID)

	return nil
}

// buildSummaryValues flattens the run into Segments tab rows, largest
// segments first.
func buildSummaryValues(run *model.SegmentRun) [][]any {
	rows := make([]SummaryRow, 0, len(run.Segments))
	for _, seg := range run.Segments {
		rows = append(rows, SummaryRow{
			SegmentName:   seg.Name,
			Method:        string(seg.Method),
			Description:   seg.Description,
			Size:          seg.Size(),
			AvgCLV:        decimal.NewFromFloat(seg.Characteristics.AvgCLV).Round(2),
			AvgSpend:      decimal.NewFromFloat(seg.Characteristics.AvgTotalSpent).Round(2),
			AvgEngagement: seg.Characteristics.AvgEngagementScore,
			Strategies:    strings.Join(seg.Strategies, "; "),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Size != rows[j].Size {
			return rows[i].Size > rows[j].Size
		}
		return rows[i].SegmentName < rows[j].SegmentName
	})

	values := [][]any{{"Segment", "Method", "Size", "Avg CLV", "Avg Spend", "Engagement", "Description", "Strategies"}}
	for _, r := range rows {
		values = append(values, []any{
			r.SegmentName, r.Method, r.Size,
			r.AvgCLV.String(), r.AvgSpend.String(),
			fmt.Sprintf("%.2f", r.AvgEngagement),
			r.Description, r.Strategies,
		})
	}
	return values
}

// buildMethodValues summarizes segment and member counts per method.
func buildMethodValues(run *model.SegmentRun) [][]any {
	counts := make(map[string]*MemberCountRow)
	for _, seg := range run.Segments {
		row, ok := counts[string(seg.Method)]
		if !ok {
			row = &MemberCountRow{Method: string(seg.Method)}
			counts[string(seg.Method)] = row
		}
		row.SegmentCount++
		row.MemberCount += seg.Size()
	}

	methods := make([]string, 0, len(counts))
	for m := range counts {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	values := [][]any{{"Method", "Segments", "Members"}}
	for _, m := range methods {
		row := counts[m]
		values = append(values, []any{row.Method, row.SegmentCount, row.MemberCount})
	}
	return values
}

// getOrCreateSpreadsheet resolves the target spreadsheet, creating it with
// the expected tabs when no ID is configured.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: w.config.SpreadsheetName,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: summaryTab}},
			{Properties: &sheets.SheetProperties{Title: methodsTab}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	w.logger.Info("created spreadsheet",
		"spreadsheet_id", created.SpreadsheetId,
		"title", w.config.SpreadsheetName)

	return created.SpreadsheetId, nil
}

// writeTab clears a tab and writes the given values.
func (w *Writer) writeTab(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	if err := w.ensureTab(ctx, spreadsheetID, tab); err != nil {
		return err
	}

	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tab, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear tab %s: %w", tab, err)
	}

	_, err = w.service.Spreadsheets.Values.Update(spreadsheetID, tab+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write tab %s: %w", tab, err)
	}

	return nil
}

// ensureTab adds the tab if the spreadsheet doesn't already have it.
func (w *Writer) ensureTab(ctx context.Context, spreadsheetID, tab string) error {
	spreadsheet, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == tab {
			return nil
		}
	}

	_, err = w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: tab},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add tab %s: %w", tab, err)
	}

	return nil
}

// createSheetsService builds the API client from a service account file or
// OAuth2 refresh-token credentials.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	if config.ServiceAccountPath != "" {
		data, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}

		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account: %w", err)
		}

		return sheets.NewService(ctx, option.WithCredentials(creds))
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	token := &oauth2.Token{RefreshToken: config.RefreshToken}
	return sheets.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
}
