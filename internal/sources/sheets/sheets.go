// Package sheets imports survey data from Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/dataprocessing"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
)

// unformattedValue asks the API for raw numbers instead of display strings.
const unformattedValue = "UNFORMATTED_VALUE"

// Client reads spreadsheet values into workbooks.
type Client struct {
	service      *sheets.Service
	defaultRange string
	logger       *slog.Logger
}

// New creates a client from configuration. Service account credentials win
// over an API key. Without either the import feature is unavailable.
func New(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, apperrors.NewConfigError("read sheets credentials", err)
		}
		opts = append(opts,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, apperrors.ErrSheetsUnavailable
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewConfigError("create sheets service", err)
	}
	return NewWithService(service, cfg.DefaultRange, logger), nil
}

// NewWithService wraps an existing service.
func NewWithService(service *sheets.Service, defaultRange string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultRange == "" {
		defaultRange = "A1:Z"
	}
	return &Client{
		service:      service,
		defaultRange: defaultRange,
		logger:       logger.With(slog.String("component", "sheets")),
	}
}

// Fetch reads a range of a spreadsheet as a single sheet workbook. A range
// without a sheet name is read from the first sheet.
func (c *Client) Fetch(ctx context.Context, spreadsheetID, readRange string) (dataprocessing.Workbook, string, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return dataprocessing.Workbook{}, "", apperrors.NewAppValidationError("spreadsheet id is required")
	}
	if readRange == "" {
		readRange = c.defaultRange
	}

	title := ""
	if sheetName, _, ok := strings.Cut(readRange, "!"); ok {
		title = strings.Trim(sheetName, "'")
	} else {
		var err error
		if title, err = c.firstSheetTitle(ctx, spreadsheetID); err != nil {
			return dataprocessing.Workbook{}, "", err
		}
		readRange = QuoteSheetName(title) + "!" + readRange
	}

	c.logger.InfoContext(ctx, "fetching sheet values",
		slog.String("spreadsheet_id", spreadsheetID),
		slog.String("range", readRange))

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption(unformattedValue).
		Context(ctx).
		Do()
	if err != nil {
		return dataprocessing.Workbook{}, "", apperrors.NewNetworkError("read sheet values", err).
			WithContext("spreadsheet_id", spreadsheetID)
	}

	return WorkbookFromValues(title, resp.Values), title, nil
}

func (c *Client) firstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", apperrors.NewNetworkError("read spreadsheet metadata", err).
			WithContext("spreadsheet_id", spreadsheetID)
	}
	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return "", apperrors.NewNotFoundError("sheet")
	}
	return spreadsheet.Sheets[0].Properties.Title, nil
}

// QuoteSheetName quotes a sheet title for use in A1 notation.
func QuoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// WorkbookFromValues converts API values into a workbook. Numbers stay
// numbers, everything else becomes text.
func WorkbookFromValues(title string, values [][]interface{}) dataprocessing.Workbook {
	sheet := dataprocessing.Sheet{Name: title, Rows: make([]dataprocessing.Row, len(values))}
	for i, raw := range values {
		row := make(dataprocessing.Row, len(raw))
		for j, v := range raw {
			row[j] = toCell(v)
		}
		sheet.Rows[i] = row
	}
	return dataprocessing.Workbook{Sheets: []dataprocessing.Sheet{sheet}}
}

func toCell(v interface{}) dataprocessing.Cell {
	switch val := v.(type) {
	case nil:
		return dataprocessing.Cell{}
	case string:
		if val == "" {
			return dataprocessing.Cell{}
		}
		return dataprocessing.TextCell(val)
	case float64:
		return dataprocessing.NumberCell(val)
	case int:
		return dataprocessing.NumberCell(float64(val))
	case int64:
		return dataprocessing.NumberCell(float64(val))
	case bool:
		return dataprocessing.TextCell(strings.ToUpper(strconv.FormatBool(val)))
	default:
		return dataprocessing.TextCell(fmt.Sprint(val))
	}
}
