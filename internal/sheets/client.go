package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"attrition-relay/internal/models"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Append options matching how the sheet is meant to be filled: formulas are
// parsed and every append inserts fresh rows.
const (
	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"
	DefaultRange     = "Sheet1!A:Z"
	DefaultCredsFile = "credentials.json"
)

// Error wraps a Sheets API failure with the backend's diagnostic payload.
type Error struct {
	Op      string
	Err     error
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config for the Sheets client
type Config struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
	Endpoint        string // overrides the API endpoint, empty for Google
}

// AppendResult mirrors the parts of the append response callers care about.
type AppendResult struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	TableRange     string `json:"tableRange,omitempty"`
	UpdatedRange   string `json:"updatedRange,omitempty"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

// Client appends rows to a single spreadsheet. It is safe for concurrent use
// and is meant to be created once per process.
type Client struct {
	service       *gsheets.Service
	spreadsheetID string
	writeRange    string
	logger        *zap.Logger
}

// NewClient creates a Sheets client. Extra options are appended after the
// credentials option, so tests can replace transport and auth.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}

	clientOpts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logger.Info("Sheets client initialized",
		zap.String("spreadsheet_id", cfg.SpreadsheetID),
		zap.String("range", cfg.Range))

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    cfg.Range,
		logger:        logger,
	}, nil
}

// AppendRow appends row as a single-row batch to the configured range.
func (c *Client) AppendRow(ctx context.Context, row models.SheetRow) (*AppendResult, error) {
	body := &gsheets.ValueRange{
		Values: [][]interface{}{row},
	}

	resp, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, c.writeRange, body).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError("append", err)
	}

	result := &AppendResult{
		SpreadsheetID: resp.SpreadsheetId,
		TableRange:    resp.TableRange,
	}
	if resp.Updates != nil {
		result.UpdatedRange = resp.Updates.UpdatedRange
		result.UpdatedRows = resp.Updates.UpdatedRows
		result.UpdatedColumns = resp.Updates.UpdatedColumns
		result.UpdatedCells = resp.Updates.UpdatedCells
	}

	c.logger.Debug("Row appended",
		zap.String("updated_range", result.UpdatedRange),
		zap.Int64("updated_cells", result.UpdatedCells))

	return result, nil
}

// SpreadsheetTitle fetches the spreadsheet metadata and returns its title.
func (c *Client) SpreadsheetTitle(ctx context.Context) (string, error) {
	resp, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError("get spreadsheet", err)
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}

// wrapError attaches the API error body, decoded when it is JSON.
func wrapError(op string, err error) error {
	wrapped := &Error{Op: op, Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		var payload any
		if json.Unmarshal([]byte(apiErr.Body), &payload) == nil {
			wrapped.Details = payload
		} else {
			wrapped.Details = apiErr.Body
		}
	}

	return wrapped
}
