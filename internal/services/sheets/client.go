// Package sheets talks to the Google Apps Script endpoint that fronts the
// backing spreadsheet. The API is a single URL taking an action query
// parameter plus the credentials; mutations POST a JSON-encoded row in a
// "data" form field. Every call is a single attempt: no retries, rollback is
// the caller's job.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adiwicaksana/filmtrack/internal/auth"
	"github.com/adiwicaksana/filmtrack/internal/config"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// Client handles communication with the sheet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new sheet API client.
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.SheetAPIURL == "" {
		return nil, fmt.Errorf("sheet API URL is not configured")
	}

	return &Client{
		baseURL:    cfg.SheetAPIURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
		logger:     logger,
	}, nil
}

// Read fetches the full collection for the user. Rows without a usable "no"
// column are skipped with a warning instead of producing broken records.
func (c *Client) Read(ctx context.Context, creds auth.Credentials) ([]models.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, "read", creds, nil)
	if err != nil {
		return nil, err
	}

	// An empty collection can come back as a success envelope with no data
	// field at all; that is zero rows, not an error.
	var rows []sheetRow
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &rows); err != nil {
			return nil, models.NewRemoteError(fmt.Sprintf("read returned malformed rows: %v", err))
		}
	}

	records := make([]models.Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec, ok := decodeRow(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		c.logger.WithFields(logrus.Fields{
			"skipped": skipped,
			"user":    creds.User,
		}).Warn("Dropped sheet rows with no usable id")
	}

	return records, nil
}

// Add appends the record as a new sheet row.
func (c *Client) Add(ctx context.Context, creds auth.Credentials, record models.Record) error {
	return c.mutate(ctx, "add", creds, encodeRow(record))
}

// Edit overwrites the sheet row addressed by the record's rowIndex.
func (c *Client) Edit(ctx context.Context, creds auth.Credentials, record models.Record) error {
	return c.mutate(ctx, "edit", creds, encodeRow(record))
}

// Delete removes the sheet row at rowIndex. Rows below it shift up server
// side; the caller mirrors that with a reindex.
func (c *Client) Delete(ctx context.Context, creds auth.Credentials, rowIndex int) error {
	return c.mutate(ctx, "delete", creds, map[string]int{"rowIndex": rowIndex})
}

// Login verifies the credentials against the user sheet.
func (c *Client) Login(ctx context.Context, creds auth.Credentials) error {
	_, err := c.do(ctx, http.MethodPost, "login", creds, nil)
	return err
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds auth.Credentials) error {
	_, err := c.do(ctx, http.MethodPost, "register", creds, nil)
	return err
}

func (c *Client) mutate(ctx context.Context, action string, creds auth.Credentials, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}
	form := url.Values{"data": {string(data)}}
	_, err = c.do(ctx, http.MethodPost, action, creds, form)
	return err
}

// do performs one request against the endpoint and checks the response
// envelope. Transport failures and non-success statuses both surface as
// RemoteError so the caller's rollback path has a single shape to handle.
func (c *Client) do(ctx context.Context, method, action string, creds auth.Credentials, form url.Values) (*apiResponse, error) {
	query := url.Values{
		"action": {action},
		"user":   {creds.User},
		"pass":   {creds.Pass},
	}
	fullURL := c.baseURL + "?" + query.Encode()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"action": action,
		"user":   creds.User,
	}).Debug("Calling sheet API")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewRemoteError(fmt.Sprintf("%s request failed: %v", action, err))
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, models.NewRemoteError(fmt.Sprintf("%s response was not valid JSON: %v", action, err))
	}

	if parsed.Status != statusSuccess {
		return nil, models.NewRemoteError(parsed.Message)
	}

	return &parsed, nil
}
