package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/neurostream/intake/pkg/sheet"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Client defines the interface for appending submissions to an Airtable table.
// It satisfies sheet.Sheet; header names map to Airtable field names.
type Client interface {
	sheet.Sheet
	CreateRecord(ctx context.Context, fields map[string]interface{}) error
}

type clientImpl struct {
	apiKey     string
	baseID     string
	table      string
	header     []string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option customizes a client
type Option func(*clientImpl)

// WithBaseURL points the client at a different API root
func WithBaseURL(u string) Option {
	return func(c *clientImpl) { c.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *clientImpl) { c.httpClient = h }
}

// NewClient creates a new Airtable client bound to one table
func NewClient(apiKey, baseID, table string, header []string, log *zap.Logger, opts ...Option) Client {
	c := &clientImpl{
		apiKey:     apiKey,
		baseID:     baseID,
		table:      table,
		header:     append([]string(nil), header...),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		log:        log.Named("airtable"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *clientImpl) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
}

func (c *clientImpl) AppendRow(ctx context.Context, row []string) error {
	if len(row) != len(c.header) {
		return fmt.Errorf("%w: got %d cells, want %d", sheet.ErrColumnMismatch, len(row), len(c.header))
	}

	fields := make(map[string]interface{}, len(row))
	for i, name := range c.header {
		fields[name] = row[i]
	}
	return c.CreateRecord(ctx, fields)
}

func (c *clientImpl) CreateRecord(ctx context.Context, fields map[string]interface{}) error {
	// Format data for Airtable API
	payload := map[string]interface{}{
		"records": []map[string]interface{}{
			{
				"fields": fields,
			},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(), bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error creating Airtable record: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error from Airtable API: %s", string(body))
	}

	c.log.Debug("created record", zap.String("table", c.table))
	return nil
}

// Count pages through the table requesting only the first column.
func (c *clientImpl) Count(ctx context.Context) (int, error) {
	total := 0
	offset := ""
	for {
		params := url.Values{}
		params.Set("pageSize", "100")
		if len(c.header) > 0 {
			params.Add("fields[]", c.header[0])
		}
		if offset != "" {
			params.Set("offset", offset)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL()+"?"+params.Encode(), nil)
		if err != nil {
			return 0, fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Add("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, fmt.Errorf("error listing Airtable records: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return 0, fmt.Errorf("error reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return 0, fmt.Errorf("error from Airtable API: %s", string(body))
		}

		var page struct {
			Records []struct {
				ID string `json:"id"`
			} `json:"records"`
			Offset string `json:"offset"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, fmt.Errorf("error parsing response: %w", err)
		}

		total += len(page.Records)
		if page.Offset == "" {
			return total, nil
		}
		offset = page.Offset
	}
}
