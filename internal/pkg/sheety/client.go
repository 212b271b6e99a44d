// Package sheety appends rows to spreadsheet-backed endpoints (Sheety API).
package sheety

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error is a rejected append. Message is the endpoint's own explanation when
// it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("sheet rejected row (%d): %s", e.Status, e.Message)
}

// Client posts rows to a sheet endpoint
type Client struct {
	httpClient *http.Client
}

// NewClient creates a sheet client
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// AppendRow posts {"<sheet>": row} to the endpoint. The sheet name is the
// singular resource name configured on the Sheety project (e.g. "sheet1").
func (c *Client) AppendRow(ctx context.Context, endpoint, sheet string, row any) error {
	if endpoint == "" {
		return fmt.Errorf("sheet endpoint is not configured")
	}
	data, err := json.Marshal(map[string]any{sheet: row})
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build sheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post row: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp)}
	}
	return nil
}

// errorMessage reads {"message": "..."} or {"errors": [{"detail": "..."}]},
// falling back to the body text.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if len(body.Errors) > 0 && body.Errors[0].Detail != "" {
			return body.Errors[0].Detail
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return resp.Status
}
