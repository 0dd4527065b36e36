// Package upload sends Alpha Progression exports to a remote LiftLog server.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/ingest"
)

const maxAttempts = 3

// Client sends data to the LiftLog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the LiftLog server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendAlphaCSV POSTs a CSV export to the server's Alpha ingest endpoint.
// Retries up to 3 times with exponential backoff on transport errors and
// 5xx responses; a 4xx response is final.
func (c *Client) SendAlphaCSV(ctx context.Context, csv []byte) (*ingest.Result, error) {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		result, retry, err := c.send(ctx, csv)
		if err == nil {
			return result, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) send(ctx context.Context, csv []byte) (result *ingest.Result, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/ingest/alpha", bytes.NewReader(csv))
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, body)
		return nil, resp.StatusCode >= 500, err
	}

	result = &ingest.Result{}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, false, fmt.Errorf("decoding ingest result: %w", err)
	}
	return result, false, nil
}
