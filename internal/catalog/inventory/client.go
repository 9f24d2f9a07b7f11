// Package inventory talks to the inventory service, which owns stock data keyed by UPC.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrInventoryNotFound = errors.New("inventory record not found")
	ErrResponseTooLarge  = errors.New("inventory response too large")
)

// maxBodyBytes bounds how much of an inventory response is read.
const maxBodyBytes = 1 << 20

// Client fetches inventory records. Records are returned as the raw JSON the service sent.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

// Get returns the inventory record for upc, or ErrInventoryNotFound on 404.
func (c *Client) Get(ctx context.Context, upc string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/v1/inventory/%s", c.baseURL, url.PathEscape(upc))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrInventoryNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("inventory service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, maxBodyBytes)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("inventory service returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
