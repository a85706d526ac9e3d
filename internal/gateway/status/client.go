// Package status pushes order status changes to the order-management API.
package status

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"courier-dispatch/internal/domain"
)

// Client calls PUT {base}/status/user/{userId}/order/{orderId}.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a status Client. It returns nil when baseURL is empty.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{base: baseURL, http: &http.Client{Timeout: timeout}}
}

// ErrMissingIDs is returned for updates without a customer or order id.
var ErrMissingIDs = errors.New("status api: customer id and order id are required")

type pushBody struct {
	Status      string `json:"status"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// HTTPStatusError is returned for non-2xx responses.
type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("status api: unexpected status %d: %s", e.Code, e.Body)
}

// Push sends one status update.
func (c *Client) Push(ctx context.Context, u domain.StatusUpdate) error {
	if u.CustomerID == "" || u.OrderID == "" {
		return ErrMissingIDs
	}

	raw, err := json.Marshal(pushBody{Status: string(u.Status), PhoneNumber: u.Phone})
	if err != nil {
		return fmt.Errorf("status api: encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/status/user/%s/order/%s",
		c.base, url.PathEscape(u.CustomerID), url.PathEscape(u.OrderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("status api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("status api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
