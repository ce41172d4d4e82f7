package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend is the checkout API the tracker talks to.
type Backend interface {
	CreateCheckout(ctx context.Context, req CreateRequest) (*Created, error)
	CheckoutStatus(ctx context.Context, checkoutID string) (*StatusResult, error)
}

type CreateRequest struct {
	ProductID  string         `json:"productId"`
	Quantity   int            `json:"quantity,omitempty"`
	SuccessURL string         `json:"successUrl,omitempty"`
	CancelURL  string         `json:"cancelUrl,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type Created struct {
	CheckoutID  string `json:"checkoutId"`
	CheckoutURL string `json:"checkoutUrl"`
	Status      string `json:"status"`
}

type StatusResult struct {
	Status string `json:"status"`
}

// UpstreamError is a non-success answer from the checkout API. Message is
// the API's own error text when it sent one.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("checkout api returned status %d", e.StatusCode)
	}
	return e.Message
}

// TransportError is a failure to reach the checkout API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// APIClient calls the /api/checkout endpoints served by this project.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, hc *http.Client) *APIClient {
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *APIClient) CreateCheckout(ctx context.Context, req CreateRequest) (*Created, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode checkout request: %w", err)
	}
	var out Created
	if err := c.call(ctx, http.MethodPost, "/api/checkout", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CheckoutStatus(ctx context.Context, checkoutID string) (*StatusResult, error) {
	var out StatusResult
	path := "/api/checkout/status?id=" + url.QueryEscape(checkoutID)
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) call(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		return &UpstreamError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
