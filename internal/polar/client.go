// Package polar is a small client for the Polar checkout API.
package polar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSize = 1 << 20

// Checkout is the subset of a provider checkout the proxy reads. Raw keeps
// the full provider document so it can be passed through untouched.
type Checkout struct {
	ID     string          `json:"id"`
	URL    string          `json:"url"`
	Status string          `json:"status"`
	Raw    json.RawMessage `json:"-"`
}

type CreateParams struct {
	ProductID  string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]any
}

type Options struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	SessionPaths []string
	HTTPClient   *http.Client
}

type Client struct {
	baseURL      string
	token        string
	sessionPaths []string
	http         *http.Client
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		token:        opts.Token,
		sessionPaths: opts.SessionPaths,
		http:         hc,
	}
}

// HasToken reports whether requests can be authorized.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// CreateCheckout opens a new checkout session for a single product.
func (c *Client) CreateCheckout(ctx context.Context, p CreateParams) (*Checkout, error) {
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"products":    []string{p.ProductID},
		"success_url": p.SuccessURL,
		"cancel_url":  p.CancelURL,
		"metadata":    metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("encode checkout request: %w", err)
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/v1/checkouts", body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newAPIError(status, raw, "Failed to create checkout")
	}
	return decodeCheckout(raw)
}

// GetCheckout fetches a checkout by id.
func (c *Client) GetCheckout(ctx context.Context, id string) (*Checkout, error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/v1/checkouts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newAPIError(status, raw, "Failed to load checkout")
	}
	return decodeCheckout(raw)
}

// CheckoutBySessionToken resolves a customer session token by trying the
// configured session paths in order. The first success wins.
func (c *Client) CheckoutBySessionToken(ctx context.Context, token string) (*Checkout, error) {
	if !c.HasToken() {
		return nil, ErrMissingToken
	}

	var lastErr *APIError
	for _, tmpl := range c.sessionPaths {
		path := strings.ReplaceAll(tmpl, "{token}", url.PathEscape(token))

		status, raw, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			log.Printf("polar: session lookup via %s failed: %v", tmpl, err)
			continue
		}
		if status < 200 || status > 299 {
			lastErr = newAPIError(status, raw, "Failed to load checkout session")
			continue
		}

		var wrapped struct {
			Checkout json.RawMessage `json:"checkout"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Checkout) > 0 && string(wrapped.Checkout) != "null" {
			raw = wrapped.Checkout
		}
		return decodeCheckout(raw)
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNotFound
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	if !c.HasToken() {
		return 0, nil, ErrMissingToken
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, &TransportError{Op: "read " + path, Err: err}
	}
	return resp.StatusCode, raw, nil
}

func decodeCheckout(raw []byte) (*Checkout, error) {
	var co Checkout
	if err := json.Unmarshal(raw, &co); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	co.Raw = json.RawMessage(raw)
	return &co, nil
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
