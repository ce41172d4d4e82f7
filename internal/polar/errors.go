package polar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingToken means no credential was configured. No request is sent.
	ErrMissingToken = errors.New("missing Polar access token. Set POLAR_ACCESS_TOKEN (or POLAR_SANDBOX_KEY)")

	// ErrNotFound means no candidate session endpoint answered.
	ErrNotFound = errors.New("checkout session not found")
)

// APIError is a non-success response from the provider.
type APIError struct {
	StatusCode      int
	Message         string
	Details         json.RawMessage
	Troubleshooting string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("polar: %s (status %d)", e.Message, e.StatusCode)
}

// TransportError wraps a failure to reach the provider at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("polar: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newAPIError(status int, body []byte, fallback string) *APIError {
	apiErr := &APIError{StatusCode: status, Message: fallback}

	if json.Valid(body) {
		apiErr.Details = json.RawMessage(body)
		var payload struct {
			Message string          `json:"message"`
			Detail  json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			switch {
			case payload.Message != "":
				apiErr.Message = payload.Message
			case len(payload.Detail) > 0:
				var s string
				if json.Unmarshal(payload.Detail, &s) == nil && s != "" {
					apiErr.Message = s
				}
			}
		}
	}

	switch status {
	case http.StatusForbidden:
		apiErr.Troubleshooting = "403 Forbidden: Check that your Polar token has permission to create checkouts and that the product belongs to your organization."
	case http.StatusUnauthorized:
		apiErr.Troubleshooting = "401 Unauthorized: Check that your Polar token is valid and correctly set in the environment."
	}
	return apiErr
}
