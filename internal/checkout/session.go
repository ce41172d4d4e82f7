// Package checkout tracks one purchase attempt at a time: it creates a
// checkout through the proxy API, opens the payment page and polls until the
// checkout settles.
package checkout

import (
	"slices"
	"time"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusCreating  Status = "creating"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// doneStatuses are provider statuses that end a checkout successfully.
var doneStatuses = []string{"completed", "paid", "succeeded", "fulfilled"}

// IsDone reports whether a provider status is terminal.
func IsDone(providerStatus string) bool {
	return slices.Contains(doneStatuses, providerStatus)
}

// StatusEntry is one observed provider status.
type StatusEntry struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// Session is the state of one purchase attempt.
type Session struct {
	Status      Status        `json:"status"`
	CheckoutID  string        `json:"checkoutId,omitempty"`
	CheckoutURL string        `json:"checkoutUrl,omitempty"`
	Product     string        `json:"product,omitempty"`
	Message     string        `json:"message"`
	Log         []StatusEntry `json:"log,omitempty"`
}

// Terminal reports whether the session can only be left by a new purchase.
func (s Session) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

func (s Session) clone() Session {
	s.Log = slices.Clone(s.Log)
	return s
}
