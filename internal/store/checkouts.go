package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zachkp/portfolio-terminal/internal/checkout"
)

// SaveCheckout upserts s keyed by its checkout id. Sessions without an id
// have nothing to resume and are skipped.
func (s *Store) SaveCheckout(ctx context.Context, sess checkout.Session) error {
	if sess.CheckoutID == "" {
		return nil
	}

	statusLog, err := json.Marshal(sess.Log)
	if err != nil {
		return fmt.Errorf("encode status log: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkouts (checkout_id, checkout_url, product, status, message, status_log, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(checkout_id) DO UPDATE SET
			checkout_url = excluded.checkout_url,
			product = excluded.product,
			status = excluded.status,
			message = excluded.message,
			status_log = excluded.status_log,
			updated_at = excluded.updated_at
	`, sess.CheckoutID, sess.CheckoutURL, sess.Product, string(sess.Status), sess.Message, string(statusLog), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save checkout %s: %w", sess.CheckoutID, err)
	}
	return nil
}

// LastCheckout returns the most recently saved session.
func (s *Store) LastCheckout(ctx context.Context) (checkout.Session, error) {
	var (
		sess      checkout.Session
		url       sql.NullString
		product   sql.NullString
		message   sql.NullString
		status    string
		statusLog string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT checkout_id, checkout_url, product, status, message, status_log
		FROM checkouts
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`).Scan(&sess.CheckoutID, &url, &product, &status, &message, &statusLog)
	if errors.Is(err, sql.ErrNoRows) {
		return checkout.Session{}, ErrNoCheckout
	}
	if err != nil {
		return checkout.Session{}, fmt.Errorf("load last checkout: %w", err)
	}

	sess.CheckoutURL = url.String
	sess.Product = product.String
	sess.Message = message.String
	sess.Status = checkout.Status(status)
	if err := json.Unmarshal([]byte(statusLog), &sess.Log); err != nil {
		return checkout.Session{}, fmt.Errorf("decode status log for %s: %w", sess.CheckoutID, err)
	}
	return sess, nil
}
