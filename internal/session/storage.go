// Package session holds per-session transient records: the browser
// tab's sessionStorage moved server side. Records are overwritten on
// every write and expire with the session.
package session

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyLastOrder  = "lastOrder"
	KeyNewListing = "newListing"
	KeyQRPayment  = "qrPayment"
)

var (
	ErrNotFound        = errors.New("session record not found")
	ErrSessionRequired = errors.New("session id is required")
	ErrKeyRequired     = errors.New("storage key is required")
)

// Storage is a session-scoped key/value store.
type Storage interface {
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Delete(ctx context.Context, sessionID, key string) error
}

func validate(sessionID, key string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if key == "" {
		return ErrKeyRequired
	}
	return nil
}
