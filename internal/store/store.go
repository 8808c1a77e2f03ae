package store

import (
	"context"
	"errors"
)

// Keys owned by the Neon Writers services. Every value is a JSON-encoded
// string; collections are rewritten in full on each mutation.
const (
	KeyLoggedIn       = "neon_writers_logged_in"
	KeyCurrentUser    = "neon_writers_current_user"
	KeyLegacyUser     = "neon_writers_user"
	KeyAllUsers       = "neon_writers_all_users"
	KeyLegacyAllUsers = "neon_writers_users"
	KeyPayments       = "neon_writers_payments"
	KeyReceivedEmails = "neon_writers_received_emails"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store is the key-value persistence capability the services depend on.
// Production uses Redis; tests use the in-memory implementation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
