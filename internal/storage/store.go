package storage

import (
	"context"
	"time"
)

// SessionStore is the active-session registry: at most one live token per
// user id. Implementations: redis.Client, memory.Client (for -dev and tests,
// registry lost on restart).
type SessionStore interface {
	// PutIfAbsent records user_id -> token unless an entry already exists.
	// Returns false when the user already has a live session. The
	// check-and-insert is atomic, so two concurrent logins for the same
	// user cannot both succeed.
	PutIfAbsent(ctx context.Context, userID, token string, ttl time.Duration) (bool, error)
	// Get returns the current token for the user, or "" when no session.
	Get(ctx context.Context, userID string) (string, error)
	// Delete removes the entry. Deleting an absent key is not an error.
	Delete(ctx context.Context, userID string) error
	Close() error
}
