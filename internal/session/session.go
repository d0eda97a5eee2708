// Package session implements the TTL-keyed opaque session-token store
// consumed by the auth and trading services (spec §4.6).
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

// KeyPrefix is prepended to the opaque token when the token is used as a
// storage key, per spec §6 ("auth_session:" + token).
const KeyPrefix = "auth_session:"

// Session is a server-side record keyed by an opaque token bound to the
// client via an HTTP-only cookie.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Store is the session-store capability: issue, get, revoke. get is the
// sole authority for liveness — callers never check ExpiresAt themselves.
type Store interface {
	Issue(ctx context.Context, userID string, ttl time.Duration) (Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
}

// NewToken generates a cryptographically random opaque token with at
// least 128 bits of entropy (spec §3), never derived from user data.
func NewToken() (string, error) {
	b := make([]byte, 32) // 256 bits
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
