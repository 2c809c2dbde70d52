package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Credential is the subset of a user record the login flow needs.
type Credential struct {
	UserID       int64
	PasswordHash string
}

// UserDirectory resolves login names to stored credentials. Implementations
// return ErrNotFound for unknown usernames.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (Credential, error)
}

// GrantSource loads a user's persisted grants, queried once per request at
// the authentication boundary to build the PermissionSet.
type GrantSource interface {
	GrantsForUser(ctx context.Context, userID int64) ([]Grant, error)
}

// TokenStore is the persistent record of issued refresh tokens. All three
// mutations are independently atomic; the store never holds a multi-step
// transaction open.
type TokenStore interface {
	// Issue generates an opaque random token, persists its digest with the
	// user and expiry, and returns the token. A digest collision surfaces as
	// ErrInternal, never an overwrite.
	Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error)

	// Consume atomically looks up and deletes the unexpired record for the
	// token, returning its user ID. Unknown, expired and already-consumed
	// tokens all fail with ErrInvalidToken; concurrent calls on the same
	// token yield exactly one success.
	Consume(ctx context.Context, token string) (int64, error)

	// Revoke deletes one record if present. Revoking an absent token is not
	// an error.
	Revoke(ctx context.Context, token string) error

	// RevokeAll deletes every refresh token for the user, ending all of
	// their sessions.
	RevokeAll(ctx context.Context, userID int64) error
}

// GenerateRefreshToken returns a fresh opaque token (256 bits of entropy,
// hex-encoded) together with the digest under which stores persist it.
func GenerateRefreshToken() (token, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, HashRefreshToken(token), nil
}

// HashRefreshToken returns the digest stores key refresh tokens by. Only the
// digest is persisted, so a leaked table does not leak usable tokens.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
