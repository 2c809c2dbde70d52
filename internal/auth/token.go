package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenSigner issues and verifies short-lived, stateless access tokens.
// There is no revocation list: a token is valid until its expiry, proven
// solely by signature and expiry check.
type TokenSigner interface {
	Issue(userID int64, ttl time.Duration) (string, error)
	// Verify returns the embedded user ID, ErrTokenExpired for tokens past
	// their expiry, or ErrTokenMalformed for anything else.
	Verify(token string) (int64, error)
}

// JWTSigner signs HS256 JWTs with a process-wide secret. The secret is
// immutable after construction and safe for concurrent use.
type JWTSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// SignerOption configures a JWTSigner.
type SignerOption func(*JWTSigner)

// WithSignerIssuer sets the iss claim.
func WithSignerIssuer(issuer string) SignerOption {
	return func(s *JWTSigner) { s.issuer = strings.TrimSpace(issuer) }
}

// WithSignerClock overrides the time source, for tests.
func WithSignerClock(now func() time.Time) SignerOption {
	return func(s *JWTSigner) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJWTSigner constructs a signer. The secret is required and has no
// default.
func NewJWTSigner(secret []byte, opts ...SignerOption) (*JWTSigner, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is not configured")
	}
	s := &JWTSigner{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *JWTSigner) Issue(userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("auth: ttl must be greater than zero")
	}
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (s *JWTSigner) Verify(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrTokenMalformed
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenMalformed
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return 0, ErrTokenMalformed
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenMalformed
	}
	return userID, nil
}
