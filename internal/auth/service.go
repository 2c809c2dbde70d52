package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
)

// TokenPair is one issued session: a short-lived access token and the
// long-lived, single-use refresh token that rotates it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service orchestrates login, refresh-token rotation and logout.
type Service struct {
	users  UserDirectory
	tokens TokenStore
	hasher PasswordHasher
	signer TokenSigner

	now        func() time.Time
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service with optional configuration.
func NewService(users UserDirectory, tokens TokenStore, hasher PasswordHasher, signer TokenSigner, opts ...ServiceOption) (*Service, error) {
	if users == nil || tokens == nil || hasher == nil || signer == nil {
		return nil, errors.New("auth: all service collaborators are required")
	}
	s := &Service{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		signer:     signer,
		now:        time.Now,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// usernames and wrong passwords fail with the identical ErrInvalidCredentials.
func (s *Service) Login(ctx Context, username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}
	cred, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("look up user: %w", err)
	}
	if !s.hasher.Verify(password, cred.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.mintTokens(ctx, cred.UserID)
}

// Refresh rotates the presented refresh token: the old record is consumed
// (deleted) and a brand-new pair is issued for the same user. A token
// presented twice fails the second time because the record no longer exists.
func (s *Service) Refresh(ctx Context, refreshToken string) (TokenPair, error) {
	userID, err := s.tokens.Consume(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return s.mintTokens(ctx, userID)
}

// Logout revokes the refresh token. It succeeds whether or not the token
// existed: either way the token no longer works.
func (s *Service) Logout(ctx Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *Service) mintTokens(ctx Context, userID int64) (TokenPair, error) {
	access, err := s.signer.Issue(userID, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.Issue(ctx, userID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
