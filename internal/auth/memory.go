package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is an in-process TokenStore used by tests and by the API
// when no database is configured. Records are keyed by token digest; all
// operations are atomic under one mutex.
type MemoryTokenStore struct {
	mu      sync.Mutex
	now     func() time.Time
	records map[string]memoryToken
}

type memoryToken struct {
	userID    int64
	expiresAt time.Time
}

// NewMemoryTokenStore constructs an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{now: time.Now, records: make(map[string]memoryToken)}
}

// SetClock overrides the time source, for tests.
func (m *MemoryTokenStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now != nil {
		m.now = now
	}
}

func (m *MemoryTokenStore) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token, digest, err := GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[digest]; exists {
		return "", ErrInternal
	}
	m.records[digest] = memoryToken{userID: userID, expiresAt: m.now().Add(ttl)}
	return token, nil
}

func (m *MemoryTokenStore) Consume(ctx context.Context, token string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	digest := HashRefreshToken(token)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[digest]
	if !ok {
		return 0, ErrInvalidToken
	}
	delete(m.records, digest)
	if m.now().After(rec.expiresAt) {
		return 0, ErrInvalidToken
	}
	return rec.userID, nil
}

func (m *MemoryTokenStore) Revoke(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, HashRefreshToken(token))
	return nil
}

func (m *MemoryTokenStore) RevokeAll(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for digest, rec := range m.records {
		if rec.userID == userID {
			delete(m.records, digest)
		}
	}
	return nil
}

// Len reports the number of live records.
func (m *MemoryTokenStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// MemoryDirectory is an in-process UserDirectory and GrantSource for tests.
type MemoryDirectory struct {
	mu     sync.Mutex
	users  map[string]Credential
	grants map[int64][]Grant
}

// NewMemoryDirectory constructs an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		users:  make(map[string]Credential),
		grants: make(map[int64][]Grant),
	}
}

// AddUser registers a credential under the username.
func (m *MemoryDirectory) AddUser(username string, cred Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = cred
}

// AddGrant records a grant for later GrantsForUser calls.
func (m *MemoryDirectory) AddGrant(g Grant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[g.UserID] = append(m.grants[g.UserID], g)
}

func (m *MemoryDirectory) FindByUsername(ctx context.Context, username string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.users[username]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return cred, nil
}

func (m *MemoryDirectory) GrantsForUser(ctx context.Context, userID int64) ([]Grant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Grant, len(m.grants[userID]))
	copy(out, m.grants[userID])
	return out, nil
}
