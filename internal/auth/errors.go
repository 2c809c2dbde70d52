package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")

	// ErrInvalidToken covers unknown, expired and already-consumed refresh
	// tokens without distinguishing the reason.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired indicates an access token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrTokenMalformed indicates an access token whose structure or
	// signature failed validation.
	ErrTokenMalformed = errors.New("auth: token malformed")

	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrNotFound     = errors.New("auth: not found")
	ErrInternal     = errors.New("auth: internal error")
)

// ForbiddenError is returned by RequireAccess when the acting user holds no
// sufficient grant. Resource, action and branch are kept for logs; outward
// responses must reduce this to a generic message.
type ForbiddenError struct {
	Resource Resource
	Action   Action
	BranchID *int64
}

func (e *ForbiddenError) Error() string {
	if e.BranchID != nil {
		return fmt.Sprintf("auth: access denied for resource %d action %d branch %d", e.Resource, e.Action, *e.BranchID)
	}
	return fmt.Sprintf("auth: access denied for resource %d action %d", e.Resource, e.Action)
}
