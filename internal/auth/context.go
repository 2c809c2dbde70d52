package auth

import "context"

// Context is the per-request carrier of identity, permissions and
// cancellation. It is constructed once at the request boundary (or per test
// case) and passed explicitly into every business operation; no other channel
// exists for "who is acting" or "may they do this".
//
// Cancellation rides on the embedded context.Context, so storage calls
// observe client disconnects and shutdown simply by receiving the Context.
type Context struct {
	context.Context

	userID  int64
	hasUser bool
	perms   PermissionSet
}

// NewContext returns an anonymous context with no identity and no grants.
func NewContext(ctx context.Context) Context {
	return Context{Context: ctx}
}

// NewUserContext returns a context acting as the given user with the given
// permission set.
func NewUserContext(ctx context.Context, userID int64, perms PermissionSet) Context {
	return Context{Context: ctx, userID: userID, hasUser: true, perms: perms}
}

// UserID returns the acting user's ID, or false for anonymous contexts.
func (c Context) UserID() (int64, bool) {
	return c.userID, c.hasUser
}

// RequireUser returns the acting user's ID or ErrUnauthorized.
func (c Context) RequireUser() (int64, error) {
	if !c.hasUser {
		return 0, ErrUnauthorized
	}
	return c.userID, nil
}

// Permissions returns the context's permission set.
func (c Context) Permissions() PermissionSet { return c.perms }

// HasAccess reports whether the acting user may perform action on resource,
// optionally scoped to a branch.
func (c Context) HasAccess(branchID *int64, resource Resource, action Action) bool {
	return c.perms.Has(branchID, resource, action)
}

// RequireAccess is the single enforcement point business operations call
// before touching storage. Storage code must trust it and never re-check.
func (c Context) RequireAccess(branchID *int64, resource Resource, action Action) error {
	if c.HasAccess(branchID, resource, action) {
		return nil
	}
	return &ForbiddenError{Resource: resource, Action: action, BranchID: branchID}
}

// WithCancel derives a child context sharing the same identity and
// permissions with its own cancellation. Cancelling the child does not
// affect the parent.
func (c Context) WithCancel() (Context, context.CancelFunc) {
	child, cancel := context.WithCancel(c.Context)
	return Context{Context: child, userID: c.userID, hasUser: c.hasUser, perms: c.perms}, cancel
}
