package inventory

import (
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
)

const minPasswordLen = 8

// UserService manages accounts and their grants. Password plaintext is hashed
// here and credential-affecting changes end every open session for the user.
type UserService struct {
	store  UserStore
	hasher auth.PasswordHasher
	tokens auth.TokenStore
}

func NewUserService(store UserStore, hasher auth.PasswordHasher, tokens auth.TokenStore) *UserService {
	return &UserService{store: store, hasher: hasher, tokens: tokens}
}

func (s *UserService) Create(ctx auth.Context, in UserCreate) (int64, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceUser, auth.ActionCreate); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Username) == "" {
		return 0, invalid("username", "must not be empty")
	}
	if len(in.Password) < minPasswordLen {
		return 0, invalid("password", "must be at least 8 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, invalid("name", "must not be empty")
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, err
	}
	in.Password = ""
	id := ids.Next()
	if err := s.store.Create(ctx, id, in, hash); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *UserService) Update(ctx auth.Context, id int64, in UserUpdate) error {
	if err := ctx.RequireAccess(nil, auth.ResourceUser, auth.ActionUpdate); err != nil {
		return err
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		return invalid("username", "must not be empty")
	}
	return s.store.Update(ctx, id, in)
}

// ResetPassword replaces the stored hash and revokes every refresh token the
// user holds, so stolen sessions do not survive a credential change.
func (s *UserService) ResetPassword(ctx auth.Context, id int64, newPassword string) error {
	if err := ctx.RequireAccess(nil, auth.ResourceUser, auth.ActionUpdate); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLen {
		return invalid("password", "must be at least 8 characters")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, id)
}

// Delete soft-deletes the account and revokes its refresh tokens.
func (s *UserService) Delete(ctx auth.Context, id int64) error {
	if err := ctx.RequireAccess(nil, auth.ResourceUser, auth.ActionDelete); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, id)
}

func (s *UserService) Get(ctx auth.Context, id int64) (User, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceUser, auth.ActionRead); err != nil {
		return User{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *UserService) List(ctx auth.Context, filter UserFilter, page Page) ([]User, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceUser, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, filter, page)
}

// SaveGrant upserts one (resource, branch) grant for a user. Changing grants
// is an administrative act and requires an admin-level update grant itself.
func (s *UserService) SaveGrant(ctx auth.Context, g auth.Grant) error {
	if err := ctx.RequireAccess(g.BranchID, auth.ResourceAdmin, auth.ActionUpdate); err != nil {
		return err
	}
	if g.Resource < auth.ResourceSuperAdmin || g.Resource > auth.ResourceProduct {
		return invalid("resource", "unknown resource code")
	}
	if g.Action&^auth.ActionAll != 0 || g.Action == 0 {
		return invalid("action", "unknown action bits")
	}
	return s.store.SaveGrant(ctx, g)
}

func (s *UserService) DeleteGrant(ctx auth.Context, userID int64, branchID *int64, resource auth.Resource) error {
	if err := ctx.RequireAccess(branchID, auth.ResourceAdmin, auth.ActionUpdate); err != nil {
		return err
	}
	return s.store.DeleteGrant(ctx, userID, branchID, resource)
}
