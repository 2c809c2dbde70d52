package inventory

import (
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
)

// BranchService is the authorization gate in front of BranchStore. Every
// operation checks the caller's grants first; the store trusts it.
type BranchService struct {
	store BranchStore
}

func NewBranchService(store BranchStore) *BranchService {
	return &BranchService{store: store}
}

func (s *BranchService) Create(ctx auth.Context, in BranchCreate) (int64, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceBranch, auth.ActionCreate); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, invalid("name", "must not be empty")
	}
	if strings.TrimSpace(in.Code) == "" {
		return 0, invalid("code", "must not be empty")
	}
	id := ids.Next()
	if err := s.store.Create(ctx, id, in); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *BranchService) Update(ctx auth.Context, id int64, in BranchUpdate) error {
	if err := ctx.RequireAccess(&id, auth.ResourceBranch, auth.ActionUpdate); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return s.store.Update(ctx, id, in)
}

func (s *BranchService) Delete(ctx auth.Context, id int64) error {
	if err := ctx.RequireAccess(&id, auth.ResourceBranch, auth.ActionDelete); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *BranchService) Get(ctx auth.Context, id int64) (Branch, error) {
	if err := ctx.RequireAccess(&id, auth.ResourceBranch, auth.ActionRead); err != nil {
		return Branch{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *BranchService) List(ctx auth.Context, page Page) ([]Branch, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceBranch, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, page)
}
