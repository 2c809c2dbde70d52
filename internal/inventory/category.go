package inventory

import (
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
)

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) Create(ctx auth.Context, in CategoryCreate) (int64, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceCategory, auth.ActionCreate); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, invalid("name", "must not be empty")
	}
	id := ids.Next()
	if err := s.store.Create(ctx, id, in); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *CategoryService) Update(ctx auth.Context, id int64, in CategoryUpdate) error {
	if err := ctx.RequireAccess(nil, auth.ResourceCategory, auth.ActionUpdate); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return s.store.Update(ctx, id, in)
}

func (s *CategoryService) Delete(ctx auth.Context, id int64) error {
	if err := ctx.RequireAccess(nil, auth.ResourceCategory, auth.ActionDelete); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *CategoryService) Get(ctx auth.Context, id int64) (Category, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceCategory, auth.ActionRead); err != nil {
		return Category{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *CategoryService) List(ctx auth.Context, page Page) ([]Category, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceCategory, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, page)
}
