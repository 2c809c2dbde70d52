package inventory

import (
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
)

type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

func (s *ProductService) Create(ctx auth.Context, in ProductCreate) (int64, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceProduct, auth.ActionCreate); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, invalid("name", "must not be empty")
	}
	if in.SellPrice < 0 {
		return 0, invalid("sell_price", "must not be negative")
	}
	id := ids.Next()
	if err := s.store.Create(ctx, id, in); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ProductService) Update(ctx auth.Context, id int64, in ProductUpdate) error {
	if err := ctx.RequireAccess(nil, auth.ResourceProduct, auth.ActionUpdate); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if in.SellPrice != nil && *in.SellPrice < 0 {
		return invalid("sell_price", "must not be negative")
	}
	return s.store.Update(ctx, id, in)
}

func (s *ProductService) Delete(ctx auth.Context, id int64) error {
	if err := ctx.RequireAccess(nil, auth.ResourceProduct, auth.ActionDelete); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *ProductService) Get(ctx auth.Context, id int64) (Product, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceProduct, auth.ActionRead); err != nil {
		return Product{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *ProductService) List(ctx auth.Context, filter ProductFilter, page Page) ([]Product, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceProduct, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, filter, page)
}
