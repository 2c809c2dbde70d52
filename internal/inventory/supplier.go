package inventory

import (
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
)

type SupplierService struct {
	store SupplierStore
}

func NewSupplierService(store SupplierStore) *SupplierService {
	return &SupplierService{store: store}
}

func (s *SupplierService) Create(ctx auth.Context, in SupplierCreate) (int64, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceSupplier, auth.ActionCreate); err != nil {
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

func (s *SupplierService) Update(ctx auth.Context, id int64, in SupplierUpdate) error {
	if err := ctx.RequireAccess(nil, auth.ResourceSupplier, auth.ActionUpdate); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return s.store.Update(ctx, id, in)
}

func (s *SupplierService) Delete(ctx auth.Context, id int64) error {
	if err := ctx.RequireAccess(nil, auth.ResourceSupplier, auth.ActionDelete); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *SupplierService) Get(ctx auth.Context, id int64) (Supplier, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceSupplier, auth.ActionRead); err != nil {
		return Supplier{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *SupplierService) List(ctx auth.Context, filter SupplierFilter, page Page) ([]Supplier, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceSupplier, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, filter, page)
}
