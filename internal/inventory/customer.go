package inventory

import (
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/ids"
)

type CustomerService struct {
	store CustomerStore
}

func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) Create(ctx auth.Context, in CustomerCreate) (int64, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceCustomer, auth.ActionCreate); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Number) == "" {
		return 0, invalid("number", "must not be empty")
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

func (s *CustomerService) Update(ctx auth.Context, id int64, in CustomerUpdate) error {
	if err := ctx.RequireAccess(nil, auth.ResourceCustomer, auth.ActionUpdate); err != nil {
		return err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return s.store.Update(ctx, id, in)
}

func (s *CustomerService) Delete(ctx auth.Context, id int64) error {
	if err := ctx.RequireAccess(nil, auth.ResourceCustomer, auth.ActionDelete); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *CustomerService) Get(ctx auth.Context, id int64) (Customer, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceCustomer, auth.ActionRead); err != nil {
		return Customer{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *CustomerService) List(ctx auth.Context, filter CustomerFilter, page Page) ([]Customer, error) {
	if err := ctx.RequireAccess(nil, auth.ResourceCustomer, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, filter, page)
}
