package inventory

import (
	"context"

	"sultan.app/internal/auth"
)

// Stores persist entities and nothing more: authorization happens in the
// services before any of these methods run. Lookups of absent or soft-deleted
// rows return auth.ErrNotFound.

type BranchStore interface {
	Create(ctx context.Context, id int64, b BranchCreate) error
	Update(ctx context.Context, id int64, b BranchUpdate) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Branch, error)
	List(ctx context.Context, page Page) ([]Branch, error)
}

type CategoryStore interface {
	Create(ctx context.Context, id int64, c CategoryCreate) error
	Update(ctx context.Context, id int64, c CategoryUpdate) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Category, error)
	List(ctx context.Context, page Page) ([]Category, error)
}

type SupplierStore interface {
	Create(ctx context.Context, id int64, s SupplierCreate) error
	Update(ctx context.Context, id int64, s SupplierUpdate) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Supplier, error)
	List(ctx context.Context, filter SupplierFilter, page Page) ([]Supplier, error)
}

type CustomerStore interface {
	Create(ctx context.Context, id int64, c CustomerCreate) error
	Update(ctx context.Context, id int64, c CustomerUpdate) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Customer, error)
	List(ctx context.Context, filter CustomerFilter, page Page) ([]Customer, error)
}

type ProductStore interface {
	Create(ctx context.Context, id int64, p ProductCreate) error
	Update(ctx context.Context, id int64, p ProductUpdate) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, filter ProductFilter, page Page) ([]Product, error)
}

type UserStore interface {
	// Create persists the user with the already-hashed password; plaintext
	// never reaches storage.
	Create(ctx context.Context, id int64, u UserCreate, passwordHash string) error
	Update(ctx context.Context, id int64, u UserUpdate) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]User, error)

	SaveGrant(ctx context.Context, g auth.Grant) error
	DeleteGrant(ctx context.Context, userID int64, branchID *int64, resource auth.Resource) error
}
