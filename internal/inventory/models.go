package inventory

import "time"

// Branch is a physical location of the business. Exactly one branch should be
// marked as main; the application treats it as the default scope.
type Branch struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsMain    bool      `json:"is_main"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
}

type BranchCreate struct {
	IsMain  bool    `json:"is_main"`
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type BranchUpdate struct {
	IsMain  *bool         `json:"is_main"`
	Name    *string       `json:"name"`
	Code    *string       `json:"code"`
	Address Field[string] `json:"address"`
	Phone   Field[string] `json:"phone"`
}

// Category organizes products into a tree via ParentID.
type Category struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ParentID    *int64    `json:"parent_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

type CategoryCreate struct {
	ParentID    *int64  `json:"parent_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CategoryUpdate struct {
	ParentID    Field[int64]  `json:"parent_id"`
	Name        *string       `json:"name"`
	Description Field[string] `json:"description"`
}

type Supplier struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Code      *string   `json:"code"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
}

type SupplierCreate struct {
	Name    string  `json:"name"`
	Code    *string `json:"code"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type SupplierUpdate struct {
	Name    *string       `json:"name"`
	Code    Field[string] `json:"code"`
	Email   Field[string] `json:"email"`
	Address Field[string] `json:"address"`
	Phone   Field[string] `json:"phone"`
}

type SupplierFilter struct {
	Name  *string
	Code  *string
	Phone *string
	Email *string
}

// Customer carries a business-assigned Number distinct from the internal ID,
// and a loyalty Level.
type Customer struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Level     int32     `json:"level"`
}

type CustomerCreate struct {
	Number  string  `json:"number"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Level   int32   `json:"level"`
}

type CustomerUpdate struct {
	Number  *string       `json:"number"`
	Name    *string       `json:"name"`
	Address Field[string] `json:"address"`
	Email   Field[string] `json:"email"`
	Phone   Field[string] `json:"phone"`
	Level   *int32        `json:"level"`
}

type CustomerFilter struct {
	Number *string
	Name   *string
	Phone  *string
	Email  *string
	Level  *int32
}

// Product prices are stored in minor currency units.
type Product struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Barcode     *string   `json:"barcode"`
	CategoryID  *int64    `json:"category_id"`
	SellPrice   int64     `json:"sell_price"`
}

type ProductCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Barcode     *string `json:"barcode"`
	CategoryID  *int64  `json:"category_id"`
	SellPrice   int64   `json:"sell_price"`
}

type ProductUpdate struct {
	Name        *string       `json:"name"`
	Description Field[string] `json:"description"`
	Barcode     Field[string] `json:"barcode"`
	CategoryID  Field[int64]  `json:"category_id"`
	SellPrice   *int64        `json:"sell_price"`
}

type ProductFilter struct {
	Name       *string
	Barcode    *string
	CategoryID *int64
}

// User never carries the password hash; stores keep it internal to the login
// path.
type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
}

type UserCreate struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

type UserUpdate struct {
	Username *string       `json:"username"`
	Name     *string       `json:"name"`
	Email    Field[string] `json:"email"`
	Address  Field[string] `json:"address"`
	Phone    Field[string] `json:"phone"`
}

type UserFilter struct {
	Username *string
	Name     *string
	Email    *string
}
