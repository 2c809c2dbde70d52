package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sultan.app/internal/auth"
	"sultan.app/internal/inventory"
)

func setField[T any](c *setClause, col string, f inventory.Field[T]) {
	if !f.Changed() {
		return
	}
	if f.IsClear() {
		c.set(col, nil)
		return
	}
	v, _ := f.Value()
	c.set(col, v)
}

func softUpdate(ctx context.Context, db *sql.DB, table string, c *setClause, id int64) error {
	c.set("updated_at", time.Now().UTC())
	c.args = append(c.args, id)
	q := fmt.Sprintf("update %s set %s where id=$%d and not is_deleted",
		table, strings.Join(c.cols, ", "), len(c.args))
	res, err := db.ExecContext(ctx, q, c.args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func softDelete(ctx context.Context, db *sql.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`
		update %s set is_deleted=true, deleted_at=now(), updated_at=now()
		where id=$1 and not is_deleted
	`, table), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

type BranchStore struct{ db *sql.DB }

func (s *Store) Branches() *BranchStore { return &BranchStore{db: s.db} }

var _ inventory.BranchStore = (*BranchStore)(nil)

func (s *BranchStore) Create(ctx context.Context, id int64, b inventory.BranchCreate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into branches(id, created_at, updated_at, is_main, name, code, address, phone)
		values($1,now(),now(),$2,$3,$4,$5,$6)
	`, id, b.IsMain, b.Name, b.Code, b.Address, b.Phone)
	return err
}

func (s *BranchStore) Update(ctx context.Context, id int64, b inventory.BranchUpdate) error {
	var c setClause
	if b.IsMain != nil {
		c.set("is_main", *b.IsMain)
	}
	if b.Name != nil {
		c.set("name", *b.Name)
	}
	if b.Code != nil {
		c.set("code", *b.Code)
	}
	setField(&c, "address", b.Address)
	setField(&c, "phone", b.Phone)
	return softUpdate(ctx, s.db, "branches", &c, id)
}

func (s *BranchStore) Delete(ctx context.Context, id int64) error {
	return softDelete(ctx, s.db, "branches", id)
}

func (s *BranchStore) Get(ctx context.Context, id int64) (inventory.Branch, error) {
	var b inventory.Branch
	err := s.db.QueryRowContext(ctx, `
		select id, created_at, updated_at, is_main, name, code, address, phone
		from branches where id=$1 and not is_deleted
	`, id).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.IsMain, &b.Name, &b.Code, &b.Address, &b.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Branch{}, auth.ErrNotFound
	}
	if err != nil {
		return inventory.Branch{}, err
	}
	return b, nil
}

func (s *BranchStore) List(ctx context.Context, page inventory.Page) ([]inventory.Branch, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, created_at, updated_at, is_main, name, code, address, phone
		from branches where not is_deleted
		order by id limit $1 offset $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Branch
	for rows.Next() {
		var b inventory.Branch
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.IsMain, &b.Name, &b.Code, &b.Address, &b.Phone); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type CategoryStore struct{ db *sql.DB }

func (s *Store) Categories() *CategoryStore { return &CategoryStore{db: s.db} }

var _ inventory.CategoryStore = (*CategoryStore)(nil)

func (s *CategoryStore) Create(ctx context.Context, id int64, c inventory.CategoryCreate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into categories(id, created_at, updated_at, parent_id, name, description)
		values($1,now(),now(),$2,$3,$4)
	`, id, c.ParentID, c.Name, c.Description)
	return err
}

func (s *CategoryStore) Update(ctx context.Context, id int64, u inventory.CategoryUpdate) error {
	var c setClause
	setField(&c, "parent_id", u.ParentID)
	if u.Name != nil {
		c.set("name", *u.Name)
	}
	setField(&c, "description", u.Description)
	return softUpdate(ctx, s.db, "categories", &c, id)
}

func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	return softDelete(ctx, s.db, "categories", id)
}

func (s *CategoryStore) Get(ctx context.Context, id int64) (inventory.Category, error) {
	var c inventory.Category
	err := s.db.QueryRowContext(ctx, `
		select id, created_at, updated_at, parent_id, name, description
		from categories where id=$1 and not is_deleted
	`, id).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.ParentID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Category{}, auth.ErrNotFound
	}
	if err != nil {
		return inventory.Category{}, err
	}
	return c, nil
}

func (s *CategoryStore) List(ctx context.Context, page inventory.Page) ([]inventory.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, created_at, updated_at, parent_id, name, description
		from categories where not is_deleted
		order by id limit $1 offset $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Category
	for rows.Next() {
		var c inventory.Category
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.ParentID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type SupplierStore struct{ db *sql.DB }

func (s *Store) Suppliers() *SupplierStore { return &SupplierStore{db: s.db} }

var _ inventory.SupplierStore = (*SupplierStore)(nil)

func (s *SupplierStore) Create(ctx context.Context, id int64, v inventory.SupplierCreate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into suppliers(id, created_at, updated_at, name, code, email, address, phone)
		values($1,now(),now(),$2,$3,$4,$5,$6)
	`, id, v.Name, v.Code, v.Email, v.Address, v.Phone)
	return err
}

func (s *SupplierStore) Update(ctx context.Context, id int64, u inventory.SupplierUpdate) error {
	var c setClause
	if u.Name != nil {
		c.set("name", *u.Name)
	}
	setField(&c, "code", u.Code)
	setField(&c, "email", u.Email)
	setField(&c, "address", u.Address)
	setField(&c, "phone", u.Phone)
	return softUpdate(ctx, s.db, "suppliers", &c, id)
}

func (s *SupplierStore) Delete(ctx context.Context, id int64) error {
	return softDelete(ctx, s.db, "suppliers", id)
}

func (s *SupplierStore) Get(ctx context.Context, id int64) (inventory.Supplier, error) {
	var v inventory.Supplier
	err := s.db.QueryRowContext(ctx, `
		select id, created_at, updated_at, name, code, email, address, phone
		from suppliers where id=$1 and not is_deleted
	`, id).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Name, &v.Code, &v.Email, &v.Address, &v.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Supplier{}, auth.ErrNotFound
	}
	if err != nil {
		return inventory.Supplier{}, err
	}
	return v, nil
}

func (s *SupplierStore) List(ctx context.Context, f inventory.SupplierFilter, page inventory.Page) ([]inventory.Supplier, error) {
	where := []string{"not is_deleted"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != nil {
		add("name ilike $%d", "%"+*f.Name+"%")
	}
	if f.Code != nil {
		add("code=$%d", *f.Code)
	}
	if f.Phone != nil {
		add("phone=$%d", *f.Phone)
	}
	if f.Email != nil {
		add("email=$%d", *f.Email)
	}
	args = append(args, page.Limit(), page.Offset())
	q := fmt.Sprintf(`
		select id, created_at, updated_at, name, code, email, address, phone
		from suppliers where %s
		order by id limit $%d offset $%d
	`, strings.Join(where, " and "), len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Supplier
	for rows.Next() {
		var v inventory.Supplier
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Name, &v.Code, &v.Email, &v.Address, &v.Phone); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type CustomerStore struct{ db *sql.DB }

func (s *Store) Customers() *CustomerStore { return &CustomerStore{db: s.db} }

var _ inventory.CustomerStore = (*CustomerStore)(nil)

func (s *CustomerStore) Create(ctx context.Context, id int64, v inventory.CustomerCreate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into customers(id, created_at, updated_at, number, name, address, email, phone, level)
		values($1,now(),now(),$2,$3,$4,$5,$6,$7)
	`, id, v.Number, v.Name, v.Address, v.Email, v.Phone, v.Level)
	return err
}

func (s *CustomerStore) Update(ctx context.Context, id int64, u inventory.CustomerUpdate) error {
	var c setClause
	if u.Number != nil {
		c.set("number", *u.Number)
	}
	if u.Name != nil {
		c.set("name", *u.Name)
	}
	setField(&c, "address", u.Address)
	setField(&c, "email", u.Email)
	setField(&c, "phone", u.Phone)
	if u.Level != nil {
		c.set("level", *u.Level)
	}
	return softUpdate(ctx, s.db, "customers", &c, id)
}

func (s *CustomerStore) Delete(ctx context.Context, id int64) error {
	return softDelete(ctx, s.db, "customers", id)
}

func (s *CustomerStore) Get(ctx context.Context, id int64) (inventory.Customer, error) {
	var v inventory.Customer
	err := s.db.QueryRowContext(ctx, `
		select id, created_at, updated_at, number, name, address, email, phone, level
		from customers where id=$1 and not is_deleted
	`, id).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Number, &v.Name, &v.Address, &v.Email, &v.Phone, &v.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Customer{}, auth.ErrNotFound
	}
	if err != nil {
		return inventory.Customer{}, err
	}
	return v, nil
}

func (s *CustomerStore) List(ctx context.Context, f inventory.CustomerFilter, page inventory.Page) ([]inventory.Customer, error) {
	where := []string{"not is_deleted"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Number != nil {
		add("number=$%d", *f.Number)
	}
	if f.Name != nil {
		add("name ilike $%d", "%"+*f.Name+"%")
	}
	if f.Phone != nil {
		add("phone=$%d", *f.Phone)
	}
	if f.Email != nil {
		add("email=$%d", *f.Email)
	}
	if f.Level != nil {
		add("level=$%d", *f.Level)
	}
	args = append(args, page.Limit(), page.Offset())
	q := fmt.Sprintf(`
		select id, created_at, updated_at, number, name, address, email, phone, level
		from customers where %s
		order by id limit $%d offset $%d
	`, strings.Join(where, " and "), len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Customer
	for rows.Next() {
		var v inventory.Customer
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Number, &v.Name, &v.Address, &v.Email, &v.Phone, &v.Level); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type ProductStore struct{ db *sql.DB }

func (s *Store) Products() *ProductStore { return &ProductStore{db: s.db} }

var _ inventory.ProductStore = (*ProductStore)(nil)

func (s *ProductStore) Create(ctx context.Context, id int64, v inventory.ProductCreate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into products(id, created_at, updated_at, name, description, barcode, category_id, sell_price)
		values($1,now(),now(),$2,$3,$4,$5,$6)
	`, id, v.Name, v.Description, v.Barcode, v.CategoryID, v.SellPrice)
	return err
}

func (s *ProductStore) Update(ctx context.Context, id int64, u inventory.ProductUpdate) error {
	var c setClause
	if u.Name != nil {
		c.set("name", *u.Name)
	}
	setField(&c, "description", u.Description)
	setField(&c, "barcode", u.Barcode)
	setField(&c, "category_id", u.CategoryID)
	if u.SellPrice != nil {
		c.set("sell_price", *u.SellPrice)
	}
	return softUpdate(ctx, s.db, "products", &c, id)
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	return softDelete(ctx, s.db, "products", id)
}

func (s *ProductStore) Get(ctx context.Context, id int64) (inventory.Product, error) {
	var v inventory.Product
	err := s.db.QueryRowContext(ctx, `
		select id, created_at, updated_at, name, description, barcode, category_id, sell_price
		from products where id=$1 and not is_deleted
	`, id).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Name, &v.Description, &v.Barcode, &v.CategoryID, &v.SellPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Product{}, auth.ErrNotFound
	}
	if err != nil {
		return inventory.Product{}, err
	}
	return v, nil
}

func (s *ProductStore) List(ctx context.Context, f inventory.ProductFilter, page inventory.Page) ([]inventory.Product, error) {
	where := []string{"not is_deleted"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != nil {
		add("name ilike $%d", "%"+*f.Name+"%")
	}
	if f.Barcode != nil {
		add("barcode=$%d", *f.Barcode)
	}
	if f.CategoryID != nil {
		add("category_id=$%d", *f.CategoryID)
	}
	args = append(args, page.Limit(), page.Offset())
	q := fmt.Sprintf(`
		select id, created_at, updated_at, name, description, barcode, category_id, sell_price
		from products where %s
		order by id limit $%d offset $%d
	`, strings.Join(where, " and "), len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Product
	for rows.Next() {
		var v inventory.Product
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.Name, &v.Description, &v.Barcode, &v.CategoryID, &v.SellPrice); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
