package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"sultan.app/internal/auth"
	"sultan.app/internal/inventory"
)

type UserStore struct{ db *sql.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.db} }

var _ inventory.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, id int64, u inventory.UserCreate, passwordHash string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		insert into users(id, created_at, updated_at, username, password_hash, name, email, address, phone)
		values(?,?,?,?,?,?,?,?,?)
	`, id, now, now, u.Username, passwordHash, u.Name, u.Email, u.Address, u.Phone)
	return err
}

func (s *UserStore) Update(ctx context.Context, id int64, u inventory.UserUpdate) error {
	var c setClause
	if u.Username != nil {
		c.set("username", *u.Username)
	}
	if u.Name != nil {
		c.set("name", *u.Name)
	}
	setField(&c, "email", u.Email)
	setField(&c, "address", u.Address)
	setField(&c, "phone", u.Phone)
	return softUpdate(ctx, s.db, "users", &c, id)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	var c setClause
	c.set("password_hash", passwordHash)
	return softUpdate(ctx, s.db, "users", &c, id)
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	return softDelete(ctx, s.db, "users", id)
}

func (s *UserStore) Get(ctx context.Context, id int64) (inventory.User, error) {
	var u inventory.User
	err := s.db.QueryRowContext(ctx, `
		select id, created_at, updated_at, username, name, email, address, phone
		from users where id=? and is_deleted=0
	`, id).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Name, &u.Email, &u.Address, &u.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.User{}, auth.ErrNotFound
	}
	if err != nil {
		return inventory.User{}, err
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context, f inventory.UserFilter, page inventory.Page) ([]inventory.User, error) {
	where := []string{"is_deleted=0"}
	var args []any
	if f.Username != nil {
		where = append(where, "username=?")
		args = append(args, *f.Username)
	}
	if f.Name != nil {
		where = append(where, "name like ?")
		args = append(args, "%"+*f.Name+"%")
	}
	if f.Email != nil {
		where = append(where, "email=?")
		args = append(args, *f.Email)
	}
	args = append(args, page.Limit(), page.Offset())
	rows, err := s.db.QueryContext(ctx, `
		select id, created_at, updated_at, username, name, email, address, phone
		from users where `+strings.Join(where, " and ")+`
		order by id limit ? offset ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.User
	for rows.Next() {
		var u inventory.User
		if err := rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Name, &u.Email, &u.Address, &u.Phone); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SaveGrant replaces any existing grant for the same (user, resource, branch)
// triple. The delete uses IS so a nil branch matches the stored NULL.
func (s *UserStore) SaveGrant(ctx context.Context, g auth.Grant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		delete from user_grants where user_id=? and resource=? and branch_id is ?
	`, g.UserID, g.Resource, g.BranchID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		insert into user_grants(user_id, branch_id, resource, action) values(?,?,?,?)
	`, g.UserID, g.BranchID, g.Resource, g.Action); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *UserStore) DeleteGrant(ctx context.Context, userID int64, branchID *int64, resource auth.Resource) error {
	_, err := s.db.ExecContext(ctx, `
		delete from user_grants where user_id=? and resource=? and branch_id is ?
	`, userID, resource, branchID)
	return err
}
