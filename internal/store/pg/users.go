package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sultan.app/internal/auth"
	"sultan.app/internal/inventory"
)

type UserStore struct{ db *sql.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.db} }

var _ inventory.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, id int64, u inventory.UserCreate, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into users(id, created_at, updated_at, username, password_hash, name, email, address, phone)
		values($1,now(),now(),$2,$3,$4,$5,$6,$7)
	`, id, u.Username, passwordHash, u.Name, u.Email, u.Address, u.Phone)
	if isUniqueViolation(err) {
		return fmt.Errorf("username %q already taken: %w", u.Username, err)
	}
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
		from users where id=$1 and not is_deleted
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
	where := []string{"not is_deleted"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Username != nil {
		add("username=$%d", *f.Username)
	}
	if f.Name != nil {
		add("name ilike $%d", "%"+*f.Name+"%")
	}
	if f.Email != nil {
		add("email=$%d", *f.Email)
	}
	args = append(args, page.Limit(), page.Offset())
	q := fmt.Sprintf(`
		select id, created_at, updated_at, username, name, email, address, phone
		from users where %s
		order by id limit $%d offset $%d
	`, strings.Join(where, " and "), len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, q, args...)
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

func (s *UserStore) SaveGrant(ctx context.Context, g auth.Grant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		delete from user_grants
		where user_id=$1 and resource=$2 and branch_id is not distinct from $3
	`, g.UserID, g.Resource, g.BranchID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		insert into user_grants(user_id, branch_id, resource, action) values($1,$2,$3,$4)
	`, g.UserID, g.BranchID, g.Resource, g.Action); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *UserStore) DeleteGrant(ctx context.Context, userID int64, branchID *int64, resource auth.Resource) error {
	_, err := s.db.ExecContext(ctx, `
		delete from user_grants
		where user_id=$1 and resource=$2 and branch_id is not distinct from $3
	`, userID, resource, branchID)
	return err
}
