// Package pg is the Postgres storage backend, interface-compatible with the
// sqlite one so deployments can choose per environment.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"sultan.app/internal/auth"
)

type Store struct {
	db *sql.DB
}

var (
	_ auth.UserDirectory = (*Store)(nil)
	_ auth.GrantSource   = (*Store)(nil)
	_ auth.TokenStore    = (*Store)(nil)
)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return New(db), nil
}

// New wraps an existing pool, used by tests to inject a mock.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) FindByUsername(ctx context.Context, username string) (auth.Credential, error) {
	var cred auth.Credential
	err := s.db.QueryRowContext(ctx, `
		select id, password_hash from users where username=$1 and not is_deleted
	`, username).Scan(&cred.UserID, &cred.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Credential{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Credential{}, err
	}
	return cred, nil
}

func (s *Store) GrantsForUser(ctx context.Context, userID int64) ([]auth.Grant, error) {
	rows, err := s.db.QueryContext(ctx, `
		select resource, action, branch_id from user_grants where user_id=$1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []auth.Grant
	for rows.Next() {
		g := auth.Grant{UserID: userID}
		var branch sql.NullInt64
		if err := rows.Scan(&g.Resource, &g.Action, &branch); err != nil {
			return nil, err
		}
		if branch.Valid {
			g.BranchID = &branch.Int64
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (s *Store) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token, digest, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	// expires_at comes from the database clock, the same source Consume
	// compares against, so app/db skew cannot stretch the TTL.
	_, err = s.db.ExecContext(ctx, `
		insert into refresh_tokens(token_hash, user_id, expires_at)
		values($1,$2, now() + make_interval(secs => $3))
	`, digest, userID, ttl.Seconds())
	if err != nil {
		if isUniqueViolation(err) {
			return "", auth.ErrInternal
		}
		return "", err
	}
	return token, nil
}

func (s *Store) Consume(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx, `
		delete from refresh_tokens
		where token_hash=$1 and expires_at > now()
		returning user_id
	`, auth.HashRefreshToken(token)).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, auth.ErrInvalidToken
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *Store) Revoke(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		delete from refresh_tokens where token_hash=$1
	`, auth.HashRefreshToken(token))
	return err
}

func (s *Store) RevokeAll(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		delete from refresh_tokens where user_id=$1
	`, userID)
	return err
}

// setClause accumulates numbered-placeholder columns for a dynamic update.
type setClause struct {
	cols []string
	args []any
}

func (c *setClause) set(col string, v any) {
	c.args = append(c.args, v)
	c.cols = append(c.cols, fmt.Sprintf("%s=$%d", col, len(c.args)))
}
