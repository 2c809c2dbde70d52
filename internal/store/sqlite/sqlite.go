// Package sqlite is the embedded storage backend. One Store multiplexes the
// credential, grant, token and entity repositories over a single pool.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"sultan.app/internal/auth"
)

const busyTimeout = 5 * time.Second

type Store struct {
	db *sql.DB
}

var (
	_ auth.UserDirectory = (*Store)(nil)
	_ auth.GrantSource   = (*Store)(nil)
	_ auth.TokenStore    = (*Store)(nil)
)

// Open creates the database file if needed and applies the pragmas the
// service relies on: WAL for concurrent readers, a busy timeout instead of
// immediate lock errors, and enforced foreign keys.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids lock churn.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) FindByUsername(ctx context.Context, username string) (auth.Credential, error) {
	var cred auth.Credential
	err := s.db.QueryRowContext(ctx, `
		select id, password_hash from users where username=? and is_deleted=0
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
		select resource, action, branch_id from user_grants where user_id=?
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
	expires := time.Now().UTC().Add(ttl)
	_, err = s.db.ExecContext(ctx, `
		insert into refresh_tokens(token_hash, user_id, expires_at) values(?,?,?)
	`, digest, userID, expires)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
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
		where token_hash=? and expires_at > ?
		returning user_id
	`, auth.HashRefreshToken(token), time.Now().UTC()).Scan(&userID)
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
		delete from refresh_tokens where token_hash=?
	`, auth.HashRefreshToken(token))
	return err
}

func (s *Store) RevokeAll(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		delete from refresh_tokens where user_id=?
	`, userID)
	return err
}

// setClause accumulates columns for a dynamic update statement.
type setClause struct {
	cols []string
	args []any
}

func (c *setClause) set(col string, v any) {
	c.cols = append(c.cols, col+"=?")
	c.args = append(c.args, v)
}
