// Package postgres implements portalAuth.UserStore on PostgreSQL through a
// pgx connection pool. Email uniqueness is enforced by the users_email_key
// constraint; a violation surfaces as portalAuth.ErrStoreDuplicateEmail.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	portalAuth "github.com/leanda/portalAuth"
	"github.com/samber/oops"
)

// poolIface is the subset of *pgxpool.Pool the store uses. pgxmock pools
// satisfy it in tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store is a PostgreSQL-backed user store.
type Store struct {
	pool poolIface
}

// Open connects a pool to databaseURL and verifies it with a ping.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}
	return &Store{pool: pool}, nil
}

// New wraps an existing pool.
func New(pool poolIface) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const selectByEmail = `SELECT id, email, full_name, password_hash, student_id, course, year, created_at, updated_at
FROM users WHERE email = $1`

const insertUser = `INSERT INTO users (email, full_name, password_hash, student_id, course, year)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

const updateUser = `UPDATE users SET full_name = $2, password_hash = $3, student_id = $4, course = $5, year = $6, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`

func (s *Store) FindByEmail(ctx context.Context, email string) (portalAuth.Account, error) {
	var a portalAuth.Account
	err := s.pool.QueryRow(ctx, selectByEmail, email).Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash,
		&a.StudentID, &a.Course, &a.Year, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(portalAuth.ErrStoreNotFound)
	}
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_LOOKUP_FAILED").With("operation", "find by email").Wrap(err)
	}
	return a, nil
}

// Save inserts when account.ID is zero and updates otherwise. The database
// assigns id and both timestamps.
func (s *Store) Save(ctx context.Context, account portalAuth.Account) (portalAuth.Account, error) {
	if account.ID == 0 {
		return s.insert(ctx, account)
	}
	return s.update(ctx, account)
}

func (s *Store) insert(ctx context.Context, a portalAuth.Account) (portalAuth.Account, error) {
	err := s.pool.QueryRow(ctx, insertUser,
		a.Email, a.FullName, a.PasswordHash, a.StudentID, a.Course, a.Year,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return portalAuth.Account{}, oops.Code("ACCOUNT_DUPLICATE_EMAIL").With("email", a.Email).Wrap(errors.Join(portalAuth.ErrStoreDuplicateEmail, err))
		}
		return portalAuth.Account{}, oops.Code("ACCOUNT_SAVE_FAILED").With("operation", "insert").Wrap(err)
	}
	return a, nil
}

func (s *Store) update(ctx context.Context, a portalAuth.Account) (portalAuth.Account, error) {
	err := s.pool.QueryRow(ctx, updateUser,
		a.ID, a.FullName, a.PasswordHash, a.StudentID, a.Course, a.Year,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("id", a.ID).Wrap(portalAuth.ErrStoreNotFound)
	}
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_SAVE_FAILED").With("operation", "update").With("id", a.ID).Wrap(err)
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
