// Package redis implements portalAuth.UserStore on Redis.
//
// Layout, under a configurable prefix (default "portal"):
//
//	<prefix>:account:seq         INCR counter for account IDs
//	<prefix>:account:email       hash email -> id, the uniqueness index
//	<prefix>:account:<id>        hash of account fields
//
// Inserts and updates run as Lua scripts so the index claim and the field
// write are atomic with respect to other clients.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	portalAuth "github.com/leanda/portalAuth"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const (
	saveStatusMissing   int64 = 0
	saveStatusDuplicate int64 = -1
)

// KEYS[1] email index, KEYS[2] id sequence. ARGV[1] email, ARGV[2] account
// key prefix, ARGV[3..] field values. Returns the new id or -1.
const insertScript = `
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
  return -1
end
local id = redis.call("INCR", KEYS[2])
redis.call("HSET", KEYS[1], ARGV[1], id)
redis.call("HSET", ARGV[2] .. id,
  "id", id,
  "email", ARGV[1],
  "full_name", ARGV[3],
  "password_hash", ARGV[4],
  "student_id", ARGV[5],
  "course", ARGV[6],
  "year", ARGV[7],
  "created_at", ARGV[8],
  "updated_at", ARGV[8])
return id
`

// KEYS[1] account key. Returns 1 on update, 0 when the account is gone.
const updateScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1],
  "full_name", ARGV[1],
  "password_hash", ARGV[2],
  "student_id", ARGV[3],
  "course", ARGV[4],
  "year", ARGV[5],
  "updated_at", ARGV[6])
return 1
`

var (
	insertLua = redis.NewScript(insertScript)
	updateLua = redis.NewScript(updateScript)
)

// Store is a Redis-backed user store.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(rdb redis.UniversalClient, opts ...Option) *Store {
	s := &Store{rdb: rdb, prefix: "portal", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) indexKey() string { return s.prefix + ":account:email" }
func (s *Store) seqKey() string   { return s.prefix + ":account:seq" }
func (s *Store) accountPrefix() string {
	return s.prefix + ":account:"
}
func (s *Store) accountKey(id int64) string {
	return s.accountPrefix() + strconv.FormatInt(id, 10)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (portalAuth.Account, error) {
	id, err := s.rdb.HGet(ctx, s.indexKey(), email).Int64()
	if errors.Is(err, redis.Nil) {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(portalAuth.ErrStoreNotFound)
	}
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_LOOKUP_FAILED").With("operation", "read email index").Wrap(err)
	}

	fields, err := s.rdb.HGetAll(ctx, s.accountKey(id)).Result()
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_LOOKUP_FAILED").With("operation", "read account").With("id", id).Wrap(err)
	}
	if len(fields) == 0 {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("id", id).Wrap(portalAuth.ErrStoreNotFound)
	}
	account, err := decodeAccount(fields)
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_CORRUPT").With("id", id).Wrap(err)
	}
	return account, nil
}

// Save inserts when account.ID is zero and updates otherwise.
func (s *Store) Save(ctx context.Context, account portalAuth.Account) (portalAuth.Account, error) {
	now := s.now().UTC().Truncate(time.Microsecond)
	stamp := now.Format(time.RFC3339Nano)

	if account.ID == 0 {
		id, err := insertLua.Run(ctx, s.rdb,
			[]string{s.indexKey(), s.seqKey()},
			account.Email, s.accountPrefix(),
			account.FullName, account.PasswordHash, account.StudentID, account.Course, account.Year, stamp,
		).Int64()
		if err != nil {
			return portalAuth.Account{}, oops.Code("ACCOUNT_SAVE_FAILED").With("operation", "insert").Wrap(err)
		}
		if id == saveStatusDuplicate {
			return portalAuth.Account{}, oops.Code("ACCOUNT_DUPLICATE_EMAIL").With("email", account.Email).Wrap(portalAuth.ErrStoreDuplicateEmail)
		}
		account.ID = id
		account.CreatedAt = now
		account.UpdatedAt = now
		return account, nil
	}

	status, err := updateLua.Run(ctx, s.rdb,
		[]string{s.accountKey(account.ID)},
		account.FullName, account.PasswordHash, account.StudentID, account.Course, account.Year, stamp,
	).Int64()
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_SAVE_FAILED").With("operation", "update").With("id", account.ID).Wrap(err)
	}
	if status == saveStatusMissing {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("id", account.ID).Wrap(portalAuth.ErrStoreNotFound)
	}

	created, err := s.rdb.HGet(ctx, s.accountKey(account.ID), "created_at").Result()
	if err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_SAVE_FAILED").With("operation", "read created_at").Wrap(err)
	}
	if account.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_CORRUPT").With("id", account.ID).Wrap(err)
	}
	account.UpdatedAt = now
	return account, nil
}

func decodeAccount(f map[string]string) (portalAuth.Account, error) {
	var (
		a   portalAuth.Account
		err error
	)
	if a.ID, err = strconv.ParseInt(f["id"], 10, 64); err != nil {
		return a, err
	}
	if a.Year, err = strconv.Atoi(f["year"]); err != nil {
		return a, err
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, f["created_at"]); err != nil {
		return a, err
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339Nano, f["updated_at"]); err != nil {
		return a, err
	}
	a.Email = f["email"]
	a.FullName = f["full_name"]
	a.PasswordHash = f["password_hash"]
	a.StudentID = f["student_id"]
	a.Course = f["course"]
	return a, nil
}
