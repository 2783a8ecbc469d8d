package memory

import (
	"context"
	"sync"
	"time"

	portalAuth "github.com/leanda/portalAuth"
	"github.com/samber/oops"
)

// Store is an in-process portalAuth.UserStore. The zero value is not usable;
// call New.
type Store struct {
	mu      sync.RWMutex
	byEmail map[string]portalAuth.Account
	nextID  int64
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		byEmail: make(map[string]portalAuth.Account),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) FindByEmail(ctx context.Context, email string) (portalAuth.Account, error) {
	if err := ctx.Err(); err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_LOOKUP_FAILED").Wrap(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byEmail[email]
	if !ok {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(portalAuth.ErrStoreNotFound)
	}
	return account, nil
}

// Save inserts when account.ID is zero and updates otherwise. The email check
// and the write happen under one lock, so concurrent inserts of the same email
// yield exactly one success.
func (s *Store) Save(ctx context.Context, account portalAuth.Account) (portalAuth.Account, error) {
	if err := ctx.Err(); err != nil {
		return portalAuth.Account{}, oops.Code("ACCOUNT_SAVE_FAILED").Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	existing, exists := s.byEmail[account.Email]

	if account.ID == 0 {
		if exists {
			return portalAuth.Account{}, oops.Code("ACCOUNT_DUPLICATE_EMAIL").With("email", account.Email).Wrap(portalAuth.ErrStoreDuplicateEmail)
		}
		s.nextID++
		account.ID = s.nextID
		account.CreatedAt = now
		account.UpdatedAt = now
		s.byEmail[account.Email] = account
		return account, nil
	}

	if !exists || existing.ID != account.ID {
		return portalAuth.Account{}, oops.Code("ACCOUNT_NOT_FOUND").With("id", account.ID).Wrap(portalAuth.ErrStoreNotFound)
	}
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = now
	s.byEmail[account.Email] = account
	return account, nil
}

// Len reports the number of stored accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}
