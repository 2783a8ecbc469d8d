package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	portalAuth "github.com/leanda/portalAuth"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "miniredis start")
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return New(rdb, opts...), mr
}

func TestStoreInsertFindUpdate(t *testing.T) {
	clock := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	s, mr := newTestStore(t, WithPrefix("t"), WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	saved, err := s.Save(ctx, portalAuth.Account{
		Email: "a@x.com", FullName: "Ada", PasswordHash: "hash", StudentID: "S-1", Course: "CS", Year: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.True(t, mr.Exists("t:account:1"))
	assert.Equal(t, "1", mr.HGet("t:account:email", "a@x.com"))

	found, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, saved, found)

	clock = clock.Add(time.Hour)
	updated, err := s.Save(ctx, found.WithFullName("Ada L").WithYear(3))
	require.NoError(t, err)
	assert.Equal(t, clock, updated.UpdatedAt)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)

	again, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada L", again.FullName)
	assert.Equal(t, 3, again.Year)
	assert.Equal(t, "hash", again.PasswordHash)
}

func TestStoreDuplicateAndMissing(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, portalAuth.ErrStoreNotFound)

	_, err = s.Save(ctx, portalAuth.Account{Email: "a@x.com", FullName: "A"})
	require.NoError(t, err)
	_, err = s.Save(ctx, portalAuth.Account{Email: "a@x.com", FullName: "B"})
	require.ErrorIs(t, err, portalAuth.ErrStoreDuplicateEmail)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "ACCOUNT_DUPLICATE_EMAIL", oopsErr.Code())

	_, err = s.Save(ctx, portalAuth.Account{ID: 99, Email: "ghost@x.com", FullName: "G"})
	require.ErrorIs(t, err, portalAuth.ErrStoreNotFound)

	// An index entry pointing at a deleted hash reads as missing.
	mr.Del("portal:account:1")
	_, err = s.FindByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, portalAuth.ErrStoreNotFound)
}

func TestStoreConcurrentInsertSameEmail(t *testing.T) {
	s, _ := newTestStore(t)
	var wins, dups atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(context.Background(), portalAuth.Account{Email: "race@x.com", FullName: "R"})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, portalAuth.ErrStoreDuplicateEmail):
				dups.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), wins.Load())
	assert.Equal(t, int64(15), dups.Load())
}

func TestStoreUnavailable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.FindByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, portalAuth.ErrStoreNotFound)

	_, err = s.Save(context.Background(), portalAuth.Account{Email: "a@x.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, portalAuth.ErrStoreDuplicateEmail)
}
