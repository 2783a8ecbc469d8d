package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	portalAuth "github.com/leanda/portalAuth"
	"github.com/leanda/portalAuth/internal/config"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "portald-test-secret-0123456789"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])

	migrate, _, err := root.Find([]string{"migrate", "version"})
	require.NoError(t, err)
	assert.Equal(t, "version", migrate.Name())
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", testSecret)
	t.Setenv("PORTAL_ADDR", ":1111")

	cfg, err := loadConfig(serveFlags{addr: ":2222", store: config.StoreRedis})
	require.NoError(t, err)
	assert.Equal(t, ":2222", cfg.Addr)
	assert.Equal(t, config.StoreRedis, cfg.Store)

	_, err = loadConfig(serveFlags{store: "sqlite"})
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "CONFIG_INVALID", oopsErr.Code())
}

func TestOpenBackendMemory(t *testing.T) {
	be, err := openBackend(context.Background(), config.Config{Store: config.StoreMemory}, discardLogger())
	require.NoError(t, err)
	defer be.close()

	require.NoError(t, be.ping(context.Background()))
	_, err = be.store.FindByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, portalAuth.ErrStoreNotFound)
}

func TestOpenBackendRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{Store: config.StoreRedis, RedisAddr: mr.Addr(), RedisPrefix: "t"}

	be, err := openBackend(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer be.close()

	saved, err := be.store.Save(context.Background(), portalAuth.Account{Email: "a@x.com", FullName: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.True(t, mr.Exists("t:account:1"))

	mr.Close()
	assert.Error(t, be.ping(context.Background()))
}

func TestOpenBackendRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := openBackend(context.Background(), config.Config{Store: config.StoreRedis, RedisAddr: addr}, discardLogger())
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "REDIS_CONNECT_FAILED", oopsErr.Code())
}

type fakeMigrator struct {
	ups, downs int
	upErr      error
	closed     bool
}

func (f *fakeMigrator) Up() error                    { f.ups++; return f.upErr }
func (f *fakeMigrator) Down() error                  { f.downs++; return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return uint(f.ups), false, nil }
func (f *fakeMigrator) Close() error                 { f.closed = true; return nil }

func runMigrateCmd(t *testing.T, fake *fakeMigrator, args ...string) (string, error) {
	t.Helper()
	prev := newMigrator
	newMigrator = func(string) (migrator, error) { return fake, nil }
	t.Cleanup(func() { newMigrator = prev })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"migrate"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	t.Setenv("PORTAL_DATABASE_URL", "postgres://localhost/portal")

	fake := &fakeMigrator{}
	out, err := runMigrateCmd(t, fake, "up")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.ups)
	assert.True(t, fake.closed)
	assert.Contains(t, out, "schema version 1")

	fake = &fakeMigrator{}
	_, err = runMigrateCmd(t, fake, "down")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.downs)

	fake = &fakeMigrator{upErr: errors.New("boom")}
	_, err = runMigrateCmd(t, fake, "up")
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "MIGRATION_FAILED", oopsErr.Code())
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("PORTAL_DATABASE_URL", "")

	_, err := runMigrateCmd(t, &fakeMigrator{}, "version")
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "CONFIG_INVALID", oopsErr.Code())
}
