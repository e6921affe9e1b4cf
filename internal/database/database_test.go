package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_AppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := InitDB(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	for _, table := range []string{"users", "requests", "settings"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// Running the migrations a second time is a no-op.
	assert.NoError(t, Migrate(db))
}

func TestWaitFor(t *testing.T) {
	ctx := context.Background()

	t.Run("Succeeds after transient failures", func(t *testing.T) {
		calls := 0
		ping := func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}
		require.NoError(t, WaitFor(ctx, "test", ping, 5, time.Millisecond))
		assert.Equal(t, 3, calls)
	})

	t.Run("Gives up after the last attempt", func(t *testing.T) {
		ping := func(context.Context) error { return errors.New("down") }
		err := WaitFor(ctx, "test", ping, 2, time.Millisecond)
		assert.ErrorContains(t, err, "not reachable after 2 attempts")
	})
}

func TestConnectRedis(t *testing.T) {
	srv := miniredis.RunT(t)

	rdb, err := ConnectRedis(context.Background(), srv.Addr())
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	assert.NoError(t, rdb.Ping(context.Background()).Err())
}
