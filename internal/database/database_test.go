package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "health.db"),
	}
}

func TestProviderCreatesSchema(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(ctx, sqliteConfig(t))
	t.Cleanup(func() { _ = p.Close() })

	db, err := p.Acquire(ctx)
	require.NoError(t, err)

	tables, err := ListTables(ctx, db, p.Dialect())
	require.NoError(t, err)
	assert.Equal(t, []string{"blood_glucose", "exercise_data", "sleep_data"}, tables)

	version, err := ServerVersion(ctx, db, p.Dialect())
	require.NoError(t, err)
	assert.NotEmpty(t, version)

	// Idempotent
	require.NoError(t, InitSchema(ctx, db, p.Dialect()))
}

func TestProviderReconnectsStalePool(t *testing.T) {
	ctx := context.Background()
	p := NewProviderWithOpener(sqliteConfig(t), Open)
	t.Cleanup(func() { _ = p.Close() })

	first, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := p.Acquire(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.NoError(t, p.Ping(ctx))
}

func TestProviderRetriesOncePerCall(t *testing.T) {
	ctx := context.Background()
	calls := 0
	p := NewProviderWithOpener(sqliteConfig(t), func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
		calls++
		return nil, errors.New("connection refused")
	})

	_, err := p.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)

	_, err = p.Acquire(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, calls)

	assert.ErrorIs(t, p.Ping(ctx), ErrUnavailable)
}

func TestConcurrentCallersShareOneReconnect(t *testing.T) {
	ctx := context.Background()
	var opens atomic.Int32
	p := NewProviderWithOpener(sqliteConfig(t), func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
		opens.Add(1)
		return Open(ctx, cfg)
	})
	t.Cleanup(func() { _ = p.Close() })

	stale, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, stale.Close())

	const callers = 8
	pools := make([]*sqlx.DB, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pools[i], errs[i] = p.Acquire(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, pools[0], pools[i])
	}
	assert.NotSame(t, stale, pools[0])
	assert.Equal(t, int32(2), opens.Load(), "one initial open plus one reconnect")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestProbeConnectsLazily(t *testing.T) {
	ctx := context.Background()
	p := NewProviderWithOpener(sqliteConfig(t), Open)
	t.Cleanup(func() { _ = p.Close() })

	assert.ErrorIs(t, p.Ping(ctx), ErrUnavailable)
	require.NoError(t, Probe{DB: p}.Ping(ctx))
	assert.NoError(t, p.Ping(ctx))
}
