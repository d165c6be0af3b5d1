// FilePath: internal/database/database.go
package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
	_ "modernc.org/sqlite"
)

// ErrUnavailable is returned when no working connection can be obtained.
var ErrUnavailable = errors.New("database unavailable")

func init() {
	// modernc registers itself as "sqlite"; sqlx only knows "sqlite3".
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// DB is implemented by anything that can hand out a live connection pool.
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	// Acquire returns a pool that answered a ping, reconnecting at most once.
	Acquire(ctx context.Context) (*sqlx.DB, error)
	Dialect() string
}

// Opener opens a new pool. Replaceable in tests.
type Opener func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error)

// Provider owns the store connection pool. The pool is created lazily and
// replaced when a ping fails.
type Provider struct {
	cfg         config.DatabaseConfig
	open        Opener
	mu          sync.Mutex
	db          *sqlx.DB
	schemaReady bool
}

// NewProvider creates a provider and tries to connect and create the schema.
// A store that is down at start is not fatal; the next Acquire retries.
func NewProvider(ctx context.Context, cfg config.DatabaseConfig) *Provider {
	p := NewProviderWithOpener(cfg, Open)
	if _, err := p.Acquire(ctx); err != nil {
		nuts.L.Warnf("[Database] Store not reachable at startup, will retry on first use: %v", err)
	}
	return p
}

// NewProviderWithOpener creates a provider without connecting.
func NewProviderWithOpener(cfg config.DatabaseConfig, open Opener) *Provider {
	return &Provider{cfg: cfg, open: open}
}

// Dialect returns the configured driver name.
func (p *Provider) Dialect() string {
	return p.cfg.Driver
}

// Acquire returns a pool that answered a ping. A stale pool is closed and
// replaced by exactly one fresh connection attempt per call. The ping runs
// outside the lock so a hanging store does not queue healthy callers.
func (p *Provider) Acquire(ctx context.Context) (*sqlx.DB, error) {
	p.mu.Lock()
	current := p.db
	p.mu.Unlock()

	if current != nil {
		err := p.ping(ctx, current)
		if err == nil {
			return current, nil
		}
		nuts.L.Warnf("[Database] Ping failed, reconnecting: %v", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller replaced the stale pool while we were pinging.
	if p.db != nil && p.db != current {
		return p.db, nil
	}
	if p.db != nil {
		_ = p.db.Close()
		p.db = nil
	}

	db, err := p.open(ctx, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !p.schemaReady {
		if err := InitSchema(ctx, db, p.cfg.Driver); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		p.schemaReady = true
	}
	p.db = db
	return db, nil
}

// Ping checks the current pool without reconnecting.
func (p *Provider) Ping(ctx context.Context) error {
	p.mu.Lock()
	db := p.db
	p.mu.Unlock()
	if db == nil {
		return ErrUnavailable
	}
	return p.ping(ctx, db)
}

func (p *Provider) ping(ctx context.Context, db *sqlx.DB) error {
	timeout := p.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// Probe is a health check that reconnects when needed, unlike Provider.Ping.
type Probe struct {
	DB
}

// Ping acquires a pool and reports whether that worked.
func (p Probe) Ping(ctx context.Context) error {
	_, err := p.Acquire(ctx)
	return err
}

// Close closes the pool if one is open.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// Open connects to the configured backend and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, int(connectTimeout(cfg).Seconds()),
	)

	db, err := sqlx.Open(config.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening PostgreSQL: %w", err)
	}
	applyPool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	nuts.L.Infof("[PostgresDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return db, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.Open(config.DriverSQLite, sqliteDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("error opening SQLite: %w", err)
	}
	applyPool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error opening SQLite: %w", err)
	}

	nuts.L.Infof("[SQLiteDB] Opened %s", cfg.Path)
	return db, nil
}

func applyPool(db *sqlx.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// sqliteDSN sets pragmas through the DSN so every pooled connection gets them.
// BEGIN IMMEDIATE makes concurrent writers wait on busy_timeout instead of
// failing on lock upgrade.
func sqliteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)" +
		"&_time_format=sqlite&_txlock=immediate"
}

func connectTimeout(cfg config.DatabaseConfig) time.Duration {
	if cfg.ConnectTimeout > 0 {
		return cfg.ConnectTimeout
	}
	return 5 * time.Second
}
