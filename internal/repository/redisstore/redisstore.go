// FilePath: internal/repository/redisstore/redisstore.go
// Package redisstore keeps the latest ingestion outcome per metric kind in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const (
	fieldLast      = "last"
	fieldCalls     = "calls"
	fieldProcessed = "total_processed"
	fieldUpdatedAt = "updated_at"
)

// StatusRepo implements repository.StatusRepository with one hash per kind.
type StatusRepo struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ repository.StatusRepository = (*StatusRepo)(nil)

// New connects a client from configuration. The connection is lazy.
func New(cfg config.RedisConfig) *StatusRepo {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	nuts.L.Infof("[Redis] Status tracker using %s db=%d", config.Addr(cfg.Host, cfg.Port), cfg.DB)
	return NewWithClient(client, cfg.KeyPrefix)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *StatusRepo {
	if prefix == "" {
		prefix = "healthhub"
	}
	return &StatusRepo{client: client, prefix: prefix, now: time.Now}
}

func (r *StatusRepo) key(kind models.Kind) string {
	return fmt.Sprintf("%s:ingest:%s", r.prefix, kind)
}

// Record stores result as the latest outcome and bumps the totals.
func (r *StatusRepo) Record(ctx context.Context, result models.IngestResult) error {
	if result.Kind == "" {
		return fmt.Errorf("%w: result without kind", repository.ErrInvalidInput)
	}
	last, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	key := r.key(result.Kind)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldLast, last, fieldUpdatedAt, r.now().UTC().Format(time.RFC3339Nano))
		pipe.HIncrBy(ctx, key, fieldCalls, 1)
		pipe.HIncrBy(ctx, key, fieldProcessed, int64(result.Processed))
		return nil
	})
	if err != nil {
		return fmt.Errorf("record ingest status: %w", err)
	}
	return nil
}

// Get returns the status for kind or repository.ErrNotFound.
func (r *StatusRepo) Get(ctx context.Context, kind models.Kind) (*models.IngestStatus, error) {
	fields, err := r.client.HGetAll(ctx, r.key(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("read ingest status: %w", err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrNotFound
	}

	status := &models.IngestStatus{Kind: kind}
	if raw, ok := fields[fieldLast]; ok {
		if err := json.Unmarshal([]byte(raw), &status.Last); err != nil {
			return nil, fmt.Errorf("decode last result: %w", err)
		}
	}
	status.Calls, _ = strconv.ParseInt(fields[fieldCalls], 10, 64)
	status.TotalProcessed, _ = strconv.ParseInt(fields[fieldProcessed], 10, 64)
	if raw, ok := fields[fieldUpdatedAt]; ok {
		status.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return status, nil
}

// Ping checks the Redis connection.
func (r *StatusRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *StatusRepo) Close() error {
	return r.client.Close()
}
