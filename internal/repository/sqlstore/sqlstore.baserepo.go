// FilePath: internal/repository/sqlstore/sqlstore.baserepo.go
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/errors"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"
)

// Option configures a repository.
type Option func(*BaseRepo)

// WithClock replaces time.Now for created_at / updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *BaseRepo) {
		r.now = now
	}
}

// BaseRepo carries the connection provider and clock shared by all repos.
type BaseRepo struct {
	db  database.DB
	now func() time.Time
}

func newBaseRepo(db database.DB, opts ...Option) BaseRepo {
	r := BaseRepo{db: db, now: time.Now}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// conn acquires a live pool. The error wraps database.ErrUnavailable.
func (r *BaseRepo) conn(ctx context.Context) (*sqlx.DB, error) {
	db, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (r *BaseRepo) BeginTx(ctx context.Context, db *sqlx.DB) (*sqlx.Tx, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *BaseRepo) Commit(tx *sqlx.Tx) error {
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}

func (r *BaseRepo) count(ctx context.Context, table string) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, errors.NewDatabaseError("failed to count "+table, err)
	}
	return n, nil
}

// list selects rows of table whose key column falls in q.Range, newest first.
func list[T any](ctx context.Context, r *BaseRepo, table, keyColumn string, q models.ListQuery) ([]T, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Normalize()

	var (
		where []string
		args  []any
	)
	if q.Range.Start != nil {
		where = append(where, keyColumn+" >= ?")
		args = append(args, q.Range.Start.UTC())
	}
	if q.Range.End != nil {
		where = append(where, keyColumn+" <= ?")
		args = append(args, q.Range.End.UTC())
	}

	query := "SELECT * FROM " + table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT ? OFFSET ?", keyColumn)
	args = append(args, q.Limit, q.Offset)

	rows := []T{}
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list "+table, err)
	}
	return rows, nil
}

// upsertPlan describes how one record type maps onto its table.
type upsertPlan[T any] struct {
	table     string
	keyColumn string
	// columns are the mutable columns overwritten on conflict
	columns []string
	// values returns the key followed by one value per column
	values   func(T) []any
	key      func(T) string
	validate func(T) error
	// progressEvery logs progress for large batches; 0 disables it
	progressEvery int
}

func (p upsertPlan[T]) upsertSQL() string {
	cols := append([]string{p.keyColumn}, p.columns...)
	cols = append(cols, "created_at", "updated_at")

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	sets := make([]string, 0, len(p.columns)+1)
	for _, c := range p.columns {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	sets = append(sets, "updated_at = excluded.updated_at")

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		p.table, strings.Join(cols, ", "), placeholders, p.keyColumn, strings.Join(sets, ", "),
	)
}

func (p upsertPlan[T]) existsSQL() string {
	return fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ?", p.table, p.keyColumn)
}

// upsertBatch writes records in input order in a single transaction and
// commits once at the end. Each record runs under a savepoint so one failing
// statement does not abort the rest of the batch.
func upsertBatch[T any](ctx context.Context, r *BaseRepo, plan upsertPlan[T], records []T) (models.BatchResult, error) {
	var result models.BatchResult
	if len(records) == 0 {
		return result, nil
	}

	db, err := r.conn(ctx)
	if err != nil {
		return result, err
	}
	tx, err := r.BeginTx(ctx, db)
	if err != nil {
		return result, err
	}
	defer tx.Rollback() // no-op after commit

	upsertQuery := db.Rebind(plan.upsertSQL())
	existsQuery := db.Rebind(plan.existsSQL())
	now := r.now().UTC()

	reject := func(i int, key string, reason error) {
		nuts.L.Warnf("[SQLStore] %s record %d (key=%q) rejected: %v", plan.table, i, key, reason)
		result.Rejected = append(result.Rejected, models.Rejection{Index: i, Key: key, Reason: reason.Error()})
	}

	for i, rec := range records {
		key := plan.key(rec)
		if err := plan.validate(rec); err != nil {
			reject(i, key, err)
			continue
		}

		if _, err := tx.ExecContext(ctx, "SAVEPOINT upsert_record"); err != nil {
			return models.BatchResult{}, errors.NewDatabaseError("failed to create savepoint", err)
		}
		inserted, err := upsertOne(ctx, tx, upsertQuery, existsQuery, plan.values(rec), now)
		if err != nil {
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT upsert_record"); rbErr != nil {
				return models.BatchResult{}, errors.NewDatabaseError("failed to roll back savepoint", rbErr)
			}
			reject(i, key, err)
			continue
		}
		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT upsert_record"); err != nil {
			return models.BatchResult{}, errors.NewDatabaseError("failed to release savepoint", err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		if plan.progressEvery > 0 && (i+1)%plan.progressEvery == 0 {
			nuts.L.Infof("[SQLStore] %s progress: %d/%d records", plan.table, i+1, len(records))
		}
	}

	if err := r.Commit(tx); err != nil {
		return models.BatchResult{}, err
	}

	nuts.L.Debugf("[SQLStore] %s batch committed: inserted=%d updated=%d rejected=%d",
		plan.table, result.Inserted, result.Updated, len(result.Rejected))
	return result, nil
}

func upsertOne(ctx context.Context, tx *sqlx.Tx, upsertQuery, existsQuery string, values []any, now time.Time) (bool, error) {
	var existing int
	if err := tx.GetContext(ctx, &existing, existsQuery, values[0]); err != nil {
		return false, fmt.Errorf("key lookup failed: %w", err)
	}

	args := append(values, now, now)
	if _, err := tx.ExecContext(ctx, upsertQuery, args...); err != nil {
		return false, fmt.Errorf("upsert failed: %w", err)
	}
	return existing == 0, nil
}

// nullable turns a nil pointer into SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
