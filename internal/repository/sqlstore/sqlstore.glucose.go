// FilePath: internal/repository/sqlstore/sqlstore.glucose.go
package sqlstore

import (
	"context"

	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/models"
)

// glucoseProgressEvery is the progress log interval for glucose batches.
const glucoseProgressEvery = 1000

type GlucoseRepo struct {
	BaseRepo
	plan upsertPlan[models.GlucoseRecord]
}

func NewGlucoseRepository(db database.DB, opts ...Option) *GlucoseRepo {
	return &GlucoseRepo{
		BaseRepo: newBaseRepo(db, opts...),
		plan: upsertPlan[models.GlucoseRecord]{
			table:     models.KindGlucose.Table(),
			keyColumn: "timestamp",
			columns:   []string{"value", "unit", "source"},
			values: func(g models.GlucoseRecord) []any {
				unit := g.Unit
				if unit == "" {
					unit = models.DefaultGlucoseUnit
				}
				return []any{g.Timestamp.UTC(), nullable(g.Value), unit, nullable(g.Source)}
			},
			key:           models.GlucoseRecord.Key,
			validate:      models.GlucoseRecord.Validate,
			progressEvery: glucoseProgressEvery,
		},
	}
}

func (r *GlucoseRepo) UpsertBatch(ctx context.Context, records []models.GlucoseRecord) (models.BatchResult, error) {
	return upsertBatch(ctx, &r.BaseRepo, r.plan, records)
}

func (r *GlucoseRepo) List(ctx context.Context, q models.ListQuery) ([]models.GlucoseRecord, error) {
	return list[models.GlucoseRecord](ctx, &r.BaseRepo, r.plan.table, r.plan.keyColumn, q)
}

func (r *GlucoseRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.plan.table)
}
