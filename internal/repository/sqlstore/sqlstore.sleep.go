// FilePath: internal/repository/sqlstore/sqlstore.sleep.go
package sqlstore

import (
	"context"

	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/models"
)

type SleepRepo struct {
	BaseRepo
	plan upsertPlan[models.SleepRecord]
}

func NewSleepRepository(db database.DB, opts ...Option) *SleepRepo {
	return &SleepRepo{
		BaseRepo: newBaseRepo(db, opts...),
		plan: upsertPlan[models.SleepRecord]{
			table:     models.KindSleep.Table(),
			keyColumn: "date",
			columns: []string{
				"bedtime", "wake_time", "sleep_duration_minutes",
				"deep_sleep_minutes", "light_sleep_minutes", "rem_sleep_minutes",
				"sleep_efficiency", "heart_rate_avg", "heart_rate_min", "heart_rate_max",
			},
			values: func(s models.SleepRecord) []any {
				return []any{
					s.Date.UTC(),
					nullableTime(s.Bedtime), nullableTime(s.WakeTime), nullable(s.SleepDurationMinutes),
					nullable(s.DeepSleepMinutes), nullable(s.LightSleepMinutes), nullable(s.RemSleepMinutes),
					nullable(s.SleepEfficiency), nullable(s.HeartRateAvg), nullable(s.HeartRateMin), nullable(s.HeartRateMax),
				}
			},
			key:      models.SleepRecord.Key,
			validate: models.SleepRecord.Validate,
		},
	}
}

func (r *SleepRepo) UpsertBatch(ctx context.Context, records []models.SleepRecord) (models.BatchResult, error) {
	return upsertBatch(ctx, &r.BaseRepo, r.plan, records)
}

func (r *SleepRepo) List(ctx context.Context, q models.ListQuery) ([]models.SleepRecord, error) {
	return list[models.SleepRecord](ctx, &r.BaseRepo, r.plan.table, r.plan.keyColumn, q)
}

func (r *SleepRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.plan.table)
}
