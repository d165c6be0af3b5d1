// FilePath: internal/repository/sqlstore/sqlstore.exercise.go
package sqlstore

import (
	"context"

	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/models"
)

type ExerciseRepo struct {
	BaseRepo
	plan upsertPlan[models.ExerciseRecord]
}

func NewExerciseRepository(db database.DB, opts ...Option) *ExerciseRepo {
	return &ExerciseRepo{
		BaseRepo: newBaseRepo(db, opts...),
		plan: upsertPlan[models.ExerciseRecord]{
			table:     models.KindExercise.Table(),
			keyColumn: "timestamp",
			columns: []string{
				"activity_type", "duration_minutes", "calories_burned", "distance_km", "steps",
				"heart_rate_avg", "heart_rate_max", "active_energy_kcal", "resting_energy_kcal",
			},
			values: func(e models.ExerciseRecord) []any {
				return []any{
					e.Timestamp.UTC(),
					nullable(e.ActivityType), nullable(e.DurationMinutes), nullable(e.CaloriesBurned),
					nullable(e.DistanceKm), nullable(e.Steps), nullable(e.HeartRateAvg), nullable(e.HeartRateMax),
					nullable(e.ActiveEnergyKcal), nullable(e.RestingEnergyKcal),
				}
			},
			key:      models.ExerciseRecord.Key,
			validate: models.ExerciseRecord.Validate,
		},
	}
}

func (r *ExerciseRepo) UpsertBatch(ctx context.Context, records []models.ExerciseRecord) (models.BatchResult, error) {
	return upsertBatch(ctx, &r.BaseRepo, r.plan, records)
}

func (r *ExerciseRepo) List(ctx context.Context, q models.ListQuery) ([]models.ExerciseRecord, error) {
	return list[models.ExerciseRecord](ctx, &r.BaseRepo, r.plan.table, r.plan.keyColumn, q)
}

func (r *ExerciseRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, r.plan.table)
}
