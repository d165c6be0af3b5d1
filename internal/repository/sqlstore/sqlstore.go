// Package sqlstore implements the metric repositories on top of sqlx for
// PostgreSQL and SQLite.
package sqlstore

import (
	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/repository"
)

// NewStore wires the three metric repositories to one connection provider.
func NewStore(db database.DB, opts ...Option) *repository.Store {
	return &repository.Store{
		Sleep:    NewSleepRepository(db, opts...),
		Exercise: NewExerciseRepository(db, opts...),
		Glucose:  NewGlucoseRepository(db, opts...),
	}
}
