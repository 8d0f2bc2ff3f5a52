package repository

import (
	"context"
	"database/sql"
	"time"

	"amp_scheduler/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ScheduleRepo persists the single schedule record (always row id 1).
type ScheduleRepo interface {
	Save(ctx context.Context, s models.Schedule) error
	Load(ctx context.Context) (models.Schedule, error)
}

// EventRepo is the append-only device log with filtered listing.
type EventRepo interface {
	Append(ctx context.Context, e models.AmpEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AmpEvent, error)
}

type Repository struct {
	ScheduleRepo ScheduleRepo
	EventRepo    EventRepo
	Auth         Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ScheduleRepo: NewScheduleSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewUserRepository(db),
	}
}
