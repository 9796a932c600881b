package service

import (
	"context"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// ScheduleStore is the slice of the schedule catalog the orchestrator
// depends on. AdjustAvailability must be atomic per schedule: two
// concurrent calls may never both succeed against the same stale
// counter when their combined effect would break the capacity bounds.
type ScheduleStore interface {
	FindByID(ctx context.Context, id uint64) (*model.Schedule, error)
	AdjustAvailability(ctx context.Context, id uint64, delta int) (*model.Schedule, error)
	FindDetail(ctx context.Context, scheduleID uint64) (*model.TrainSchedule, error)
}

// BookingStore is the booking ledger as seen by the orchestrator.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id uint64) (*model.Booking, error)
	FindByCode(ctx context.Context, code string) (*model.Booking, error)
	FindAll(ctx context.Context) ([]model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id uint64) error
}

// TripSearcher is the read-only trip-discovery surface.
type TripSearcher interface {
	Search(ctx context.Context, q repository.SearchQuery) ([]model.TrainSchedule, error)
	Stations(ctx context.Context) ([]string, error)
}

// Notifier receives booking lifecycle notifications. Implementations
// must be best effort: failures are logged on their side and never
// reach the booking workflow.
type Notifier interface {
	BookingConfirmed(ctx context.Context, rec *model.BookingRecord)
	BookingCancelled(ctx context.Context, rec *model.BookingRecord)
}

// Interface checks against the concrete repositories.
type catalogStore struct {
	*repository.ScheduleRepo
	*repository.ScheduleSearch
}

// NewCatalogStore combines the schedule repository with its read
// surface into the ScheduleStore the orchestrator consumes.
func NewCatalogStore(repo *repository.ScheduleRepo, search *repository.ScheduleSearch) ScheduleStore {
	return &catalogStore{ScheduleRepo: repo, ScheduleSearch: search}
}

var (
	_ BookingStore = (*repository.BookingRepo)(nil)
	_ TripSearcher = (*repository.ScheduleSearch)(nil)
)
