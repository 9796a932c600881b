package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// maxAdjustAttempts bounds the optimistic read-compute-write loop in
// AdjustAvailability.  Losing the version race this many times in a row
// means the schedule is under heavy contention; the caller gets
// ErrAdjustConflict and may retry the whole operation.
const maxAdjustAttempts = 5

// ScheduleRepo provides access to the schedules and trains tables.  It
// owns the seat inventory: AdjustAvailability is the only legal way to
// mutate a schedule's available_seats column, anywhere in the system.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// repositories over one connection pool.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleColumns = `id, train_id, origin, destination,
	DATE_FORMAT(service_date, '%Y-%m-%d'),
	TIME_FORMAT(departure_time, '%H:%i'),
	TIME_FORMAT(arrival_time, '%H:%i'),
	fare, total_seats, available_seats, version, created_at, updated_at`

func scanSchedule(row *sql.Row) (*model.Schedule, error) {
	var s model.Schedule
	err := row.Scan(
		&s.ID, &s.TrainID, &s.Origin, &s.Destination,
		&s.ServiceDate, &s.DepartureTime, &s.ArrivalTime,
		&s.Fare, &s.TotalSeats, &s.AvailableSeats, &s.Version,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new schedule.  The available counter starts at the
// schedule's total capacity and the version at zero.  The generated ID
// is written back onto the provided record.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules
		(train_id, origin, destination, service_date, departure_time, arrival_time, fare, total_seats, available_seats, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`
	s.AvailableSeats = s.TotalSeats
	result, err := r.db.ExecContext(ctx, q,
		s.TrainID, s.Origin, s.Destination, s.ServiceDate,
		s.DepartureTime, s.ArrivalTime, s.Fare, s.TotalSeats, s.TotalSeats,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	created, err := r.FindByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *created
	return nil
}

// FindByID returns the schedule with the given id or ErrScheduleNotFound.
func (r *ScheduleRepo) FindByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	return scanSchedule(r.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id))
}

// AdjustAvailability atomically applies delta to a schedule's available
// seat counter and returns the updated schedule.  A negative delta
// consumes seats, a positive one releases them.  The write is
// conditional on the version read in the same attempt, so two racing
// adjustments can never both apply against the same stale counter; the
// loser re-reads and retries up to maxAdjustAttempts times.
//
// ErrCapacityExceeded is returned when the new value would fall outside
// [0, total_seats]; ErrAdjustConflict when every attempt lost the race.
// In both cases the counter is unchanged.
func (r *ScheduleRepo) AdjustAvailability(ctx context.Context, id uint64, delta int) (*model.Schedule, error) {
	const upd = `UPDATE schedules
		SET available_seats = ?, version = version + 1
		WHERE id = ? AND version = ?`

	for attempt := 0; attempt < maxAdjustAttempts; attempt++ {
		s, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		next := s.AvailableSeats + delta
		if next < 0 || next > s.TotalSeats {
			return nil, ErrCapacityExceeded
		}
		result, err := r.db.ExecContext(ctx, upd, next, id, s.Version)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 1 {
			s.AvailableSeats = next
			s.Version++
			return s, nil
		}
		// Version moved under us; re-read and recompute.
	}
	return nil, ErrAdjustConflict
}

// FindTrain returns the train with the given id or ErrTrainNotFound.
func (r *ScheduleRepo) FindTrain(ctx context.Context, id uint64) (*model.Train, error) {
	const q = `SELECT id, train_number, train_name, train_class, total_seats FROM trains WHERE id = ?`
	var t model.Train
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Number, &t.Name, &t.Class, &t.TotalSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	return &t, nil
}
