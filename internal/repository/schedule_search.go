package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// ScheduleSearch is the read-only query surface over the schedule
// catalog.  It exists as a separate type so the trip-discovery path
// carries none of the booking-mutation methods.
type ScheduleSearch struct {
	db *sql.DB
}

// NewScheduleSearch returns a ScheduleSearch bound to the given database.
func NewScheduleSearch(db *sql.DB) *ScheduleSearch { return &ScheduleSearch{db: db} }

// SearchQuery defines the filters for trip discovery.  All four fields
// must match; MinSeats excludes runs without enough open seats.
type SearchQuery struct {
	Origin      string
	Destination string
	ServiceDate string // "YYYY-MM-DD"
	MinSeats    int
}

// Search returns every schedule matching the query, joined with its
// train's catalog fields and ordered ascending by departure time.  An
// empty result is not an error.
func (r *ScheduleSearch) Search(ctx context.Context, q SearchQuery) ([]model.TrainSchedule, error) {
	const dataSQL = `SELECT
			s.id,
			s.train_id,
			t.train_number,
			t.train_name,
			t.train_class,
			s.origin,
			s.destination,
			DATE_FORMAT(s.service_date, '%Y-%m-%d') AS service_date,
			TIME_FORMAT(s.departure_time, '%H:%i')  AS departure_time,
			TIME_FORMAT(s.arrival_time, '%H:%i')    AS arrival_time,
			s.fare,
			s.available_seats,
			s.total_seats
		FROM schedules s
		JOIN trains t ON t.id = s.train_id
		WHERE s.origin = ? AND s.destination = ? AND s.service_date = ? AND s.available_seats >= ?
		ORDER BY s.departure_time ASC`

	rows, err := r.db.QueryContext(ctx, dataSQL, q.Origin, q.Destination, q.ServiceDate, q.MinSeats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TrainSchedule, 0)
	for rows.Next() {
		var d model.TrainSchedule
		if err := rows.Scan(
			&d.ScheduleID,
			&d.TrainID,
			&d.TrainNumber,
			&d.TrainName,
			&d.TrainClass,
			&d.Origin,
			&d.Destination,
			&d.ServiceDate,
			&d.DepartureTime,
			&d.ArrivalTime,
			&d.Fare,
			&d.AvailableSeats,
			&d.TotalSeats,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindDetail returns the denormalized trip row for a single schedule.
// It backs booking records and notification summaries.
func (r *ScheduleSearch) FindDetail(ctx context.Context, scheduleID uint64) (*model.TrainSchedule, error) {
	const q = `SELECT
			s.id, s.train_id, t.train_number, t.train_name, t.train_class,
			s.origin, s.destination,
			DATE_FORMAT(s.service_date, '%Y-%m-%d'),
			TIME_FORMAT(s.departure_time, '%H:%i'),
			TIME_FORMAT(s.arrival_time, '%H:%i'),
			s.fare, s.available_seats, s.total_seats
		FROM schedules s
		JOIN trains t ON t.id = s.train_id
		WHERE s.id = ?`
	var d model.TrainSchedule
	err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(
		&d.ScheduleID, &d.TrainID, &d.TrainNumber, &d.TrainName, &d.TrainClass,
		&d.Origin, &d.Destination, &d.ServiceDate, &d.DepartureTime, &d.ArrivalTime,
		&d.Fare, &d.AvailableSeats, &d.TotalSeats,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Stations returns the distinct station names appearing as either an
// origin or a destination, sorted alphabetically.
func (r *ScheduleSearch) Stations(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT origin FROM schedules
		UNION
		SELECT DISTINCT destination FROM schedules
		ORDER BY 1`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stations := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		stations = append(stations, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// ListAll returns every schedule with train details, ordered by service
// date then departure time.  Used by the administrative catalog surface.
func (r *ScheduleSearch) ListAll(ctx context.Context) ([]model.TrainSchedule, error) {
	const q = `SELECT
			s.id, s.train_id, t.train_number, t.train_name, t.train_class,
			s.origin, s.destination,
			DATE_FORMAT(s.service_date, '%Y-%m-%d'),
			TIME_FORMAT(s.departure_time, '%H:%i'),
			TIME_FORMAT(s.arrival_time, '%H:%i'),
			s.fare, s.available_seats, s.total_seats
		FROM schedules s
		JOIN trains t ON t.id = s.train_id
		ORDER BY s.service_date ASC, s.departure_time ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TrainSchedule, 0)
	for rows.Next() {
		var d model.TrainSchedule
		if err := rows.Scan(
			&d.ScheduleID, &d.TrainID, &d.TrainNumber, &d.TrainName, &d.TrainClass,
			&d.Origin, &d.Destination, &d.ServiceDate, &d.DepartureTime, &d.ArrivalTime,
			&d.Fare, &d.AvailableSeats, &d.TotalSeats,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
