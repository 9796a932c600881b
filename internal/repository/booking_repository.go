package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  All timestamp
// fields are stored in UTC.  Seat accounting does not live here: the
// ledger persists booking state only, and the orchestrator keeps it in
// step with the schedule counters.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, schedule_id, passenger_name, passenger_email, passenger_phone,
	seat_count, total_amount, status, pnr, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	var phone sql.NullString
	err := scan(
		&b.ID, &b.ScheduleID, &b.PassengerName, &b.PassengerEmail, &phone,
		&b.SeatCount, &b.TotalAmount, &b.Status, &b.PNR, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if phone.Valid {
		p := phone.String
		b.PassengerPhone = &p
	}
	return &b, nil
}

// Create inserts a new booking and populates the generated id and the
// database-assigned timestamps on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(schedule_id, passenger_name, passenger_email, passenger_phone, seat_count, total_amount, status, pnr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var phone any
	if b.PassengerPhone != nil {
		phone = *b.PassengerPhone
	}
	result, err := r.db.ExecContext(ctx, q,
		b.ScheduleID, b.PassengerName, b.PassengerEmail, phone,
		b.SeatCount, b.TotalAmount, b.Status, b.PNR,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	created, err := r.FindByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// FindByID returns the booking with the given id or ErrBookingNotFound.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row.Scan)
}

// FindByCode returns the booking carrying the given reservation code or
// ErrBookingNotFound.
func (r *BookingRepo) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr = ?`, code)
	return scanBooking(row.Scan)
}

// FindAll returns every booking, newest first.
func (r *BookingRepo) FindAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable fields of an existing booking.  It
// returns ErrBookingNotFound when the id no longer exists.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
		SET passenger_name = ?, passenger_email = ?, passenger_phone = ?,
			seat_count = ?, total_amount = ?, status = ?
		WHERE id = ?`
	var phone any
	if b.PassengerPhone != nil {
		phone = *b.PassengerPhone
	}
	result, err := r.db.ExecContext(ctx, q,
		b.PassengerName, b.PassengerEmail, phone,
		b.SeatCount, b.TotalAmount, b.Status, b.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// MySQL reports zero affected rows for a no-op update as well,
		// so confirm the row really is gone before failing.
		if _, err := r.FindByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a booking.  It exists as the compensation primitive
// for the orchestrator: a booking persisted in the same operation as a
// failed seat deduction must not remain observable.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
