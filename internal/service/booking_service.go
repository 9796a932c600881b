package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// bookingLockStripes sizes the striped mutex table used to serialize
// concurrent operations on the same booking id. Operations on
// different bookings map to different stripes almost always and never
// block each other logically; a shared stripe only costs latency.
const bookingLockStripes = 64

// BookingService composes the schedule catalog and the booking ledger
// into the create/update/cancel workflows. Every operation keeps the
// two stores consistent: the booking write and the seat adjustment
// either both apply or both are rolled back before the error surfaces,
// so no caller ever observes a confirmed booking whose seats were not
// deducted, or the reverse.
type BookingService struct {
	schedules ScheduleStore
	bookings  BookingStore
	notifier  Notifier

	locks [bookingLockStripes]sync.Mutex
}

// NewBookingService constructs a BookingService. notifier may be nil,
// in which case no notifications are dispatched.
func NewBookingService(schedules ScheduleStore, bookings BookingStore, notifier Notifier) *BookingService {
	if schedules == nil || bookings == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{schedules: schedules, bookings: bookings, notifier: notifier}
}

func (s *BookingService) lockBooking(id uint64) *sync.Mutex {
	return &s.locks[id%bookingLockStripes]
}

// CreateBookingInput carries the validated fields for a new booking.
// The boundary layer has already enforced field-level constraints.
type CreateBookingInput struct {
	ScheduleID     uint64
	PassengerName  string
	PassengerEmail string
	PassengerPhone *string
	SeatCount      int
}

// UpdateBookingInput is a patch: nil fields are left untouched.
type UpdateBookingInput struct {
	PassengerName  *string
	PassengerEmail *string
	PassengerPhone *string
	SeatCount      *int
	Status         *model.BookingStatus
}

func (s *BookingService) pnrExists(ctx context.Context, code string) (bool, error) {
	_, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateBooking reserves seats on a schedule and persists a confirmed
// booking carrying a fresh reservation code.
//
// The seat deduction runs after the booking insert; when it fails
// because a concurrent caller consumed the seats in between, the
// just-created booking is deleted again before the error surfaces.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.BookingRecord, error) {
	sched, err := s.schedules.FindByID(ctx, in.ScheduleID)
	if err != nil {
		return nil, err
	}
	if sched.AvailableSeats < in.SeatCount {
		return nil, &SeatsUnavailableError{Requested: in.SeatCount, Available: sched.AvailableSeats}
	}

	code, err := GenerateUniquePNR(ctx, s.pnrExists)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ScheduleID:     in.ScheduleID,
		PassengerName:  in.PassengerName,
		PassengerEmail: in.PassengerEmail,
		PassengerPhone: in.PassengerPhone,
		SeatCount:      in.SeatCount,
		TotalAmount:    sched.Fare * float64(in.SeatCount),
		Status:         model.BookingConfirmed,
		PNR:            code,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	if _, err := s.schedules.AdjustAvailability(ctx, in.ScheduleID, -in.SeatCount); err != nil {
		// Seats were consumed between the check and the deduction, or
		// the adjustment kept losing the version race. Either way the
		// booking must not remain observable.
		if delErr := s.bookings.Delete(ctx, booking.ID); delErr != nil {
			log.Printf("booking: compensation delete of booking %d failed: %v", booking.ID, delErr)
		}
		if errors.Is(err, repository.ErrCapacityExceeded) {
			available := 0
			if cur, ferr := s.schedules.FindByID(ctx, in.ScheduleID); ferr == nil {
				available = cur.AvailableSeats
			}
			return nil, &SeatsUnavailableError{Requested: in.SeatCount, Available: available}
		}
		return nil, err
	}

	rec, err := s.record(ctx, booking)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, rec)
	}
	return rec, nil
}

// UpdateBooking applies a patch to a confirmed booking. Passenger
// fields apply directly; a seat-count change adjusts the schedule
// counter by the difference and recomputes the total amount, and the
// booking fields are only committed when that adjustment succeeded.
// A patch with status CANCELLED goes through the same seat-release
// path as CancelBooking after the passenger fields are applied.
func (s *BookingService) UpdateBooking(ctx context.Context, id uint64, in UpdateBookingInput) (*model.BookingRecord, error) {
	mu := s.lockBooking(id)
	mu.Lock()
	defer mu.Unlock()

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingCancelled {
		return nil, ErrInvalidTransition
	}
	prior := *booking

	if in.PassengerName != nil {
		booking.PassengerName = *in.PassengerName
	}
	if in.PassengerEmail != nil {
		booking.PassengerEmail = *in.PassengerEmail
	}
	if in.PassengerPhone != nil {
		booking.PassengerPhone = in.PassengerPhone
	}

	if in.Status != nil && *in.Status == model.BookingCancelled {
		// Cancellation via patch releases the current seat count like a
		// direct cancel; a pending seat-count change is moot at that point.
		return s.cancelLocked(ctx, booking, prior)
	}

	diff := 0
	if in.SeatCount != nil && *in.SeatCount != booking.SeatCount {
		diff = *in.SeatCount - booking.SeatCount
	}
	if diff != 0 {
		sched, err := s.schedules.FindByID(ctx, booking.ScheduleID)
		if err != nil {
			return nil, err
		}
		if diff > 0 && sched.AvailableSeats < diff {
			return nil, &SeatsUnavailableError{Requested: diff, Available: sched.AvailableSeats}
		}
		if _, err := s.schedules.AdjustAvailability(ctx, booking.ScheduleID, -diff); err != nil {
			if errors.Is(err, repository.ErrCapacityExceeded) {
				available := 0
				if cur, ferr := s.schedules.FindByID(ctx, booking.ScheduleID); ferr == nil {
					available = cur.AvailableSeats
				}
				return nil, &SeatsUnavailableError{Requested: diff, Available: available}
			}
			return nil, err
		}
		booking.SeatCount = *in.SeatCount
		booking.TotalAmount = sched.Fare * float64(*in.SeatCount)
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		if diff != 0 {
			// Give the seats back so the ledger and the counter stay in step.
			if _, advErr := s.schedules.AdjustAvailability(ctx, booking.ScheduleID, diff); advErr != nil {
				log.Printf("booking: compensation adjust for schedule %d failed: %v", booking.ScheduleID, advErr)
			}
		}
		return nil, err
	}
	return s.record(ctx, booking)
}

// CancelBooking transitions a confirmed booking to CANCELLED and
// releases its seats back to the schedule. Cancelling an already
// cancelled booking fails with ErrAlreadyCancelled and changes nothing.
func (s *BookingService) CancelBooking(ctx context.Context, id uint64) (*model.BookingRecord, error) {
	mu := s.lockBooking(id)
	mu.Lock()
	defer mu.Unlock()

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	return s.cancelLocked(ctx, booking, *booking)
}

// cancelLocked performs the status write and the seat release as one
// unit: when the release fails the booking is restored to prior, the
// row exactly as it was loaded, so none of the caller's patch survives
// the failed operation. Callers must hold the booking's stripe lock.
func (s *BookingService) cancelLocked(ctx context.Context, booking *model.Booking, prior model.Booking) (*model.BookingRecord, error) {
	booking.Status = model.BookingCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		*booking = prior
		return nil, err
	}
	if _, err := s.schedules.AdjustAvailability(ctx, booking.ScheduleID, booking.SeatCount); err != nil {
		if revErr := s.bookings.Update(ctx, &prior); revErr != nil {
			log.Printf("booking: reverting cancel of booking %d failed: %v", booking.ID, revErr)
		}
		*booking = prior
		return nil, err
	}

	rec, err := s.record(ctx, booking)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, rec)
	}
	return rec, nil
}

// GetBooking returns the record for a booking id.
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (*model.BookingRecord, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, booking)
}

// GetBookingByCode returns the record for a reservation code.
func (s *BookingService) GetBookingByCode(ctx context.Context, code string) (*model.BookingRecord, error) {
	booking, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, booking)
}

// ListBookings returns records for every booking in the ledger.
func (s *BookingService) ListBookings(ctx context.Context) ([]model.BookingRecord, error) {
	bookings, err := s.bookings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.BookingRecord, 0, len(bookings))
	for i := range bookings {
		rec, err := s.record(ctx, &bookings[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// record joins a booking with its trip details into the read model.
func (s *BookingService) record(ctx context.Context, b *model.Booking) (*model.BookingRecord, error) {
	detail, err := s.schedules.FindDetail(ctx, b.ScheduleID)
	if err != nil {
		return nil, err
	}
	return &model.BookingRecord{
		ID:             b.ID,
		ScheduleID:     b.ScheduleID,
		PassengerName:  b.PassengerName,
		PassengerEmail: b.PassengerEmail,
		PassengerPhone: b.PassengerPhone,
		SeatCount:      b.SeatCount,
		TotalAmount:    b.TotalAmount,
		Status:         b.Status,
		PNR:            b.PNR,
		CreatedAt:      b.CreatedAt,
		TrainNumber:    detail.TrainNumber,
		TrainName:      detail.TrainName,
		Origin:         detail.Origin,
		Destination:    detail.Destination,
		ServiceDate:    detail.ServiceDate,
		DepartureTime:  detail.DepartureTime,
		ArrivalTime:    detail.ArrivalTime,
	}, nil
}
