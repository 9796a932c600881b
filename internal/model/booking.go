package model

import "time"

// BookingStatus enumerates the states a booking can be in.  A booking
// is created CONFIRMED and may transition to CANCELLED exactly once;
// CANCELLED is terminal and rejects all further mutation.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking records a reservation of one or more seats on a single
// schedule.  TotalAmount is fare times seat count, recomputed whenever
// the seat count changes while the booking is still confirmed.  Seat
// count and amount are retained after cancellation for audit.
//
// Fields:
//  ID             – primary key identifier.
//  ScheduleID     – schedule the seats are booked on.
//  PassengerName  – passenger full name.
//  PassengerEmail – contact e-mail, notification recipient.
//  PassengerPhone – optional contact phone.
//  SeatCount      – number of seats reserved (>= 1).
//  TotalAmount    – fare per seat times seat count.
//  Status         – CONFIRMED or CANCELLED.
//  PNR            – unique reservation code handed to the passenger.
//  CreatedAt      – creation timestamp, immutable.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64        `json:"id"`              // bookings.id
	ScheduleID     uint64        `json:"schedule_id"`     // bookings.schedule_id
	PassengerName  string        `json:"passenger_name"`  // bookings.passenger_name
	PassengerEmail string        `json:"passenger_email"` // bookings.passenger_email
	PassengerPhone *string       `json:"passenger_phone"` // bookings.passenger_phone (nullable)
	SeatCount      int           `json:"seat_count"`      // bookings.seat_count
	TotalAmount    float64       `json:"total_amount"`    // bookings.total_amount
	Status         BookingStatus `json:"status"`          // bookings.status
	PNR            string        `json:"pnr"`             // bookings.pnr
	CreatedAt      time.Time     `json:"created_at"`      // bookings.created_at
	UpdatedAt      time.Time     `json:"updated_at"`      // bookings.updated_at
}

// BookingRecord is the read model returned to callers.  It carries the
// booking itself plus the denormalized trip fields so a ticket can be
// rendered without further lookups.
type BookingRecord struct {
	ID             uint64        `json:"id"`
	ScheduleID     uint64        `json:"schedule_id"`
	PassengerName  string        `json:"passenger_name"`
	PassengerEmail string        `json:"passenger_email"`
	PassengerPhone *string       `json:"passenger_phone,omitempty"`
	SeatCount      int           `json:"seat_count"`
	TotalAmount    float64       `json:"total_amount"`
	Status         BookingStatus `json:"status"`
	PNR            string        `json:"pnr"`
	CreatedAt      time.Time     `json:"created_at"`
	TrainNumber    string        `json:"train_number"`
	TrainName      string        `json:"train_name"`
	Origin         string        `json:"origin"`
	Destination    string        `json:"destination"`
	ServiceDate    string        `json:"service_date"`
	DepartureTime  string        `json:"departure_time"`
	ArrivalTime    string        `json:"arrival_time"`
}
