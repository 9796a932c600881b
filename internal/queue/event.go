// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// created. It carries enough information for downstream consumers to
// notify the passenger without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	PNR           string  `json:"pnr"`
	PassengerName string  `json:"passenger_name"`
	Recipient     string  `json:"recipient"`
	SeatCount     int     `json:"seat_count"`
	TotalAmount   float64 `json:"total_amount"`
	TripSummary   string  `json:"trip_summary"`
	ConfirmedAt   string  `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and
// its seats released.
type BookingCancelledEvent struct {
	BookingID     uint64 `json:"booking_id"`
	PNR           string `json:"pnr"`
	PassengerName string `json:"passenger_name"`
	Recipient     string `json:"recipient"`
	CancelledAt   string `json:"cancelled_at"`
}
