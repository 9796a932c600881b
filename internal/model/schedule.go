package model

import "time"

// Schedule represents one dated, timed run of a train between two
// stations.  It owns the seat inventory for that run: TotalSeats is
// fixed when the schedule is created and AvailableSeats is the mutable
// counter every booking operation contends on.
//
// The counter is only ever mutated through the catalog's atomic
// adjustment; Version backs the optimistic write used there.  The
// invariant 0 <= AvailableSeats <= TotalSeats holds at all times.
//
// Fields:
//  ID             – primary key identifier.
//  TrainID        – train performing this run.
//  Origin         – departure station name.
//  Destination    – arrival station name.
//  ServiceDate    – date of the run, "YYYY-MM-DD".
//  DepartureTime  – departure time of day, "HH:MM".
//  ArrivalTime    – arrival time of day, "HH:MM".
//  Fare           – fare per seat, fixed at creation.
//  TotalSeats     – capacity, fixed at creation.
//  AvailableSeats – seats still open for booking.
//  Version        – optimistic concurrency counter.
type Schedule struct {
	ID             uint64    `json:"id"`              // schedules.id
	TrainID        uint64    `json:"train_id"`        // schedules.train_id
	Origin         string    `json:"origin"`          // schedules.origin
	Destination    string    `json:"destination"`     // schedules.destination
	ServiceDate    string    `json:"service_date"`    // schedules.service_date
	DepartureTime  string    `json:"departure_time"`  // schedules.departure_time
	ArrivalTime    string    `json:"arrival_time"`    // schedules.arrival_time
	Fare           float64   `json:"fare"`            // schedules.fare
	TotalSeats     int       `json:"total_seats"`     // schedules.total_seats
	AvailableSeats int       `json:"available_seats"` // schedules.available_seats
	Version        int64     `json:"-"`               // schedules.version
	CreatedAt      time.Time `json:"created_at"`      // schedules.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // schedules.updated_at
}

// TrainSchedule is the denormalized read model returned by trip search
// and embedded in booking records.  It joins a schedule with its
// train's catalog fields so clients need no second lookup.
type TrainSchedule struct {
	ScheduleID     uint64     `json:"schedule_id"`
	TrainID        uint64     `json:"train_id"`
	TrainNumber    string     `json:"train_number"`
	TrainName      string     `json:"train_name"`
	TrainClass     TrainClass `json:"train_class"`
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	ServiceDate    string     `json:"service_date"`
	DepartureTime  string     `json:"departure_time"`
	ArrivalTime    string     `json:"arrival_time"`
	Fare           float64    `json:"fare"`
	AvailableSeats int        `json:"available_seats"`
	TotalSeats     int        `json:"total_seats"`
}
