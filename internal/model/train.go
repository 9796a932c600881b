package model

// TrainClass enumerates the service classes a train can run as.  The
// class is catalog data and never changes after a train is created.
type TrainClass string

const (
	FirstClass  TrainClass = "FIRST_CLASS"
	SecondClass TrainClass = "SECOND_CLASS"
	ThirdClass  TrainClass = "THIRD_CLASS"
)

// Train represents a named train in the catalog.  Trains own no seat
// inventory themselves; each scheduled run (Schedule) gets its own
// counter seeded from TotalSeats.
//
// Fields:
//  ID         – primary key identifier.
//  Number     – unique human-facing train number (e.g. "TR001").
//  Name       – display name (e.g. "Rajdhani Express").
//  Class      – service class of the train.
//  TotalSeats – seat capacity of the rolling stock.
type Train struct {
	ID         uint64     `json:"id"`          // trains.id
	Number     string     `json:"number"`      // trains.train_number
	Name       string     `json:"name"`        // trains.train_name
	Class      TrainClass `json:"class"`       // trains.train_class
	TotalSeats int        `json:"total_seats"` // trains.total_seats
}
