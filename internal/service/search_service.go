package service

import (
	"context"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// SearchService is the trip-discovery entry point. It is a thin
// delegate over the catalog's read surface; it exists so the search
// path never touches booking-mutation code.
type SearchService struct {
	search TripSearcher
}

// NewSearchService constructs a SearchService.
func NewSearchService(search TripSearcher) *SearchService {
	if search == nil {
		panic("nil searcher passed to NewSearchService")
	}
	return &SearchService{search: search}
}

// SearchTrains returns schedules matching origin, destination and date
// with at least minSeats open, ordered by departure time. minSeats
// below one is treated as one.
func (s *SearchService) SearchTrains(ctx context.Context, origin, destination, date string, minSeats int) ([]model.TrainSchedule, error) {
	if minSeats < 1 {
		minSeats = 1
	}
	return s.search.Search(ctx, repository.SearchQuery{
		Origin:      origin,
		Destination: destination,
		ServiceDate: date,
		MinSeats:    minSeats,
	})
}

// Stations lists every station appearing in the catalog.
func (s *SearchService) Stations(ctx context.Context) ([]string, error) {
	return s.search.Stations(ctx)
}
