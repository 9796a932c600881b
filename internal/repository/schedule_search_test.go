package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchMock(t *testing.T) (*ScheduleSearch, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewScheduleSearch(db), mock
}

func tripColumns() []string {
	return []string{
		"id", "train_id", "train_number", "train_name", "train_class",
		"origin", "destination", "service_date", "departure_time", "arrival_time",
		"fare", "available_seats", "total_seats",
	}
}

func TestSearchFiltersAndOrders(t *testing.T) {
	search, mock := newSearchMock(t)
	rows := sqlmock.NewRows(tripColumns()).
		AddRow(2, 2, "TR002", "Shatabdi Express", "FIRST_CLASS",
			"Delhi", "Mumbai", "2026-09-15", "07:15", "12:45", 800.0, 120, 250).
		AddRow(1, 1, "TR001", "Rajdhani Express", "FIRST_CLASS",
			"Delhi", "Mumbai", "2026-09-15", "16:00", "08:00", 2500.0, 297, 300)
	mock.ExpectQuery("FROM schedules s JOIN trains t").
		WithArgs("Delhi", "Mumbai", "2026-09-15", 2).
		WillReturnRows(rows)

	out, err := search.Search(context.Background(), SearchQuery{
		Origin:      "Delhi",
		Destination: "Mumbai",
		ServiceDate: "2026-09-15",
		MinSeats:    2,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "07:15", out[0].DepartureTime)
	assert.Equal(t, "16:00", out[1].DepartureTime)
	assert.Equal(t, "Rajdhani Express", out[1].TrainName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	search, mock := newSearchMock(t)
	mock.ExpectQuery("FROM schedules s JOIN trains t").
		WithArgs("Delhi", "Nowhere", "2026-09-15", 1).
		WillReturnRows(sqlmock.NewRows(tripColumns()))

	out, err := search.Search(context.Background(), SearchQuery{
		Origin:      "Delhi",
		Destination: "Nowhere",
		ServiceDate: "2026-09-15",
		MinSeats:    1,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDetailNotFound(t *testing.T) {
	search, mock := newSearchMock(t)
	mock.ExpectQuery("FROM schedules s JOIN trains t").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(tripColumns()))

	_, err := search.FindDetail(context.Background(), 99)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStations(t *testing.T) {
	search, mock := newSearchMock(t)
	mock.ExpectQuery("SELECT DISTINCT origin FROM schedules UNION").
		WillReturnRows(sqlmock.NewRows([]string{"origin"}).
			AddRow("Chennai").AddRow("Delhi").AddRow("Mumbai"))

	stations, err := search.Stations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chennai", "Delhi", "Mumbai"}, stations)
	assert.NoError(t, mock.ExpectationsWereMet())
}
