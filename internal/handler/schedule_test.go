package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

func newScheduleTestServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewScheduleHandler(repository.NewScheduleRepo(db), repository.NewScheduleSearch(db))
	e := echo.New()
	e.POST("/v1/admin/schedules", h.Create)
	e.GET("/v1/admin/schedules", h.List)
	return e, mock
}

func TestCreateScheduleEndpoint(t *testing.T) {
	e, mock := newScheduleTestServer(t)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM trains WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_number", "train_name", "train_class", "total_seats"}).
			AddRow(1, "TR001", "Rajdhani Express", "FIRST_CLASS", 300))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("FROM schedules WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "train_id", "origin", "destination",
			"service_date", "departure_time", "arrival_time",
			"fare", "total_seats", "available_seats", "version",
			"created_at", "updated_at",
		}).AddRow(5, 1, "Delhi", "Mumbai", "2026-09-15", "16:00", "08:00",
			2500.0, 300, 300, 0, now, now))

	rec := doJSON(e, http.MethodPost, "/v1/admin/schedules", `{
		"train_id": 1,
		"origin": "Delhi",
		"destination": "Mumbai",
		"service_date": "2026-09-15",
		"departure_time": "16:00",
		"arrival_time": "08:00",
		"fare": 2500,
		"total_seats": 300
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(5), got.ID)
	assert.Equal(t, 300, got.AvailableSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateScheduleUnknownTrain(t *testing.T) {
	e, mock := newScheduleTestServer(t)
	mock.ExpectQuery("FROM trains WHERE id").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_number", "train_name", "train_class", "total_seats"}))

	rec := doJSON(e, http.MethodPost, "/v1/admin/schedules", `{
		"train_id": 9,
		"origin": "Delhi",
		"destination": "Mumbai",
		"service_date": "2026-09-15",
		"departure_time": "16:00",
		"arrival_time": "08:00",
		"fare": 2500,
		"total_seats": 300
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateScheduleValidation(t *testing.T) {
	e, _ := newScheduleTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing train", `{"origin":"Delhi","destination":"Mumbai","service_date":"2026-09-15","departure_time":"16:00","arrival_time":"08:00","fare":2500,"total_seats":300}`},
		{"same stations", `{"train_id":1,"origin":"Delhi","destination":"delhi","service_date":"2026-09-15","departure_time":"16:00","arrival_time":"08:00","fare":2500,"total_seats":300}`},
		{"bad date", `{"train_id":1,"origin":"Delhi","destination":"Mumbai","service_date":"15/09/2026","departure_time":"16:00","arrival_time":"08:00","fare":2500,"total_seats":300}`},
		{"bad time", `{"train_id":1,"origin":"Delhi","destination":"Mumbai","service_date":"2026-09-15","departure_time":"4pm","arrival_time":"08:00","fare":2500,"total_seats":300}`},
		{"zero fare", `{"train_id":1,"origin":"Delhi","destination":"Mumbai","service_date":"2026-09-15","departure_time":"16:00","arrival_time":"08:00","fare":0,"total_seats":300}`},
		{"zero seats", `{"train_id":1,"origin":"Delhi","destination":"Mumbai","service_date":"2026-09-15","departure_time":"16:00","arrival_time":"08:00","fare":2500,"total_seats":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/v1/admin/schedules", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListSchedulesEndpoint(t *testing.T) {
	e, mock := newScheduleTestServer(t)
	mock.ExpectQuery("FROM schedules s JOIN trains t").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "train_id", "train_number", "train_name", "train_class",
			"origin", "destination", "service_date", "departure_time", "arrival_time",
			"fare", "available_seats", "total_seats",
		}).AddRow(1, 1, "TR001", "Rajdhani Express", "FIRST_CLASS",
			"Delhi", "Mumbai", "2026-09-15", "16:00", "08:00", 2500.0, 297, 300))

	rec := doJSON(e, http.MethodGet, "/v1/admin/schedules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Schedules []model.TrainSchedule `json:"schedules"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Schedules, 1)
	assert.Equal(t, "TR001", body.Schedules[0].TrainNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
