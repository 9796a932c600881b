package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// memCatalog and memLedger back the handler tests with in-memory
// stores so the full HTTP-to-service path runs without a database.
type memCatalog struct {
	mu        sync.Mutex
	schedules map[uint64]*model.Schedule
}

func (c *memCatalog) FindByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schedules[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

func (c *memCatalog) AdjustAvailability(ctx context.Context, id uint64, delta int) (*model.Schedule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schedules[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	next := s.AvailableSeats + delta
	if next < 0 || next > s.TotalSeats {
		return nil, repository.ErrCapacityExceeded
	}
	s.AvailableSeats = next
	cp := *s
	return &cp, nil
}

func (c *memCatalog) FindDetail(ctx context.Context, scheduleID uint64) (*model.TrainSchedule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schedules[scheduleID]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	return &model.TrainSchedule{
		ScheduleID:     s.ID,
		TrainID:        s.TrainID,
		TrainNumber:    "TR001",
		TrainName:      "Rajdhani Express",
		TrainClass:     model.FirstClass,
		Origin:         s.Origin,
		Destination:    s.Destination,
		ServiceDate:    s.ServiceDate,
		DepartureTime:  s.DepartureTime,
		ArrivalTime:    s.ArrivalTime,
		Fare:           s.Fare,
		AvailableSeats: s.AvailableSeats,
		TotalSeats:     s.TotalSeats,
	}, nil
}

type memLedger struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
}

func (l *memLedger) Create(ctx context.Context, b *model.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	b.ID = l.nextID
	cp := *b
	l.bookings[b.ID] = &cp
	return nil
}

func (l *memLedger) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (l *memLedger) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.bookings {
		if b.PNR == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (l *memLedger) FindAll(ctx context.Context) ([]model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (l *memLedger) Update(ctx context.Context, b *model.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	cp := *b
	l.bookings[b.ID] = &cp
	return nil
}

func (l *memLedger) Delete(ctx context.Context, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(l.bookings, id)
	return nil
}

func newBookingTestServer(available int) (*echo.Echo, *memCatalog) {
	catalog := &memCatalog{schedules: map[uint64]*model.Schedule{
		1: {
			ID:             1,
			TrainID:        1,
			Origin:         "Delhi",
			Destination:    "Mumbai",
			ServiceDate:    "2026-09-15",
			DepartureTime:  "16:00",
			ArrivalTime:    "08:00",
			Fare:           2500,
			TotalSeats:     300,
			AvailableSeats: available,
		},
	}}
	ledger := &memLedger{bookings: make(map[uint64]*model.Booking)}
	svc := service.NewBookingService(catalog, ledger, nil)
	h := NewBookingHandler(svc)

	e := echo.New()
	e.POST("/v1/bookings", h.Create)
	e.GET("/v1/bookings", h.List)
	e.GET("/v1/bookings/:id", h.Get)
	e.GET("/v1/bookings/pnr/:code", h.GetByCode)
	e.PUT("/v1/bookings/:id", h.Update)
	e.DELETE("/v1/bookings/:id", h.Cancel)
	return e, catalog
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateBookingEndpoint(t *testing.T) {
	e, catalog := newBookingTestServer(300)

	rec := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 1,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"passenger_phone": "+919876543210",
		"seat_count": 3
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.BookingRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Equal(t, 7500.0, got.TotalAmount)
	assert.Regexp(t, `^PNR[0-9]{6}$`, got.PNR)
	assert.Equal(t, "Rajdhani Express", got.TrainName)
	assert.Equal(t, 297, catalog.schedules[1].AvailableSeats)
}

func TestCreateBookingValidation(t *testing.T) {
	e, _ := newBookingTestServer(300)

	cases := []struct {
		name string
		body string
	}{
		{"missing schedule", `{"passenger_name":"Asha Verma","passenger_email":"asha@example.com","seat_count":1}`},
		{"short name", `{"schedule_id":1,"passenger_name":"A","passenger_email":"asha@example.com","seat_count":1}`},
		{"bad email", `{"schedule_id":1,"passenger_name":"Asha Verma","passenger_email":"not-an-email","seat_count":1}`},
		{"bad phone", `{"schedule_id":1,"passenger_name":"Asha Verma","passenger_email":"asha@example.com","passenger_phone":"12ab","seat_count":1}`},
		{"zero seats", `{"schedule_id":1,"passenger_name":"Asha Verma","passenger_email":"asha@example.com","seat_count":0}`},
		{"too many seats", `{"schedule_id":1,"passenger_name":"Asha Verma","passenger_email":"asha@example.com","seat_count":11}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/v1/bookings", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateBookingUnknownScheduleEndpoint(t *testing.T) {
	e, _ := newBookingTestServer(300)
	rec := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 42,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"seat_count": 1
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookingSeatsUnavailableEndpoint(t *testing.T) {
	e, _ := newBookingTestServer(2)
	rec := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 1,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"seat_count": 5
	}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body["requested"])
	assert.Equal(t, float64(2), body["available"])
}

func TestGetBookingEndpoint(t *testing.T) {
	e, _ := newBookingTestServer(300)
	created := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 1,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"seat_count": 2
	}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var rec model.BookingRecord
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rec))

	byID := doJSON(e, http.MethodGet, "/v1/bookings/"+strconv.FormatUint(rec.ID, 10), "")
	assert.Equal(t, http.StatusOK, byID.Code)

	byCode := doJSON(e, http.MethodGet, "/v1/bookings/pnr/"+rec.PNR, "")
	assert.Equal(t, http.StatusOK, byCode.Code)

	missing := doJSON(e, http.MethodGet, "/v1/bookings/999", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	badID := doJSON(e, http.MethodGet, "/v1/bookings/abc", "")
	assert.Equal(t, http.StatusBadRequest, badID.Code)
}

func TestUpdateBookingEndpoint(t *testing.T) {
	e, catalog := newBookingTestServer(300)
	created := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 1,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"seat_count": 2
	}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var rec model.BookingRecord
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rec))
	path := "/v1/bookings/" + strconv.FormatUint(rec.ID, 10)

	updated := doJSON(e, http.MethodPut, path, `{"seat_count": 4}`)
	require.Equal(t, http.StatusOK, updated.Code)
	var after model.BookingRecord
	require.NoError(t, json.Unmarshal(updated.Body.Bytes(), &after))
	assert.Equal(t, 4, after.SeatCount)
	assert.Equal(t, 10000.0, after.TotalAmount)
	assert.Equal(t, 296, catalog.schedules[1].AvailableSeats)

	badStatus := doJSON(e, http.MethodPut, path, `{"status": "PENDING"}`)
	assert.Equal(t, http.StatusBadRequest, badStatus.Code)

	noop := doJSON(e, http.MethodPut, path, `{"status": "CONFIRMED"}`)
	assert.Equal(t, http.StatusOK, noop.Code)

	cancelled := doJSON(e, http.MethodPut, path, `{"status": "CANCELLED"}`)
	require.Equal(t, http.StatusOK, cancelled.Code)
	assert.Equal(t, 300, catalog.schedules[1].AvailableSeats)

	afterCancel := doJSON(e, http.MethodPut, path, `{"passenger_name": "Someone Else"}`)
	assert.Equal(t, http.StatusConflict, afterCancel.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	e, catalog := newBookingTestServer(300)
	created := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 1,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"seat_count": 3
	}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var rec model.BookingRecord
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rec))
	path := "/v1/bookings/" + strconv.FormatUint(rec.ID, 10)

	first := doJSON(e, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, first.Code)
	var after model.BookingRecord
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &after))
	assert.Equal(t, model.BookingCancelled, after.Status)
	assert.Equal(t, 300, catalog.schedules[1].AvailableSeats)

	second := doJSON(e, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestCancelBookingCapacityConflictEndpoint(t *testing.T) {
	e, catalog := newBookingTestServer(300)
	created := doJSON(e, http.MethodPost, "/v1/bookings", `{
		"schedule_id": 1,
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"seat_count": 3
	}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var rec model.BookingRecord
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rec))

	// Force the seat release to overflow total capacity so the cancel
	// fails with a counter-range conflict rather than succeeding.
	catalog.mu.Lock()
	catalog.schedules[1].AvailableSeats = 300
	catalog.mu.Unlock()

	resp := doJSON(e, http.MethodDelete, "/v1/bookings/"+strconv.FormatUint(rec.ID, 10), "")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestListBookingsEndpoint(t *testing.T) {
	e, _ := newBookingTestServer(300)
	for i := 0; i < 2; i++ {
		rec := doJSON(e, http.MethodPost, "/v1/bookings", `{
			"schedule_id": 1,
			"passenger_name": "Asha Verma",
			"passenger_email": "asha@example.com",
			"seat_count": 1
		}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/v1/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Bookings []model.BookingRecord `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Bookings, 2)
}
