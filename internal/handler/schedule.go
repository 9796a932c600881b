package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// ScheduleHandler serves the admin endpoints for publishing and
// listing schedules.  Routes using it are wrapped by the JWT
// middleware.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Catalog   *repository.ScheduleSearch
}

// NewScheduleHandler constructs a ScheduleHandler.  Both repositories
// must be non-nil.
func NewScheduleHandler(schedules *repository.ScheduleRepo, catalog *repository.ScheduleSearch) *ScheduleHandler {
	if schedules == nil || catalog == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Schedules: schedules, Catalog: catalog}
}

// Create handles POST /v1/admin/schedules.  It validates the trip
// definition, verifies the train exists and inserts the schedule with
// a full complement of available seats.
func (h *ScheduleHandler) Create(c echo.Context) error {
	var body struct {
		TrainID       uint64  `json:"train_id"`
		Origin        string  `json:"origin"`
		Destination   string  `json:"destination"`
		ServiceDate   string  `json:"service_date"`
		DepartureTime string  `json:"departure_time"`
		ArrivalTime   string  `json:"arrival_time"`
		Fare          float64 `json:"fare"`
		TotalSeats    int     `json:"total_seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	origin := strings.TrimSpace(body.Origin)
	destination := strings.TrimSpace(body.Destination)
	switch {
	case body.TrainID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_id is required"})
	case origin == "" || destination == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination are required"})
	case strings.EqualFold(origin, destination):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	case body.Fare <= 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fare must be positive"})
	case body.TotalSeats <= 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}
	if _, err := time.Parse("2006-01-02", body.ServiceDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", body.DepartureTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time must be HH:MM"})
	}
	if _, err := time.Parse("15:04", body.ArrivalTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be HH:MM"})
	}

	ctx := c.Request().Context()
	if _, err := h.Schedules.FindTrain(ctx, body.TrainID); err != nil {
		if errors.Is(err, repository.ErrTrainNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		c.Logger().Errorf("train lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	sched := &model.Schedule{
		TrainID:       body.TrainID,
		Origin:        origin,
		Destination:   destination,
		ServiceDate:   body.ServiceDate,
		DepartureTime: body.DepartureTime,
		ArrivalTime:   body.ArrivalTime,
		Fare:          body.Fare,
		TotalSeats:    body.TotalSeats,
	}
	if err := h.Schedules.Create(ctx, sched); err != nil {
		c.Logger().Errorf("schedule create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, sched)
}

// List handles GET /v1/admin/schedules and returns every schedule with
// its train details.
func (h *ScheduleHandler) List(c echo.Context) error {
	trips, err := h.Catalog.ListAll(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("schedule listing failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": trips})
}
