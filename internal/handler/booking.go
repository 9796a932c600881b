package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// phonePattern accepts an optional leading "+" followed by 10 to 15
// digits.
var phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)

const (
	minSeatsPerBooking = 1
	maxSeatsPerBooking = 10
)

// BookingHandler exposes the booking lifecycle over HTTP.  Validation
// happens here; the service layer enforces inventory and state rules
// and reports them through typed errors that this handler maps to
// status codes.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  The service must be
// non-nil.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

func validName(s string) bool {
	n := len(strings.TrimSpace(s))
	return n >= 2 && n <= 100
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// bookingError translates service and repository errors into HTTP
// responses.  Unknown errors become 500 without leaking detail.
func bookingError(c echo.Context, err error) error {
	var unavailable *service.SeatsUnavailableError
	switch {
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "seats unavailable",
			"requested": unavailable.Requested,
			"available": unavailable.Available,
		})
	case errors.Is(err, service.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is cancelled and can no longer change"})
	case errors.Is(err, repository.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat counters out of range for this schedule"})
	case errors.Is(err, repository.ErrAdjustConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "inventory contention, retry the request"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	default:
		c.Logger().Errorf("booking operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// Create handles POST /v1/bookings.  It validates the passenger
// details and seat count, then asks the service to reserve seats and
// issue a PNR.  Successful creation returns 201 with the full booking
// record.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		ScheduleID     uint64  `json:"schedule_id"`
		PassengerName  string  `json:"passenger_name"`
		PassengerEmail string  `json:"passenger_email"`
		PassengerPhone *string `json:"passenger_phone"`
		SeatCount      int     `json:"seat_count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ScheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required"})
	}
	if !validName(body.PassengerName) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_name must be 2 to 100 characters"})
	}
	if !validEmail(body.PassengerEmail) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_email must be a valid email address"})
	}
	if body.PassengerPhone != nil && !phonePattern.MatchString(*body.PassengerPhone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_phone must be 10 to 15 digits"})
	}
	if body.SeatCount < minSeatsPerBooking || body.SeatCount > maxSeatsPerBooking {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_count must be between 1 and 10"})
	}

	rec, err := h.Bookings.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		ScheduleID:     body.ScheduleID,
		PassengerName:  strings.TrimSpace(body.PassengerName),
		PassengerEmail: body.PassengerEmail,
		PassengerPhone: body.PassengerPhone,
		SeatCount:      body.SeatCount,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /v1/bookings and returns every booking, newest
// first.
func (h *BookingHandler) List(c echo.Context) error {
	recs, err := h.Bookings.ListBookings(c.Request().Context())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": recs})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	rec, err := h.Bookings.GetBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// GetByCode handles GET /v1/bookings/pnr/:code and looks a booking up
// by its reservation code.
func (h *BookingHandler) GetByCode(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation code"})
	}
	rec, err := h.Bookings.GetBookingByCode(c.Request().Context(), code)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Update handles PUT /v1/bookings/:id.  The body is a patch: only the
// fields present are changed.  Setting status to CANCELLED cancels the
// booking and releases its seats; any other status value is rejected.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	var body struct {
		PassengerName  *string `json:"passenger_name"`
		PassengerEmail *string `json:"passenger_email"`
		PassengerPhone *string `json:"passenger_phone"`
		SeatCount      *int    `json:"seat_count"`
		Status         *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PassengerName != nil && !validName(*body.PassengerName) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_name must be 2 to 100 characters"})
	}
	if body.PassengerEmail != nil && !validEmail(*body.PassengerEmail) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_email must be a valid email address"})
	}
	if body.PassengerPhone != nil && !phonePattern.MatchString(*body.PassengerPhone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_phone must be 10 to 15 digits"})
	}
	if body.SeatCount != nil && (*body.SeatCount < minSeatsPerBooking || *body.SeatCount > maxSeatsPerBooking) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_count must be between 1 and 10"})
	}

	in := service.UpdateBookingInput{
		PassengerName:  body.PassengerName,
		PassengerEmail: body.PassengerEmail,
		PassengerPhone: body.PassengerPhone,
		SeatCount:      body.SeatCount,
	}
	if body.Status != nil {
		status := model.BookingStatus(strings.ToUpper(strings.TrimSpace(*body.Status)))
		switch status {
		case model.BookingCancelled:
			in.Status = &status
		case model.BookingConfirmed:
			// No-op on a confirmed booking; the service rejects it on a
			// cancelled one.
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
		}
	}

	rec, err := h.Bookings.UpdateBooking(c.Request().Context(), id, in)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Cancel handles DELETE /v1/bookings/:id.  Cancellation is soft: the
// booking row survives with status CANCELLED and its seats return to
// the schedule.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	rec, err := h.Bookings.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
