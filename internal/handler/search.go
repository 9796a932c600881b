package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/service"
)

// SearchHandler serves the public trip search endpoints.
type SearchHandler struct {
	Search *service.SearchService
}

// NewSearchHandler constructs a SearchHandler.  The service must be
// non-nil.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	if search == nil {
		panic("nil service passed to NewSearchHandler")
	}
	return &SearchHandler{Search: search}
}

// SearchTrains handles GET /v1/trains/search.  Query parameters:
// origin, destination and date are required; seats is optional and
// defaults to 1.  Results are ordered by departure time.
func (h *SearchHandler) SearchTrains(c echo.Context) error {
	origin := strings.TrimSpace(c.QueryParam("origin"))
	destination := strings.TrimSpace(c.QueryParam("destination"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if origin == "" || destination == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin, destination and date are required"})
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	seats := 1
	if raw := c.QueryParam("seats"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be a positive integer"})
		}
		seats = n
	}

	trips, err := h.Search.SearchTrains(c.Request().Context(), origin, destination, date, seats)
	if err != nil {
		c.Logger().Errorf("trip search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"trips": trips})
}

// Stations handles GET /v1/stations and lists every station that
// appears as an origin or destination of any schedule.
func (h *SearchHandler) Stations(c echo.Context) error {
	stations, err := h.Search.Stations(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("station listing failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stations": stations})
}
