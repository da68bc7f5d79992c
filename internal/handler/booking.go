package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/model"
)

// BookingHandler exposes the transactional session operations: itinerary
// search, booking, payment, reservation listing and cancellation. The
// engine owns all consistency guarantees; this layer only parses input
// and renders results.
type BookingHandler struct{}

func NewBookingHandler() *BookingHandler { return &BookingHandler{} }

// ----- DTOs -----

type flightPart struct {
	FID             int64  `json:"fid"`
	DayOfMonth      int    `json:"day_of_month"`
	CarrierID       string `json:"carrier_id"`
	FlightNum       string `json:"flight_num"`
	OriginCity      string `json:"origin_city"`
	DestCity        string `json:"dest_city"`
	DurationMinutes int    `json:"duration_minutes"`
	Capacity        int    `json:"capacity"`
	Price           int64  `json:"price"`
	Line            string `json:"line"`
}

type itineraryPart struct {
	Index       int          `json:"index"`
	Description string       `json:"description"`
	Flights     []flightPart `json:"flights"`
}

type reservationPart struct {
	RID     int64        `json:"rid"`
	Paid    bool         `json:"paid"`
	Flights []flightPart `json:"flights"`
}

func toFlightPart(f model.Flight) flightPart {
	return flightPart{
		FID:             f.FID,
		DayOfMonth:      f.DayOfMonth,
		CarrierID:       f.CarrierID,
		FlightNum:       f.FlightNum,
		OriginCity:      f.OriginCity,
		DestCity:        f.DestCity,
		DurationMinutes: f.DurationMinutes,
		Capacity:        f.Capacity,
		Price:           f.Price,
		Line:            f.String(),
	}
}

func toItineraryPart(index int, it model.Itinerary) itineraryPart {
	p := itineraryPart{Index: index, Description: it.Describe()}
	p.Flights = append(p.Flights, toFlightPart(it.First))
	if it.Second != nil {
		p.Flights = append(p.Flights, toFlightPart(*it.Second))
	}
	return p
}

// Search handles GET /v1/itineraries. Query parameters: origin, dest,
// day, max, direct. The result replaces the session's itinerary list;
// the returned indices are the only valid handles for booking until the
// next search.
func (h *BookingHandler) Search(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	origin := c.QueryParam("origin")
	dest := c.QueryParam("dest")
	if origin == "" || dest == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and dest are required"})
	}
	day, err := strconv.Atoi(c.QueryParam("day"))
	if err != nil || day < 1 || day > 31 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day"})
	}
	max, err := strconv.Atoi(c.QueryParam("max"))
	if err != nil || max < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max"})
	}
	directOnly := c.QueryParam("direct") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	its, err := s.Search(ctx, origin, dest, directOnly, day, max)
	if err != nil {
		if errors.Is(err, booking.ErrNoMatches) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	items := make([]itineraryPart, 0, len(its))
	for i, it := range its {
		items = append(items, toItineraryPart(i, it))
	}
	return c.JSON(http.StatusOK, echo.Map{"itineraries": items})
}

// Book handles POST /v1/reservations with body {"itinerary_index": n}.
func (h *BookingHandler) Book(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ItineraryIndex *int `json:"itinerary_index"`
	}
	if err := c.Bind(&body); err != nil || body.ItineraryIndex == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "itinerary_index is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	rid, err := s.Book(ctx, *body.ItineraryIndex)
	if err != nil {
		var noSuch *booking.NoSuchItineraryError
		switch {
		case errors.Is(err, booking.ErrNotLoggedIn):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "cannot book reservations, not logged in"})
		case errors.As(err, &noSuch):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrSameDayConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "booked flight(s)",
		"reservation_id": rid,
	})
}

// Pay handles POST /v1/reservations/:rid/payment.
func (h *BookingHandler) Pay(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rid, err := strconv.ParseInt(c.Param("rid"), 10, 64)
	if err != nil || rid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	remaining, err := s.Pay(ctx, rid)
	if err != nil {
		var notFound *booking.UnpaidReservationError
		var short *booking.InsufficientBalanceError
		switch {
		case errors.Is(err, booking.ErrNotLoggedIn):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "cannot pay, not logged in"})
		case errors.As(err, &notFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.As(err, &short):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":   err.Error(),
				"balance": short.Balance,
				"cost":    short.Cost,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id":    rid,
		"remaining_balance": remaining,
	})
}

// List handles GET /v1/reservations.
func (h *BookingHandler) List(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	views, err := s.ListReservations(ctx)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotLoggedIn):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "cannot view reservations, not logged in"})
		case errors.Is(err, booking.ErrNoReservations):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	items := make([]reservationPart, 0, len(views))
	for _, v := range views {
		p := reservationPart{RID: v.RID, Paid: v.Paid}
		for _, f := range v.Flights {
			p.Flights = append(p.Flights, toFlightPart(f))
		}
		items = append(items, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles DELETE /v1/reservations/:rid.
func (h *BookingHandler) Cancel(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rid, err := strconv.ParseInt(c.Param("rid"), 10, 64)
	if err != nil || rid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	if err := s.Cancel(ctx, rid); err != nil {
		if errors.Is(err, booking.ErrNotLoggedIn) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "cannot cancel reservations, not logged in"})
		}
		// Intentionally one generic failure for everything else,
		// including unknown reservation IDs.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "canceled reservation " + strconv.FormatInt(rid, 10)})
}
