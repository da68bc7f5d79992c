package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/middleware"
)

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookWithoutSessionIsUnauthorized(t *testing.T) {
	h := NewBookingHandler()
	c, rec := newContext(t, http.MethodPost, "/v1/reservations", `{"itinerary_index":0}`)

	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestBookWithoutLoginIsRejected(t *testing.T) {
	h := NewBookingHandler()
	c, rec := newContext(t, http.MethodPost, "/v1/reservations", `{"itinerary_index":0}`)
	c.Set(middleware.ContextSessionKey, booking.NewSession(booking.Deps{}))

	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot book reservations, not logged in")
}

func TestBookRequiresItineraryIndex(t *testing.T) {
	h := NewBookingHandler()
	c, rec := newContext(t, http.MethodPost, "/v1/reservations", `{}`)
	c.Set(middleware.ContextSessionKey, booking.NewSession(booking.Deps{}))

	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchValidatesParams(t *testing.T) {
	h := NewBookingHandler()

	c, rec := newContext(t, http.MethodGet, "/v1/itineraries?dest=Boston%20MA&day=14&max=5", "")
	c.Set(middleware.ContextSessionKey, booking.NewSession(booking.Deps{}))
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(t, http.MethodGet, "/v1/itineraries?origin=A&dest=B&day=40&max=5", "")
	c.Set(middleware.ContextSessionKey, booking.NewSession(booking.Deps{}))
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid day")
}

func TestPayValidatesReservationID(t *testing.T) {
	h := NewBookingHandler()
	c, rec := newContext(t, http.MethodPost, "/v1/reservations/abc/payment", "")
	c.SetParamNames("rid")
	c.SetParamValues("abc")
	c.Set(middleware.ContextSessionKey, booking.NewSession(booking.Deps{}))

	require.NoError(t, h.Pay(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelWithoutLoginIsRejected(t *testing.T) {
	h := NewBookingHandler()
	c, rec := newContext(t, http.MethodDelete, "/v1/reservations/3", "")
	c.SetParamNames("rid")
	c.SetParamValues("3")
	c.Set(middleware.ContextSessionKey, booking.NewSession(booking.Deps{}))

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot cancel reservations, not logged in")
}
