package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nebeng/nebeng-api/internal/inventory"
	"github.com/nebeng/nebeng-api/internal/model"
)

func newBookingTestEnv(t *testing.T, seats int) (*BookingHandler, *inventory.MemoryStore, *model.Ride) {
	t.Helper()
	store := inventory.NewMemoryStore()
	ride := &model.Ride{DriverID: "driver-1", MassID: "mass-1", SeatsTotal: seats}
	if err := store.CreateRide(context.Background(), ride); err != nil {
		t.Fatalf("create ride: %v", err)
	}
	h := &BookingHandler{Engine: inventory.NewEngine(store)} // Publish nil: no broker in tests
	return h, store, ride
}

func newAuthedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c
}

func TestBookingCreate(t *testing.T) {
	h, store, ride := newBookingTestEnv(t, 3)
	e := echo.New()

	body := `{"rideId":"` + ride.ID + `","seats":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var booking model.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if booking.SeatsRequested != 2 || booking.PassengerID != "passenger-1" {
		t.Errorf("unexpected booking: %+v", booking)
	}

	updated, err := store.GetRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if updated.SeatsAvailable != 1 {
		t.Errorf("expected 1 seat left, got %d", updated.SeatsAvailable)
	}
}

func TestBookingCreateDefaultsToOneSeat(t *testing.T) {
	h, store, ride := newBookingTestEnv(t, 3)
	e := echo.New()

	body := `{"rideId":"` + ride.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _ := store.GetRide(context.Background(), ride.ID)
	if updated.SeatsAvailable != 2 {
		t.Errorf("expected 2 seats left, got %d", updated.SeatsAvailable)
	}
}

func TestBookingCreateErrors(t *testing.T) {
	h, store, ride := newBookingTestEnv(t, 1)
	e := echo.New()

	if _, err := store.UpdateRideStatus(context.Background(), ride.ID, model.RideStatusInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing ride id", `{"seats":1}`, http.StatusBadRequest},
		{"unknown ride", `{"rideId":"nope","seats":1}`, http.StatusNotFound},
		{"inactive ride", `{"rideId":"` + ride.ID + `","seats":1}`, http.StatusNotFound},
		{"negative seats", `{"rideId":"` + ride.ID + `","seats":-2}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)

		if err := h.Create(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d: %s", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestBookingCreateInsufficientSeats(t *testing.T) {
	h, _, ride := newBookingTestEnv(t, 2)
	e := echo.New()

	body := `{"rideId":"` + ride.ID + `","seats":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookingDelete(t *testing.T) {
	h, store, ride := newBookingTestEnv(t, 2)
	e := echo.New()

	booking, err := h.Engine.Reserve(context.Background(), ride.ID, "passenger-1", 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/"+booking.ID, nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)
	c.SetPath("/api/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues(booking.ID)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _ := store.GetRide(context.Background(), ride.ID)
	if updated.SeatsAvailable != 2 {
		t.Errorf("expected seats restored, got %d", updated.SeatsAvailable)
	}
}

func TestBookingDeleteWrongOwner(t *testing.T) {
	h, store, ride := newBookingTestEnv(t, 2)
	e := echo.New()

	booking, err := h.Engine.Reserve(context.Background(), ride.ID, "passenger-1", 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/"+booking.ID, nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "someone-else", model.RolePassenger)
	c.SetPath("/api/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues(booking.ID)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _ := store.GetRide(context.Background(), ride.ID)
	if updated.SeatsAvailable != 1 {
		t.Errorf("forbidden release must not restore seats, got %d", updated.SeatsAvailable)
	}
}

func TestBookingDeleteUnknown(t *testing.T) {
	h, _, _ := newBookingTestEnv(t, 1)
	e := echo.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/nope", nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)
	c.SetPath("/api/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookingListMine(t *testing.T) {
	h, _, ride := newBookingTestEnv(t, 5)
	e := echo.New()

	if _, err := h.Engine.Reserve(context.Background(), ride.ID, "passenger-1", 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := h.Engine.Reserve(context.Background(), ride.ID, "passenger-2", 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "passenger-1", model.RolePassenger)

	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var bookings []model.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bookings) != 1 || bookings[0].PassengerID != "passenger-1" {
		t.Errorf("expected only own bookings, got %+v", bookings)
	}
}

func TestBookingListForRideRequiresOwnership(t *testing.T) {
	h, _, ride := newBookingTestEnv(t, 3)
	e := echo.New()

	if _, err := h.Engine.Reserve(context.Background(), ride.ID, "passenger-1", 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// Another driver is rejected.
	req := httptest.NewRequest(http.MethodGet, "/api/rides/"+ride.ID+"/bookings", nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec, "driver-2", model.RoleDriver)
	c.SetPath("/api/rides/:id/bookings")
	c.SetParamNames("id")
	c.SetParamValues(ride.ID)
	if err := h.ListForRide(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign driver, got %d", rec.Code)
	}

	// The owning driver sees the bookings.
	req = httptest.NewRequest(http.MethodGet, "/api/rides/"+ride.ID+"/bookings", nil)
	rec = httptest.NewRecorder()
	c = newAuthedContext(e, req, rec, "driver-1", model.RoleDriver)
	c.SetPath("/api/rides/:id/bookings")
	c.SetParamNames("id")
	c.SetParamValues(ride.ID)
	if err := h.ListForRide(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
	var bookings []model.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}
}
