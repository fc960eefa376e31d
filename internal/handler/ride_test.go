package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nebeng/nebeng-api/internal/inventory"
	"github.com/nebeng/nebeng-api/internal/model"
)

func TestRideListActiveOnly(t *testing.T) {
	store := inventory.NewMemoryStore()
	h := &RideHandler{Engine: inventory.NewEngine(store)}
	e := echo.New()
	ctx := context.Background()

	active := &model.Ride{DriverID: "d1", MassID: "mass-1", SeatsTotal: 3}
	hidden := &model.Ride{DriverID: "d2", MassID: "mass-1", SeatsTotal: 3}
	for _, r := range []*model.Ride{active, hidden} {
		if err := store.CreateRide(ctx, r); err != nil {
			t.Fatalf("create ride: %v", err)
		}
	}
	if _, err := store.UpdateRideStatus(ctx, hidden.ID, model.RideStatusInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rides?massId=mass-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rides []model.Ride
	if err := json.Unmarshal(rec.Body.Bytes(), &rides); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rides) != 1 || rides[0].ID != active.ID {
		t.Errorf("expected only the active ride, got %+v", rides)
	}
}

func TestRideGet(t *testing.T) {
	store := inventory.NewMemoryStore()
	h := &RideHandler{Engine: inventory.NewEngine(store)}
	e := echo.New()

	ride := &model.Ride{DriverID: "d1", MassID: "mass-1", SeatsTotal: 4}
	if err := store.CreateRide(context.Background(), ride); err != nil {
		t.Fatalf("create ride: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rides/"+ride.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/rides/:id")
	c.SetParamNames("id")
	c.SetParamValues(ride.ID)

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got model.Ride
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != ride.ID || got.SeatsAvailable != 4 {
		t.Errorf("unexpected ride: %+v", got)
	}
}

func TestRideGetUnknown(t *testing.T) {
	h := &RideHandler{Engine: inventory.NewEngine(inventory.NewMemoryStore())}
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/rides/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/rides/:id")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
