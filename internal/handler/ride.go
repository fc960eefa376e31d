package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nebeng/nebeng-api/internal/inventory"
	"github.com/nebeng/nebeng-api/internal/model"
	"github.com/nebeng/nebeng-api/internal/repository"
)

// RideHandler serves ride offers.  Active rides are listed publicly;
// creating a ride requires the driver or admin role, and status
// changes are restricted to the owning driver or an admin.
type RideHandler struct {
	Engine *inventory.Engine
	Rides  *repository.RideRepo
	Masses *repository.MassRepo
}

func NewRideHandler(eng *inventory.Engine, r *repository.RideRepo, m *repository.MassRepo) *RideHandler {
	return &RideHandler{Engine: eng, Rides: r, Masses: m}
}

type createRideReq struct {
	MassID      string  `json:"massId"`
	PickupPoint *string `json:"pickupPoint"`
	SeatsTotal  int     `json:"seatsTotal"`
	Notes       *string `json:"notes"`
}

type rideStatusReq struct {
	Status string `json:"status"` // active | inactive
}

// List returns active rides newest-first, optionally filtered by
// ?massId= (public).  Seat counts are a snapshot; a concurrent
// reservation may commit between this read and a later Reserve call.
func (h *RideHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rides, err := h.Engine.ListActiveRides(ctx, c.QueryParam("massId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rides)
}

// Get returns one ride by id regardless of status (public).
func (h *RideHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ride, err := h.Engine.GetRide(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, inventory.ErrRideNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ride)
}

// Create offers a new ride to a mass (driver or admin).  The ride
// starts active with all seats available.
func (h *RideHandler) Create(c echo.Context) error {
	var req createRideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.MassID = strings.TrimSpace(req.MassID)
	if req.MassID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "massId required"})
	}
	if req.SeatsTotal < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatsTotal must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Masses.GetByID(ctx, req.MassID); err != nil {
		if err == repository.ErrMassNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mass not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ride := &model.Ride{
		DriverID:    getUserID(c),
		MassID:      req.MassID,
		PickupPoint: req.PickupPoint,
		SeatsTotal:  req.SeatsTotal,
		Notes:       req.Notes,
	}
	if err := h.Rides.Create(ctx, ride); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ride failed"})
	}
	return c.JSON(http.StatusCreated, ride)
}

// UpdateStatus activates or deactivates a ride (owning driver or
// admin).  Deactivating hides the ride from listings and blocks new
// reservations; existing bookings are untouched.
func (h *RideHandler) UpdateStatus(c echo.Context) error {
	var req rideStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != model.RideStatusActive && status != model.RideStatusInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or inactive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ride, err := h.Engine.GetRide(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, inventory.ErrRideNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if getRole(c) != model.RoleAdmin && ride.DriverID != getUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if _, err := h.Rides.UpdateStatus(ctx, ride.ID, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	ride.Status = status
	return c.JSON(http.StatusOK, ride)
}
