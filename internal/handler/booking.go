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
	"github.com/nebeng/nebeng-api/internal/queue"
	"github.com/nebeng/nebeng-api/internal/repository"
	queue_publisher "github.com/nebeng/nebeng-api/internal/service"
)

// BookingHandler serves seat reservations.  All routes require an
// authenticated passenger; every seat mutation goes through the
// inventory engine so handlers never touch the counter directly.
type BookingHandler struct {
	Engine *inventory.Engine
	Masses *repository.MassRepo

	// Publish sends the booking event to the broker after a successful
	// reservation.  Nil disables publishing (tests).
	Publish func(ctx context.Context, ev queue.RideBookedEvent) error
}

func NewBookingHandler(eng *inventory.Engine, m *repository.MassRepo) *BookingHandler {
	return &BookingHandler{Engine: eng, Masses: m, Publish: queue_publisher.PublishRideBooked}
}

type createBookingReq struct {
	RideID string `json:"rideId"`
	Seats  int    `json:"seats"` // defaults to 1 when omitted
}

// ListMine returns the authenticated user's bookings newest-first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Engine.ListBookingsForPassenger(ctx, getUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// ListForRide returns the bookings held against one ride, visible to
// the ride's driver and admins.
func (h *BookingHandler) ListForRide(c echo.Context) error {
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

	bookings, err := h.Engine.ListBookingsForRide(ctx, ride.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Create reserves seats on a ride for the authenticated user.  The
// whole reservation is atomic: on any failure nothing is persisted
// and the ride's seat counter is untouched.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RideID = strings.TrimSpace(req.RideID)
	if req.RideID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rideId required"})
	}
	if req.Seats == 0 {
		req.Seats = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Engine.Reserve(ctx, req.RideID, getUserID(c), req.Seats)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInvalidSeatCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be positive"})
		case errors.Is(err, inventory.ErrRideUnavailable):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride not available"})
		case errors.Is(err, inventory.ErrInsufficientSeats):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not enough seats"})
		case errors.Is(err, inventory.ErrTxConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	h.publishBooked(booking.ID, booking.RideID, booking.PassengerID, booking.SeatsRequested)

	return c.JSON(http.StatusCreated, booking)
}

// Delete cancels a booking owned by the authenticated user and
// returns its seats to the ride.
func (h *BookingHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Engine.Release(ctx, c.Param("id"), getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, inventory.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, inventory.ErrTxConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// publishBooked assembles and sends the RideBookedEvent in the
// background.  Publishing is best-effort; failures only log.
func (h *BookingHandler) publishBooked(bookingID, rideID, passengerID string, seats int) {
	if h.Publish == nil {
		return
	}
	ev := queue.RideBookedEvent{
		BookingID:      bookingID,
		RideID:         rideID,
		PassengerID:    passengerID,
		SeatsRequested: seats,
		BookedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if ride, err := h.Engine.GetRide(ctx, rideID); err == nil {
			ev.DriverID = ride.DriverID
			ev.MassID = ride.MassID
			ev.SeatsRemaining = ride.SeatsAvailable
			if h.Masses != nil {
				if mass, err := h.Masses.GetByID(ctx, ride.MassID); err == nil {
					ev.MassName = mass.Name
					ev.MassDatetime = mass.Datetime.UTC().Format(time.RFC3339)
				}
			}
		}
		_ = h.Publish(ctx, ev)
	}()
}
