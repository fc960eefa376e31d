package model

import "time"

// Ride status values stored in rides.status.  Inactive rides are
// excluded from public listings and reject new bookings.
const (
	RideStatusActive   = "active"
	RideStatusInactive = "inactive"
)

// Ride represents a driver's offered carpool to a mass with a fixed
// seat capacity.  SeatsAvailable is the contended seat counter: it
// always equals SeatsTotal minus the sum of SeatsRequested over all
// bookings currently referencing the ride, and it is mutated only by
// the reservation engine inside a transaction that holds the ride's
// row lock.
//
// Fields:
//  ID             – primary key identifier (UUID string).
//  DriverID       – user offering the ride, immutable.
//  MassID         – mass the ride serves, immutable.
//  PickupPoint    – optional meeting point description.
//  SeatsTotal     – capacity fixed at creation, always >= 1.
//  SeatsAvailable – seats still open, 0 <= SeatsAvailable <= SeatsTotal.
//  Notes          – optional free-form notes from the driver.
//  Status         – active or inactive.
//  CreatedAt      – creation timestamp.
type Ride struct {
	ID             string    `json:"id"`                     // rides.id
	DriverID       string    `json:"driver_id"`              // rides.driver_id
	MassID         string    `json:"mass_id"`                // rides.mass_id
	PickupPoint    *string   `json:"pickup_point,omitempty"` // rides.pickup_point (nullable)
	SeatsTotal     int       `json:"seats_total"`            // rides.seats_total
	SeatsAvailable int       `json:"seats_available"`        // rides.seats_available
	Notes          *string   `json:"notes,omitempty"`        // rides.notes (nullable)
	Status         string    `json:"status"`                 // rides.status
	CreatedAt      time.Time `json:"created_at"`             // rides.created_at
}
