package model

import "time"

// Booking records a passenger's reservation of seats on a ride.
// A booking's existence is itself the reservation: there is no
// separate confirmed state.  Cancellation deletes the row and is
// the trigger that releases its seats back to the ride.
//
// Fields:
//  ID             – primary key identifier (UUID string).
//  RideID         – ride the seats are reserved on, immutable.
//  PassengerID    – user holding the reservation, immutable.
//  SeatsRequested – number of seats reserved, >= 1, immutable.
//  CreatedAt      – creation timestamp.
type Booking struct {
	ID             string    `json:"id"`              // bookings.id
	RideID         string    `json:"ride_id"`         // bookings.ride_id
	PassengerID    string    `json:"passenger_id"`    // bookings.passenger_id
	SeatsRequested int       `json:"seats_requested"` // bookings.seats_requested
	CreatedAt      time.Time `json:"created_at"`      // bookings.created_at
}
