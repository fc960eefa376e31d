// Package queue defines message payloads exchanged over the message broker.
package queue

// RideBookedEvent is published when seats are successfully reserved on a
// ride. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type RideBookedEvent struct {
	BookingID      string `json:"booking_id"`
	RideID         string `json:"ride_id"`
	PassengerID    string `json:"passenger_id"`
	DriverID       string `json:"driver_id"`
	MassID         string `json:"mass_id"`
	MassName       string `json:"mass_name"`
	MassDatetime   string `json:"mass_datetime"`
	SeatsRequested int    `json:"seats_requested"`
	SeatsRemaining int    `json:"seats_remaining"`
	BookedAt       string `json:"booked_at"`
}
