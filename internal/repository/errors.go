// Package repository contains the MySQL data access layer.  This file
// defines sentinel error values shared across repositories so that
// handlers can distinguish failure scenarios.  Seat-inventory errors
// (missing rides, missing bookings, transaction conflicts) live in
// the inventory package because they are part of the engine's
// contract; the values here cover the reference-data repositories.
package repository

import "errors"

// ErrMassNotFound indicates that no mass with the given id exists.
// Handlers should translate this into an HTTP 404 response.
var ErrMassNotFound = errors.New("mass not found")

// ErrEnvironmentNotFound indicates that no environment with the given
// id exists.  Handlers should translate this into an HTTP 404.
var ErrEnvironmentNotFound = errors.New("environment not found")

// ErrConflict is returned when a delete cannot be performed because
// dependent records exist, such as deleting a mass that still has
// rides pointing at it.  Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")
