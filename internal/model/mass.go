package model

import "time"

// Mass represents a scheduled mass a ride transports passengers
// to or from.  Masses are reference data maintained by admins;
// rides point at them through rides.mass_id.
//
// Fields:
//  ID       – primary key identifier (UUID string).
//  Name     – human readable name (e.g. "Sunday Mass 08:00").
//  Datetime – when the mass takes place.
//  Special  – marks one-off celebrations outside the weekly schedule.
type Mass struct {
	ID       string    `json:"id"`       // masses.id
	Name     string    `json:"name"`     // masses.name
	Datetime time.Time `json:"datetime"` // masses.datetime
	Special  bool      `json:"special"`  // masses.special
}
