package model

// Environment represents a parish neighborhood group
// ("lingkungan").  Environments are reference data maintained by
// admins and used to group users; they play no role in seat
// accounting.
//
// Fields:
//  ID   – primary key identifier (UUID string).
//  Name – unique environment name.
type Environment struct {
	ID   string `json:"id"`   // environments.id
	Name string `json:"name"` // environments.name
}
