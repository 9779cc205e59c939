package domain

import "time"

// Operator is a human user of the service. Provisioned out-of-band; the
// engine only ever sees the resolved Principal derived from one.
type Operator struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal returns the identity the operator presents to the engine.
func (o *Operator) Principal() Principal {
	return Principal{ID: o.ID, Role: o.Role}
}
