// Package entities defines the domain records shared across the pill
// reminder core: patients, medications and the dose entries derived from
// them.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a registered user of the reminder service. The password is
// stored as a bcrypt hash only; handlers must never serialize a Patient
// directly, so the hash stays inside the store and auth layers.
type Patient struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
