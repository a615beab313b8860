// Package interfaces defines the core abstractions of the pill reminder
// service so components can be wired by dependency injection and mocked in
// tests.
package interfaces

import (
	"time"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/google/uuid"
)

// EntityStore is the contract for the durable record store. Every mutation
// is committed before the call returns; there is no partial-write state
// visible to readers.
type EntityStore interface {
	CreatePatient(patient *entities.Patient) error
	FindPatient(username string) (*entities.Patient, error)

	CreateMedication(medication *entities.Medication) error
	GetMedication(id uuid.UUID) (*entities.Medication, error)
	ListMedications(username string) ([]*entities.Medication, error)
	DeleteMedication(id uuid.UUID) error

	SetDoseOverride(override *entities.DoseOverride) error
	ListDoseOverrides(medicationID uuid.UUID) ([]*entities.DoseOverride, error)

	CountPatients() (int, error)
	Close() error
}

// GateResult is the outcome of a reference-dataset check. The gate is
// advisory: callers decide whether an inactive name still gets stored.
type GateResult struct {
	Name             string `json:"name"`
	Inactive         bool   `json:"inactive"`
	InactivationDate string `json:"inactivationDate,omitempty"`
	Matched          bool   `json:"matched"`
}

// DatasetGate checks a candidate medication name against the reference
// dataset. Implementations must be safe for concurrent use; the dataset
// snapshot is immutable after load.
type DatasetGate interface {
	Check(name string) GateResult

	// Snapshot metadata for health reporting.
	RowCount() int
	LastLoaded() time.Time
	IsUpdating() bool
}

// Scheduler manages the periodic reference-dataset refresh and data-age
// monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports overall service health for the /health endpoint.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}
