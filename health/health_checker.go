// Package health provides health checking for the pill reminder service.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/avelar/pillreminder-api/logging"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl reports service health from the entity store and the
// reference-dataset gate.
type HealthCheckerImpl struct {
	store interfaces.EntityStore
	gate  interfaces.DatasetGate
}

// NewHealthChecker creates a health checker with injected dependencies.
func NewHealthChecker(store interfaces.EntityStore, gate interfaces.DatasetGate) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store: store,
		gate:  gate,
	}
}

// HealthCheck returns the status plus data for the /health endpoint.
// The store being unreachable is unhealthy; a missing or stale dataset
// only degrades, because the gate fails open and the core keeps working.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	patientCount, storeErr := h.store.CountPatients()

	datasetRows := h.gate.RowCount()
	lastLoaded := h.gate.LastLoaded()
	datasetAge := time.Since(lastLoaded)

	switch {
	case storeErr != nil:
		logging.Error("Health check failed to reach entity store", "error", storeErr)
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case datasetRows == 0:
		status = "degraded"
		httpStatus = http.StatusOK

	case datasetAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"patients":          patientCount,
		"store_reachable":   storeErr == nil,
		"dataset_rows":      datasetRows,
		"dataset_loaded":    lastLoaded.Format(time.RFC3339),
		"dataset_age_hours": math.Round(datasetAge.Hours()*10) / 10,
		"is_updating":       h.gate.IsUpdating(),
	}

	return status, data, httpStatus
}
