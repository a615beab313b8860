package health

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/google/uuid"
)

type stubStore struct {
	patients int
	countErr error
}

func (s *stubStore) CreatePatient(*entities.Patient) error { return nil }
func (s *stubStore) FindPatient(string) (*entities.Patient, error) {
	return nil, errors.New("not used")
}
func (s *stubStore) CreateMedication(*entities.Medication) error { return nil }
func (s *stubStore) GetMedication(uuid.UUID) (*entities.Medication, error) {
	return nil, errors.New("not used")
}
func (s *stubStore) ListMedications(string) ([]*entities.Medication, error) { return nil, nil }
func (s *stubStore) DeleteMedication(uuid.UUID) error                       { return nil }
func (s *stubStore) SetDoseOverride(*entities.DoseOverride) error           { return nil }
func (s *stubStore) ListDoseOverrides(uuid.UUID) ([]*entities.DoseOverride, error) {
	return nil, nil
}
func (s *stubStore) CountPatients() (int, error) { return s.patients, s.countErr }
func (s *stubStore) Close() error                { return nil }

type stubGate struct {
	rows       int
	lastLoaded time.Time
	updating   bool
}

func (g *stubGate) Check(name string) interfaces.GateResult {
	return interfaces.GateResult{Name: name}
}
func (g *stubGate) RowCount() int         { return g.rows }
func (g *stubGate) LastLoaded() time.Time { return g.lastLoaded }
func (g *stubGate) IsUpdating() bool      { return g.updating }

func TestHealthCheckHealthy(t *testing.T) {
	checker := NewHealthChecker(
		&stubStore{patients: 3},
		&stubGate{rows: 1200, lastLoaded: time.Now().Add(-2 * time.Hour)},
	)

	status, data, httpStatus := checker.HealthCheck()

	if status != "healthy" {
		t.Errorf("got status %q, want healthy", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("got http status %d, want 200", httpStatus)
	}
	if data["patients"] != 3 {
		t.Errorf("got patients %v, want 3", data["patients"])
	}
	if data["store_reachable"] != true {
		t.Error("store_reachable should be true")
	}
	if data["dataset_rows"] != 1200 {
		t.Errorf("got dataset_rows %v, want 1200", data["dataset_rows"])
	}
}

func TestHealthCheckStoreUnreachable(t *testing.T) {
	checker := NewHealthChecker(
		&stubStore{countErr: errors.New("db closed")},
		&stubGate{rows: 1200, lastLoaded: time.Now()},
	)

	status, data, httpStatus := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("got status %q, want unhealthy", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("got http status %d, want 503", httpStatus)
	}
	if data["store_reachable"] != false {
		t.Error("store_reachable should be false")
	}
}

func TestHealthCheckEmptyDatasetDegrades(t *testing.T) {
	checker := NewHealthChecker(&stubStore{}, &stubGate{rows: 0})

	status, _, httpStatus := checker.HealthCheck()

	if status != "degraded" {
		t.Errorf("got status %q, want degraded", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("got http status %d, want 200; an open gate keeps the core working", httpStatus)
	}
}

func TestHealthCheckStaleDatasetDegrades(t *testing.T) {
	checker := NewHealthChecker(
		&stubStore{patients: 1},
		&stubGate{rows: 1200, lastLoaded: time.Now().Add(-72 * time.Hour)},
	)

	status, data, _ := checker.HealthCheck()

	if status != "degraded" {
		t.Errorf("got status %q, want degraded", status)
	}

	age, ok := data["dataset_age_hours"].(float64)
	if !ok || age < 71.9 || age > 72.1 {
		t.Errorf("got dataset_age_hours %v, want about 72", data["dataset_age_hours"])
	}
}

func TestHealthCheckReportsUpdating(t *testing.T) {
	checker := NewHealthChecker(
		&stubStore{},
		&stubGate{rows: 10, lastLoaded: time.Now(), updating: true},
	)

	_, data, _ := checker.HealthCheck()

	if data["is_updating"] != true {
		t.Error("is_updating should be true while a refresh runs")
	}
}
