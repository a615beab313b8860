package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/avelar/pillreminder-api/store"
	"github.com/avelar/pillreminder-api/validation"
	"github.com/google/uuid"
)

// mockStore is an in-memory EntityStore for builder tests.
type mockStore struct {
	medications []*entities.Medication
	overrides   map[uuid.UUID][]*entities.DoseOverride
}

func newMockStore() *mockStore {
	return &mockStore{overrides: make(map[uuid.UUID][]*entities.DoseOverride)}
}

func (m *mockStore) CreatePatient(*entities.Patient) error { return nil }
func (m *mockStore) FindPatient(username string) (*entities.Patient, error) {
	return nil, store.ErrNotFound
}

func (m *mockStore) CreateMedication(medication *entities.Medication) error {
	m.medications = append(m.medications, medication)
	return nil
}

func (m *mockStore) GetMedication(id uuid.UUID) (*entities.Medication, error) {
	for _, medication := range m.medications {
		if medication.ID == id {
			return medication, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListMedications(username string) ([]*entities.Medication, error) {
	var out []*entities.Medication
	for _, medication := range m.medications {
		if medication.Username == username {
			out = append(out, medication)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteMedication(id uuid.UUID) error {
	for i, medication := range m.medications {
		if medication.ID == id {
			m.medications = append(m.medications[:i], m.medications[i+1:]...)
			delete(m.overrides, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockStore) SetDoseOverride(override *entities.DoseOverride) error {
	m.overrides[override.MedicationID] = append(m.overrides[override.MedicationID], override)
	return nil
}

func (m *mockStore) ListDoseOverrides(medicationID uuid.UUID) ([]*entities.DoseOverride, error) {
	return m.overrides[medicationID], nil
}

func (m *mockStore) CountPatients() (int, error) { return 0, nil }
func (m *mockStore) Close() error                { return nil }

func testMedication(username, name string, days []entities.Weekday, dosesPerDay int) *entities.Medication {
	return &entities.Medication{
		ID:          uuid.New(),
		Username:    username,
		Name:        name,
		Days:        days,
		DosesPerDay: dosesPerDay,
		Notes:       "before food",
		CreatedAt:   time.Now(),
	}
}

func countEntries(week WeeklySchedule) int {
	total := 0
	for _, entries := range week {
		total += len(entries)
	}
	return total
}

func TestBuildWeekEntryCounts(t *testing.T) {
	tests := []struct {
		name        string
		days        []entities.Weekday
		dosesPerDay int
	}{
		{"one day one dose", []entities.Weekday{entities.Monday}, 1},
		{"three days two doses", []entities.Weekday{entities.Monday, entities.Wednesday, entities.Friday}, 2},
		{"all days five doses", entities.Week, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newMockStore()
			ms.CreateMedication(testMedication("gracy", "Acetaminophen", tt.days, tt.dosesPerDay))

			week, err := NewBuilder(ms).BuildWeek("gracy")
			if err != nil {
				t.Fatalf("BuildWeek failed: %v", err)
			}

			want := len(tt.days) * tt.dosesPerDay
			if got := countEntries(week); got != want {
				t.Errorf("BuildWeek produced %d entries, want %d", got, want)
			}

			for _, day := range tt.days {
				if len(week[day]) != tt.dosesPerDay {
					t.Errorf("day %s has %d entries, want %d", day, len(week[day]), tt.dosesPerDay)
				}
			}

			for _, day := range entities.Week {
				if len(week[day]) > 0 && !containsDay(tt.days, day) {
					t.Errorf("unselected day %s has %d entries", day, len(week[day]))
				}
			}
		})
	}
}

func containsDay(days []entities.Weekday, day entities.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func TestBuildWeekEmptyDays(t *testing.T) {
	ms := newMockStore()
	ms.CreateMedication(testMedication("gracy", "Acetaminophen", nil, 3))

	week, err := NewBuilder(ms).BuildWeek("gracy")
	if err != nil {
		t.Fatalf("BuildWeek failed: %v", err)
	}

	if got := countEntries(week); got != 0 {
		t.Errorf("medication with no selected days produced %d entries, want 0", got)
	}
}

func TestBuildWeekStableIDs(t *testing.T) {
	ms := newMockStore()
	ms.CreateMedication(testMedication("gracy", "Acetaminophen", []entities.Weekday{entities.Monday, entities.Friday}, 2))

	builder := NewBuilder(ms)

	first, err := builder.BuildWeek("gracy")
	if err != nil {
		t.Fatalf("BuildWeek failed: %v", err)
	}

	second, err := builder.BuildWeek("gracy")
	if err != nil {
		t.Fatalf("BuildWeek failed: %v", err)
	}

	for day, entries := range first {
		for i, entry := range entries {
			if second[day][i].ID != entry.ID {
				t.Errorf("entry id for %s[%d] changed across rebuilds: %s vs %s",
					day, i, entry.ID, second[day][i].ID)
			}
		}
	}
}

func TestBuildWeekOrderedByTime(t *testing.T) {
	ms := newMockStore()
	ms.CreateMedication(testMedication("gracy", "Lisinopril", []entities.Weekday{entities.Monday}, 3))
	ms.CreateMedication(testMedication("gracy", "Acetaminophen", []entities.Weekday{entities.Monday}, 2))

	week, err := NewBuilder(ms).BuildWeek("gracy")
	if err != nil {
		t.Fatalf("BuildWeek failed: %v", err)
	}

	entries := week[entities.Monday]
	if len(entries) != 5 {
		t.Fatalf("got %d entries for Monday, want 5", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Time.Minutes() < entries[i-1].Time.Minutes() {
			t.Errorf("entries not ordered by time at index %d", i)
		}
	}
}

func TestBuildWeekAppliesOverrides(t *testing.T) {
	ms := newMockStore()
	medication := testMedication("gracy", "Acetaminophen", []entities.Weekday{entities.Monday}, 2)
	ms.CreateMedication(medication)

	ms.SetDoseOverride(&entities.DoseOverride{
		MedicationID: medication.ID,
		Weekday:      entities.Monday,
		DoseIndex:    0,
		Time:         entities.TimeOfDay{Hour: 9, Minute: 30},
	})

	week, err := NewBuilder(ms).BuildWeek("gracy")
	if err != nil {
		t.Fatalf("BuildWeek failed: %v", err)
	}

	entries := week[entities.Monday]
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// The overridden first dose moves from 08:00 to 09:30; the second stays
	// at 20:00.
	if entries[0].Time != (entities.TimeOfDay{Hour: 9, Minute: 30}) {
		t.Errorf("override not applied: got %02d:%02d", entries[0].Time.Hour, entries[0].Time.Minute)
	}
	if entries[1].Time != (entities.TimeOfDay{Hour: 20, Minute: 0}) {
		t.Errorf("unoverridden dose moved: got %02d:%02d", entries[1].Time.Hour, entries[1].Time.Minute)
	}
}

func TestBuildWeekMalformedRecord(t *testing.T) {
	ms := newMockStore()
	ms.CreateMedication(testMedication("gracy", "", []entities.Weekday{entities.Monday}, 2))

	_, err := NewBuilder(ms).BuildWeek("gracy")
	if err == nil {
		t.Fatal("BuildWeek should fail for a stored record with no name")
	}

	if !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestResolveEntry(t *testing.T) {
	ms := newMockStore()
	medication := testMedication("gracy", "Acetaminophen", []entities.Weekday{entities.Monday, entities.Friday}, 2)
	ms.CreateMedication(medication)

	builder := NewBuilder(ms)

	entryID := DoseEntryID(medication.ID, entities.Friday, 1)

	resolved, err := builder.ResolveEntry("gracy", entryID)
	if err != nil {
		t.Fatalf("ResolveEntry failed: %v", err)
	}

	if resolved.Medication.ID != medication.ID {
		t.Errorf("resolved wrong medication: %s", resolved.Medication.ID)
	}
	if resolved.Weekday != entities.Friday || resolved.DoseIndex != 1 {
		t.Errorf("resolved wrong slot: %s[%d]", resolved.Weekday, resolved.DoseIndex)
	}
}

func TestResolveEntryUnknownID(t *testing.T) {
	ms := newMockStore()
	ms.CreateMedication(testMedication("gracy", "Acetaminophen", []entities.Weekday{entities.Monday}, 1))

	_, err := NewBuilder(ms).ResolveEntry("gracy", uuid.New())
	if err == nil {
		t.Fatal("ResolveEntry should fail for an unknown id")
	}

	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want not-found error", err)
	}
}
