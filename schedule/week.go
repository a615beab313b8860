package schedule

import (
	"fmt"
	"sort"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/avelar/pillreminder-api/store"
	"github.com/avelar/pillreminder-api/validation"
	"github.com/google/uuid"
)

// WeeklySchedule maps each weekday to its dose entries, ordered by time.
// Days without doses are absent from the map.
type WeeklySchedule map[entities.Weekday][]entities.DoseEntry

// DoseEntryID derives the stable id for a dose slot. Using the medication
// id as the UUIDv5 namespace means the same logical dose keeps the same id
// across schedule rebuilds, so edit and delete handles stay valid.
func DoseEntryID(medicationID uuid.UUID, day entities.Weekday, doseIndex int) uuid.UUID {
	return uuid.NewSHA1(medicationID, []byte(fmt.Sprintf("%s:%d", day, doseIndex)))
}

// Builder expands medication records into weekly schedules, applying any
// persisted per-dose time overrides from the store.
type Builder struct {
	store interfaces.EntityStore
}

// NewBuilder creates a schedule builder with the injected store.
func NewBuilder(store interfaces.EntityStore) *Builder {
	return &Builder{store: store}
}

// BuildWeek expands every medication owned by username into dated dose
// entries keyed by weekday. Each medication contributes
// dosesPerDay x len(days) entries. A stored record that fails validation
// aborts the build with the validation error; records are validated at
// write time, so hitting one here means the store was written around.
func (b *Builder) BuildWeek(username string) (WeeklySchedule, error) {
	medications, err := b.store.ListMedications(username)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications for %s: %w", username, err)
	}

	week := make(WeeklySchedule)

	for _, medication := range medications {
		if err := validation.ValidateMedication(medication); err != nil {
			return nil, fmt.Errorf("stored medication %s is malformed: %w", medication.ID, err)
		}

		overrides, err := b.store.ListDoseOverrides(medication.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list dose overrides for medication %s: %w", medication.ID, err)
		}

		overrideTimes := make(map[string]entities.TimeOfDay, len(overrides))
		for _, override := range overrides {
			overrideTimes[overrideSlot(override.Weekday, override.DoseIndex)] = override.Time
		}

		times := DoseTimes(medication.DosesPerDay)

		for _, day := range medication.Days {
			for doseIndex, doseTime := range times {
				if t, ok := overrideTimes[overrideSlot(day, doseIndex)]; ok {
					doseTime = t
				}

				week[day] = append(week[day], entities.DoseEntry{
					ID:             DoseEntryID(medication.ID, day, doseIndex),
					MedicationID:   medication.ID,
					Weekday:        day,
					Time:           doseTime,
					MedicationName: medication.Name,
					Instructions:   medication.Notes,
				})
			}
		}
	}

	for day := range week {
		entries := week[day]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Time.Minutes() != entries[j].Time.Minutes() {
				return entries[i].Time.Minutes() < entries[j].Time.Minutes()
			}
			return entries[i].MedicationName < entries[j].MedicationName
		})
	}

	return week, nil
}

// ResolvedDose names the medication slot a dose-entry id points at.
type ResolvedDose struct {
	Medication *entities.Medication
	Weekday    entities.Weekday
	DoseIndex  int
}

// ResolveEntry maps a dose-entry id back to its owning medication and dose
// slot by recomputing the derived ids for the user's medications. Returns
// the store's not-found error when the id matches nothing, which covers
// stale handles from before a medication was deleted.
func (b *Builder) ResolveEntry(username string, entryID uuid.UUID) (*ResolvedDose, error) {
	medications, err := b.store.ListMedications(username)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications for %s: %w", username, err)
	}

	for _, medication := range medications {
		for _, day := range medication.Days {
			for doseIndex := 0; doseIndex < medication.DosesPerDay; doseIndex++ {
				if DoseEntryID(medication.ID, day, doseIndex) == entryID {
					return &ResolvedDose{
						Medication: medication,
						Weekday:    day,
						DoseIndex:  doseIndex,
					}, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("dose entry %s: %w", entryID, store.ErrNotFound)
}

func overrideSlot(day entities.Weekday, doseIndex int) string {
	return fmt.Sprintf("%s:%d", day, doseIndex)
}
