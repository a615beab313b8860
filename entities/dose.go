package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// TimeOfDay is a wall-clock time with minute precision. The schedule
// generator works in these values; 12-hour rendering happens at the HTTP
// boundary.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns the time as minutes since midnight, used for ordering.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Format12Hour renders the time the way the mobile client displays it,
// e.g. "8:00 AM" or "12:30 PM".
func (t TimeOfDay) Format12Hour() string {
	suffix := "AM"
	hour := t.Hour

	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, suffix)
}

// DoseEntry is one concrete scheduled administration event, derived from a
// medication for a specific weekday and dose slot. Entries are rebuilt on
// every schedule request; the ID is derived from
// (medication, weekday, dose index) so the same logical dose keeps its
// identity across rebuilds.
type DoseEntry struct {
	ID             uuid.UUID `json:"id"`
	MedicationID   uuid.UUID `json:"medicationId"`
	Weekday        Weekday   `json:"weekday"`
	Time           TimeOfDay `json:"time"`
	MedicationName string    `json:"medicationName"`
	Instructions   string    `json:"instructions,omitempty"`
}

// DoseOverride is a persisted per-dose time edit, keyed by the same triple
// that identifies a dose entry.
type DoseOverride struct {
	MedicationID uuid.UUID `json:"medicationId"`
	Weekday      Weekday   `json:"weekday"`
	DoseIndex    int       `json:"doseIndex"`
	Time         TimeOfDay `json:"time"`
}
