package entities

import (
	"time"

	"github.com/google/uuid"
)

// Weekday is one of the seven canonical day names. Stored as the full
// English name so the persisted records stay readable.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the seven days in display order, Monday first.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayIndex = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

// Index returns the position of the weekday within the week (Monday = 0)
// and false for a name that is not one of the seven canonical days.
func (w Weekday) Index() (int, bool) {
	i, ok := weekdayIndex[w]
	return i, ok
}

// Valid reports whether the weekday is one of the seven canonical days.
func (w Weekday) Valid() bool {
	_, ok := weekdayIndex[w]
	return ok
}

// Medication is a recurring prescription owned by a patient. Days holds the
// weekdays the medication is taken on; insertion order is irrelevant.
type Medication struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	Days              []Weekday `json:"days"`
	DosesPerDay       int       `json:"dosesPerDay"`
	Contraindications string    `json:"contraindications,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
