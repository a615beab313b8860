// Package schedule derives concrete weekly dose timetables from stored
// medication records.
package schedule

import "github.com/avelar/pillreminder-api/entities"

// Dosing window: doses are spread from 08:00 to 20:00 inclusive.
const (
	windowStartMinutes = 8 * 60
	windowSpanMinutes  = 12 * 60
)

// DoseTimes spreads dosesPerDay clock times evenly across the dosing
// window. The interval is windowSpan / max(1, dosesPerDay-1), so a single
// dose lands at the window start (08:00), not at midday; that is the
// behavior the mobile app shipped with and callers rely on it.
// dosesPerDay <= 0 yields an empty sequence rather than an error.
func DoseTimes(dosesPerDay int) []entities.TimeOfDay {
	if dosesPerDay <= 0 {
		return nil
	}

	interval := windowSpanMinutes / max(1, dosesPerDay-1)

	times := make([]entities.TimeOfDay, 0, dosesPerDay)
	for i := 0; i < dosesPerDay; i++ {
		minutes := windowStartMinutes + i*interval
		times = append(times, entities.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60})
	}

	return times
}
