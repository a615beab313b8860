// Package validation provides write-time input validation for the pill
// reminder core. Records are rejected here with ErrInvalid instead of being
// silently skipped when the schedule is built later.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avelar/pillreminder-api/entities"
)

// ErrInvalid marks any validation failure so callers can map the whole
// family to a single user-visible response with errors.Is.
var ErrInvalid = errors.New("invalid input")

const (
	maxUsernameLength = 64
	maxPasswordLength = 128
	maxNameLength     = 200
	maxFreeTextLength = 1000
	minDosesPerDay    = 1
	maxDosesPerDay    = 5
)

// Dangerous substrings screened out of free-text fields. Plain
// strings.Contains is faster than regex for this and the list is short.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "onload=", "onerror=",
	"eval(", "expression(",
	"' or ", "\" or ", "union select", "drop table", "delete from",
	"../", "..\\",
}

func containsDangerousPattern(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// ValidateUsername checks a submitted username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if username == "" {
		return fmt.Errorf("username is required: %w", ErrInvalid)
	}

	if len(username) > maxUsernameLength {
		return fmt.Errorf("username too long: %d characters: %w", len(username), ErrInvalid)
	}

	if containsDangerousPattern(username) {
		return fmt.Errorf("username contains forbidden characters: %w", ErrInvalid)
	}

	return nil
}

// ValidatePassword checks a submitted password. Empty passwords were
// accepted by the original app; they are rejected here by policy.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required: %w", ErrInvalid)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf("password too long: %d characters: %w", len(password), ErrInvalid)
	}

	return nil
}

// ValidateMedication checks a medication record before it is written.
func ValidateMedication(m *entities.Medication) error {
	if m == nil {
		return fmt.Errorf("medication is nil: %w", ErrInvalid)
	}

	if err := ValidateUsername(m.Username); err != nil {
		return err
	}

	name := strings.TrimSpace(m.Name)
	if name == "" {
		return fmt.Errorf("medication name is required: %w", ErrInvalid)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf("medication name too long: %d characters: %w", len(name), ErrInvalid)
	}

	if containsDangerousPattern(name) {
		return fmt.Errorf("medication name contains forbidden characters: %w", ErrInvalid)
	}

	if m.DosesPerDay < minDosesPerDay || m.DosesPerDay > maxDosesPerDay {
		return fmt.Errorf("doses per day must be between %d and %d, got %d: %w",
			minDosesPerDay, maxDosesPerDay, m.DosesPerDay, ErrInvalid)
	}

	seen := make(map[entities.Weekday]bool, len(m.Days))
	for _, day := range m.Days {
		if !day.Valid() {
			return fmt.Errorf("unknown weekday %q: %w", day, ErrInvalid)
		}
		if seen[day] {
			return fmt.Errorf("duplicate weekday %q: %w", day, ErrInvalid)
		}
		seen[day] = true
	}

	for _, text := range []string{m.Contraindications, m.Notes} {
		if len(text) > maxFreeTextLength {
			return fmt.Errorf("free-text field too long: %d characters: %w", len(text), ErrInvalid)
		}
		if containsDangerousPattern(text) {
			return fmt.Errorf("free-text field contains forbidden characters: %w", ErrInvalid)
		}
	}

	return nil
}

// ValidateDoseTime checks an edited dose time.
func ValidateDoseTime(t entities.TimeOfDay) error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("invalid time %02d:%02d: %w", t.Hour, t.Minute, ErrInvalid)
	}
	return nil
}
