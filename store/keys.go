package store

import (
	"fmt"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/google/uuid"
)

// Key layout:
//
//	patient:<username>                     -> Patient JSON
//	medication:<id bytes>                  -> Medication JSON
//	override:<medication id bytes>:<day>:<index> -> DoseOverride JSON
//
// Medications are keyed by id alone so delete and lookup work from a dose
// entry's back-reference without knowing the owner; per-user listing scans
// the medication prefix and filters, which is fine at single-household
// scale.

var (
	patientPrefix    = []byte("patient:")
	medicationPrefix = []byte("medication:")
	overridePrefix   = []byte("override:")
)

func patientKey(username string) []byte {
	return append(append([]byte{}, patientPrefix...), []byte(username)...)
}

func medicationKey(id uuid.UUID) []byte {
	return append(append([]byte{}, medicationPrefix...), id[:]...)
}

func overrideKey(medicationID uuid.UUID, day entities.Weekday, doseIndex int) []byte {
	key := overrideKeyPrefix(medicationID)
	return append(key, []byte(fmt.Sprintf("%s:%d", day, doseIndex))...)
}

func overrideKeyPrefix(medicationID uuid.UUID) []byte {
	key := append(append([]byte{}, overridePrefix...), medicationID[:]...)
	return append(key, ':')
}
