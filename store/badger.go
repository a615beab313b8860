// Package store provides the durable entity store for patients,
// medications and per-dose time overrides, backed by an embedded BadgerDB.
// Every operation runs in its own transaction and is committed before the
// call returns; there is no multi-step transaction spanning record types.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/avelar/pillreminder-api/logging"
	"github.com/dgraph-io/badger"
	"github.com/google/uuid"
)

// Badger is the BadgerDB-backed entity store.
type Badger struct {
	db       *badger.DB
	cancelGC func()
	wg       sync.WaitGroup
}

// NewBadger opens (or creates) the store at the given directory and starts
// the hourly value-log GC loop.
func NewBadger(dbPath string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at path %s: %w", dbPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Badger{
		db:       db,
		cancelGC: cancel,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for b.db.RunValueLogGC(0.5) == nil && ctx.Err() == nil {
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return b, nil
}

// Close stops the GC loop and closes the database.
func (b *Badger) Close() error {
	b.cancelGC()
	b.wg.Wait()

	return b.db.Close()
}

// CreatePatient stores a new patient. Usernames are unique; a taken
// username reports ErrDuplicate.
func (b *Badger) CreatePatient(patient *entities.Patient) error {
	return b.db.Update(func(tx *badger.Txn) error {
		data, err := json.Marshal(patient)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal patient: %w", err)
		}

		key := patientKey(patient.Username)
		if _, err = tx.Get(key); err == nil {
			return fmt.Errorf("patient %s: %w", patient.Username, ErrDuplicate)
		} else if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to check patient key for %s: %w", patient.Username, err)
		}

		return tx.Set(key, data)
	})
}

// FindPatient looks a patient up by username. A missing username reports
// ErrNotFound.
func (b *Badger) FindPatient(username string) (patient *entities.Patient, err error) {
	err = b.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(patientKey(username))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("patient %s: %w", username, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get patient value for username %s: %w", username, err)
		}

		patient = &entities.Patient{}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, patient); err != nil {
				return fmt.Errorf("failed to unmarshal patient value for username %s: %w", username, err)
			}

			return nil
		})
	})

	if err != nil {
		patient = nil
	}

	return
}

// CreateMedication stores a new medication record. The caller is expected
// to have validated the record and consulted the reference-dataset gate
// first; the store itself performs no gating.
func (b *Badger) CreateMedication(medication *entities.Medication) error {
	return b.db.Update(func(tx *badger.Txn) error {
		data, err := json.Marshal(medication)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal medication: %w", err)
		}

		return tx.Set(medicationKey(medication.ID), data)
	})
}

// GetMedication fetches a single medication by id.
func (b *Badger) GetMedication(id uuid.UUID) (medication *entities.Medication, err error) {
	err = b.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(medicationKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("medication %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get medication value for id %s: %w", id, err)
		}

		medication = &entities.Medication{}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, medication); err != nil {
				return fmt.Errorf("failed to unmarshal medication value for id %s: %w", id, err)
			}

			return nil
		})
	})

	if err != nil {
		medication = nil
	}

	return
}

// ListMedications returns every medication owned by the given username, in
// stored key order. Callers must not assume any other ordering.
func (b *Badger) ListMedications(username string) (medications []*entities.Medication, err error) {
	err = b.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = medicationPrefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				medication := &entities.Medication{}
				if err := json.Unmarshal(val, medication); err != nil {
					return fmt.Errorf("failed to unmarshal medication value for key %s: %w", string(item.Key()), err)
				}

				if medication.Username == username {
					medications = append(medications, medication)
				}

				return nil
			})

			if err != nil {
				return err
			}
		}

		return nil
	})

	return
}

// DeleteMedication removes a medication and all of its dose overrides.
// Deleting an id that does not exist reports ErrNotFound rather than
// succeeding silently.
func (b *Badger) DeleteMedication(id uuid.UUID) error {
	return b.db.Update(func(tx *badger.Txn) error {
		key := medicationKey(id)
		if _, err := tx.Get(key); err == badger.ErrKeyNotFound {
			return fmt.Errorf("medication %s: %w", id, ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("failed to check medication key for id %s: %w", id, err)
		}

		if err := tx.Delete(key); err != nil {
			return fmt.Errorf("failed to delete medication %s: %w", id, err)
		}

		// Orphaned overrides would silently resurface if the id were ever
		// reused, so drop them with the medication.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = overrideKeyPrefix(id)
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		var overrideKeys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			overrideKeys = append(overrideKeys, it.Item().KeyCopy(nil))
		}

		for _, overrideKey := range overrideKeys {
			if err := tx.Delete(overrideKey); err != nil {
				return fmt.Errorf("failed to delete dose override %s: %w", string(overrideKey), err)
			}
		}

		return nil
	})
}

// SetDoseOverride persists a per-dose time edit. The owning medication must
// exist; otherwise ErrNotFound is reported.
func (b *Badger) SetDoseOverride(override *entities.DoseOverride) error {
	return b.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(medicationKey(override.MedicationID)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("medication %s: %w", override.MedicationID, ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("failed to check medication key for id %s: %w", override.MedicationID, err)
		}

		data, err := json.Marshal(override)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal dose override: %w", err)
		}

		return tx.Set(overrideKey(override.MedicationID, override.Weekday, override.DoseIndex), data)
	})
}

// ListDoseOverrides returns all persisted dose overrides for a medication.
func (b *Badger) ListDoseOverrides(medicationID uuid.UUID) (overrides []*entities.DoseOverride, err error) {
	err = b.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = overrideKeyPrefix(medicationID)

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				override := &entities.DoseOverride{}
				if err := json.Unmarshal(val, override); err != nil {
					return fmt.Errorf("failed to unmarshal dose override for key %s: %w", string(item.Key()), err)
				}

				overrides = append(overrides, override)

				return nil
			})

			if err != nil {
				return err
			}
		}

		return nil
	})

	return
}

// CountPatients reports how many patients are stored. Used by the health
// checker to prove the store is reachable.
func (b *Badger) CountPatients() (count int, err error) {
	err = b.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = patientPrefix
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}

		return nil
	})

	if err != nil {
		logging.Warn("Failed to count patients", "error", err)
	}

	return
}
