// Package auth implements patient registration and credential validation.
// Passwords are stored as bcrypt hashes only and login reports a bare
// boolean, never which half of the credential pair was wrong.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelar/pillreminder-api/entities"
	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/avelar/pillreminder-api/logging"
	"github.com/avelar/pillreminder-api/store"
	"github.com/avelar/pillreminder-api/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username does not exist, so a
// login attempt costs roughly the same time either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("pillreminder-dummy"), bcrypt.DefaultCost)

// Service validates credentials and registers patients against the entity
// store.
type Service struct {
	store interfaces.EntityStore
}

// NewService creates an auth service with the injected store.
func NewService(store interfaces.EntityStore) *Service {
	return &Service{store: store}
}

// Register creates a new patient. The username must be unused; the
// password is validated and hashed before anything is written.
func (s *Service) Register(username, password string) (*entities.Patient, error) {
	username = strings.TrimSpace(username)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	patient := &entities.Patient{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreatePatient(patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// Login checks a username/password pair. It returns true only for an
// exact match; every failure, including store errors, reads the same to
// the caller.
func (s *Service) Login(username, password string) bool {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false
	}

	patient, err := s.store.FindPatient(username)
	if err != nil {
		// Burn a comparison anyway so unknown usernames are not measurably
		// faster than wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))

		if !errors.Is(err, store.ErrNotFound) {
			logging.Warn("Patient lookup failed during login", "error", err)
		}

		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(password)) == nil
}
