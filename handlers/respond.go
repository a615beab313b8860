// Package handlers provides the HTTP request handlers for the pill
// reminder API: registration, login, medication management, the weekly
// schedule and dose edits, with input validation and consistent error
// responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avelar/pillreminder-api/logging"
	"github.com/avelar/pillreminder-api/store"
	"github.com/avelar/pillreminder-api/validation"
)

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error payload with a short message.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// respondWithStoreError maps the error taxonomy to a response. Validation
// and not-found details are safe to show; anything else is logged with
// detail and reported generically.
func respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, store.ErrDuplicate):
		RespondWithError(w, http.StatusConflict, "already exists")

	case errors.Is(err, store.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "not found")

	default:
		logging.Error("Store operation failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
