package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avelar/pillreminder-api/auth"
	"github.com/avelar/pillreminder-api/entities"
	"github.com/avelar/pillreminder-api/interfaces"
	"github.com/avelar/pillreminder-api/metrics"
	"github.com/avelar/pillreminder-api/schedule"
	"github.com/avelar/pillreminder-api/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HTTPHandler serves the pill reminder API with injected dependencies.
type HTTPHandler struct {
	store   interfaces.EntityStore
	auth    *auth.Service
	builder *schedule.Builder
	gate    interfaces.DatasetGate
	checker interfaces.HealthChecker
}

// NewHTTPHandler creates the handler set.
func NewHTTPHandler(store interfaces.EntityStore, authService *auth.Service, builder *schedule.Builder, gate interfaces.DatasetGate, checker interfaces.HealthChecker) *HTTPHandler {
	return &HTTPHandler{
		store:   store,
		auth:    authService,
		builder: builder,
		gate:    gate,
		checker: checker,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login validates a username/password pair. The failure message never
// says which half was wrong.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.auth.Login(req.Username, req.Password) {
		RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// CreatePatient registers a new patient.
func (h *HTTPHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := h.auth.Register(req.Username, req.Password)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, map[string]string{
		"id":       patient.ID.String(),
		"username": patient.Username,
	})
}

type medicationRequest struct {
	Username          string   `json:"username"`
	Name              string   `json:"name"`
	Days              []string `json:"days"`
	DosesPerDay       int      `json:"dosesPerDay"`
	Contraindications string   `json:"contraindications"`
	Notes             string   `json:"notes"`
	Force             bool     `json:"force"`
}

// AddMedication checks the candidate name against the reference dataset,
// then stores the record. An inactive name blocks the write unless the
// caller set force; the gate is advisory, the override is the caller's
// call.
func (h *HTTPHandler) AddMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	days := make([]entities.Weekday, 0, len(req.Days))
	for _, day := range req.Days {
		days = append(days, entities.Weekday(day))
	}

	medication := &entities.Medication{
		ID:                uuid.New(),
		Username:          req.Username,
		Name:              req.Name,
		Days:              days,
		DosesPerDay:       req.DosesPerDay,
		Contraindications: req.Contraindications,
		Notes:             req.Notes,
		CreatedAt:         time.Now(),
	}

	if err := validation.ValidateMedication(medication); err != nil {
		respondWithStoreError(w, err)
		return
	}

	// The owner must exist before a medication can point at them.
	if _, err := h.store.FindPatient(req.Username); err != nil {
		respondWithStoreError(w, err)
		return
	}

	result := h.gate.Check(req.Name)
	if result.Inactive {
		metrics.GateChecksTotal.WithLabelValues("inactive").Inc()
	} else {
		metrics.GateChecksTotal.WithLabelValues("active").Inc()
	}

	if result.Inactive && !req.Force {
		RespondWithJSON(w, http.StatusConflict, map[string]any{
			"accepted": false,
			"reason":   fmt.Sprintf("%s is marked inactive in the reference dataset", req.Name),
			"gate":     result,
		})
		return
	}

	if err := h.store.CreateMedication(medication); err != nil {
		respondWithStoreError(w, err)
		return
	}

	response := map[string]any{
		"accepted": true,
		"id":       medication.ID.String(),
	}
	if result.Inactive {
		response["warning"] = fmt.Sprintf("%s is marked inactive in the reference dataset", req.Name)
	}

	RespondWithJSON(w, http.StatusCreated, response)
}

// DeleteMedication removes a medication and its dose overrides.
func (h *HTTPHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid medication id")
		return
	}

	if err := h.store.DeleteMedication(id); err != nil {
		respondWithStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type doseResponse struct {
	ID             string `json:"id"`
	MedicationID   string `json:"medicationId"`
	Time           string `json:"time"`
	Hour           int    `json:"hour"`
	Minute         int    `json:"minute"`
	MedicationName string `json:"medicationName"`
	Instructions   string `json:"instructions,omitempty"`
}

type dayResponse struct {
	Weekday string         `json:"weekday"`
	Doses   []doseResponse `json:"doses"`
}

// WeeklySchedule returns the expanded week for a patient, Monday first,
// times rendered 12-hour the way the mobile client shows them.
func (h *HTTPHandler) WeeklySchedule(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if _, err := h.store.FindPatient(username); err != nil {
		respondWithStoreError(w, err)
		return
	}

	week, err := h.builder.BuildWeek(username)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}

	days := make([]dayResponse, 0, len(week))
	for _, weekday := range entities.Week {
		entries, ok := week[weekday]
		if !ok {
			continue
		}

		doses := make([]doseResponse, 0, len(entries))
		for _, entry := range entries {
			doses = append(doses, doseResponse{
				ID:             entry.ID.String(),
				MedicationID:   entry.MedicationID.String(),
				Time:           entry.Time.Format12Hour(),
				Hour:           entry.Time.Hour,
				Minute:         entry.Time.Minute,
				MedicationName: entry.MedicationName,
				Instructions:   entry.Instructions,
			})
		}

		days = append(days, dayResponse{Weekday: string(weekday), Doses: doses})
	}

	RespondWithJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"days":     days,
	})
}

// DeleteDose resolves a dose-entry id back to its owning medication and
// deletes the whole medication. Deletion is medication-granular: removing
// "one dose" removes the recurring medication and every entry it
// generates.
func (h *HTTPHandler) DeleteDose(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid dose entry id")
		return
	}

	resolved, err := h.builder.ResolveEntry(username, entryID)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}

	if err := h.store.DeleteMedication(resolved.Medication.ID); err != nil {
		respondWithStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type doseTimeRequest struct {
	Time string `json:"time"` // 24-hour "HH:MM"
}

// EditDoseTime persists a per-dose time override keyed by the dose's
// (medication, weekday, index) slot, so the edit survives schedule
// rebuilds.
func (h *HTTPHandler) EditDoseTime(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid dose entry id")
		return
	}

	var req doseTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parsed, err := time.Parse("15:04", req.Time)
	if err != nil {
		RespondWithError(w, http.StatusUnprocessableEntity, "time must be HH:MM in 24-hour format")
		return
	}

	newTime := entities.TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}
	if err := validation.ValidateDoseTime(newTime); err != nil {
		respondWithStoreError(w, err)
		return
	}

	resolved, err := h.builder.ResolveEntry(username, entryID)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}

	override := &entities.DoseOverride{
		MedicationID: resolved.Medication.ID,
		Weekday:      resolved.Weekday,
		DoseIndex:    resolved.DoseIndex,
		Time:         newTime,
	}

	if err := h.store.SetDoseOverride(override); err != nil {
		respondWithStoreError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{
		"id":   entryID.String(),
		"time": newTime.Format12Hour(),
	})
}

// HealthCheck reports service health.
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.checker.HealthCheck()

	payload := map[string]any{"status": status}
	for k, v := range data {
		payload[k] = v
	}

	RespondWithJSON(w, httpStatus, payload)
}
