package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx/types"

	"github.com/Jazlogic/Share-Musician-sub000/db"
	"github.com/Jazlogic/Share-Musician-sub000/internal/auth"
	"github.com/Jazlogic/Share-Musician-sub000/models"
)

type createRequestInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Instrument  string          `json:"instrument"`
	EventDate   string          `json:"event_date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Location    json.RawMessage `json:"location"`
	IsPublic    *bool           `json:"is_public"`
}

// CreateRequestHandler обрабатывает POST /requests
func (h *Handler) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}
	if !models.CanCreateRequest(identity.Role) {
		http.Error(w, "Role is not allowed to create requests", http.StatusForbidden)
		return
	}

	// Ограничение размера тела, чтобы избежать DoS
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var input createRequestInput
	if err := json.Unmarshal(body, &input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if err := validateCreateRequest(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	request, err := h.Store.CreateRequest(r.Context(), db.CreateRequestParams{
		ClientID:    identity.UserID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Instrument:  input.Instrument,
		EventDate:   input.EventDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    types.JSONText(input.Location),
		IsPublic:    *input.IsPublic,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, request)
}

func validateCreateRequest(in *createRequestInput) error {
	if in.Title == "" {
		return errors.New("title is required")
	}
	if in.Description == "" {
		return errors.New("description is required")
	}
	if in.Category == "" {
		return errors.New("category is required")
	}
	if in.Instrument == "" {
		return errors.New("instrument is required")
	}
	if in.EventDate == "" || in.StartTime == "" || in.EndTime == "" {
		return errors.New("event_date, start_time and end_time are required")
	}
	if len(in.Location) == 0 {
		return errors.New("location is required")
	}
	if in.IsPublic == nil {
		return errors.New("is_public is required")
	}
	return nil
}

// GetCreatedRequestsHandler обрабатывает GET /requests/created
func (h *Handler) GetCreatedRequestsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	requests, err := h.Store.ListCreatedRequests(r.Context(), identity.UserID, identity.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, requests)
}

// GetRequestHandler обрабатывает GET /requests/{id}
func (h *Handler) GetRequestHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	request, err := h.Store.GetRequest(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, request)
}

// GetEventTypesHandler обрабатывает GET /requests/event-types (без авторизации)
func (h *Handler) GetEventTypesHandler(w http.ResponseWriter, r *http.Request) {
	eventTypes, err := h.Store.ListEventTypes(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, eventTypes)
}
