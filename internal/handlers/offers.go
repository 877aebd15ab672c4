package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Jazlogic/Share-Musician-sub000/db"
	"github.com/Jazlogic/Share-Musician-sub000/internal/auth"
	"github.com/Jazlogic/Share-Musician-sub000/models"
)

type createOfferInput struct {
	RequestID int             `json:"request_id"`
	Price     decimal.Decimal `json:"price"`
	Message   string          `json:"message"`
}

// CreateOfferHandler обрабатывает POST /offer
func (h *Handler) CreateOfferHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}
	if identity.Role != models.RoleMusician {
		http.Error(w, "Only musicians can create offers", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var input createOfferInput
	if err := json.Unmarshal(body, &input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if input.RequestID <= 0 {
		http.Error(w, "request_id must be positive", http.StatusBadRequest)
		return
	}
	if !input.Price.IsPositive() {
		http.Error(w, "price must be a positive number", http.StatusBadRequest)
		return
	}

	offer, err := h.Store.CreateOffer(r.Context(), db.CreateOfferParams{
		RequestID:  input.RequestID,
		MusicianID: identity.UserID,
		Price:      input.Price,
		Message:    input.Message,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, offer)
}

// GetOfferHandler обрабатывает GET /offer/{id}
func (h *Handler) GetOfferHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	offerID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || offerID <= 0 {
		http.Error(w, "Invalid offer id", http.StatusBadRequest)
		return
	}

	offer, err := h.Store.GetOffer(r.Context(), offerID, identity.UserID, identity.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, offer)
}

// GetOffersForRequestHandler обрабатывает GET /offer/request/{requestId}
func (h *Handler) GetOffersForRequestHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.Atoi(chi.URLParam(r, "requestId"))
	if err != nil || requestID <= 0 {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	offers, err := h.Store.ListOffersForRequest(r.Context(), requestID, identity.UserID, identity.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, offers)
}

type offerDecisionResponse struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// AcceptOfferHandler обрабатывает POST /offer/{id}/accept
func (h *Handler) AcceptOfferHandler(w http.ResponseWriter, r *http.Request) {
	h.decideOffer(w, r, h.Store.AcceptOffer)
}

// RejectOfferHandler обрабатывает POST /offer/{id}/reject
func (h *Handler) RejectOfferHandler(w http.ResponseWriter, r *http.Request) {
	h.decideOffer(w, r, h.Store.RejectOffer)
}

func (h *Handler) decideOffer(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, offerID, callerID int) (*db.Offer, error)) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}
	if !models.CanDecideOffer(identity.Role) {
		http.Error(w, "Only the request owner can decide offers", http.StatusForbidden)
		return
	}

	offerID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || offerID <= 0 {
		http.Error(w, "Invalid offer id", http.StatusBadRequest)
		return
	}

	offer, err := decide(r.Context(), offerID, identity.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, offerDecisionResponse{ID: offer.ID, Status: offer.Status})
}
