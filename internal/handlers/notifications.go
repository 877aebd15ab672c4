package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Jazlogic/Share-Musician-sub000/internal/auth"
)

// GetNotificationsHandler обрабатывает GET /notifications
func (h *Handler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	notifications, err := h.Store.ListNotifications(r.Context(), identity.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationReadHandler обрабатывает POST /notifications/{id}/read
func (h *Handler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.Store.MarkNotificationRead(r.Context(), id, identity.UserID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "isRead": true})
}
