package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Jazlogic/Share-Musician-sub000/internal/apperr"
)

// Handler оборачивает Storage для доступа к данным
type Handler struct {
	Store  StorageInterface
	Logger *zap.Logger
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Logger: logger}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError переводит класс ошибки в HTTP-статус. Текст внутренних
// ошибок клиенту не отдается, причина уходит в лог.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperr.KindUnauthenticated:
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case apperr.KindForbidden:
		http.Error(w, err.Error(), http.StatusForbidden)
	case apperr.KindNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case apperr.KindConflict:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.Logger.Error("internal error", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
