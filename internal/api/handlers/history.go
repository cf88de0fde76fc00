package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mzansishield/internal/domain/services"
	"mzansishield/pkg/logger"
)

// HistoryHandler handles check history endpoints
type HistoryHandler struct {
	history *services.CheckHistoryStore
	logger  *logger.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(history *services.CheckHistoryStore, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  log.WithComponent("history"),
	}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.history.List()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  entries,
		"total": len(entries),
	})
}

// RemoveOne handles DELETE /api/v1/history/{id}
func (h *HistoryHandler) RemoveOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid history id")
		return
	}

	if err := h.history.RemoveOne(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "history entry not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to remove history entry")
		h.respondError(w, http.StatusInternalServerError, "failed to remove history entry")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Clear handles DELETE /api/v1/history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.history.Clear(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *HistoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *HistoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
