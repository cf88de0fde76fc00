package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mzansishield/internal/domain/models"
	"mzansishield/internal/domain/services"
	"mzansishield/pkg/logger"
)

// ReportsHandler handles scam report endpoints
type ReportsHandler struct {
	reports *services.ReportStore
	logger  *logger.Logger
}

// NewReportsHandler creates a new ReportsHandler
func NewReportsHandler(reports *services.ReportStore, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		logger:  log.WithComponent("reports"),
	}
}

const durabilityWarning = "The report was recorded for this session but could not be saved to local storage."

// Submit handles POST /api/v1/reports
func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.reports.Submit(r.Context(), req)
	if err != nil && !errors.Is(err, services.ErrNotPersisted) {
		if errors.Is(err, services.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("failed to submit report")
		h.respondError(w, http.StatusInternalServerError, "failed to submit report")
		return
	}

	response := map[string]interface{}{
		"data":    report,
		"durable": err == nil,
	}
	if err != nil {
		response["warning"] = durabilityWarning
	}
	h.respondJSON(w, http.StatusCreated, response)
}

// List handles GET /api/v1/reports
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	reports := h.reports.List()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  reports,
		"total": len(reports),
	})
}

// Get handles GET /api/v1/reports/{id}
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	report, err := h.reports.Get(id)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "report not found")
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// Stats handles GET /api/v1/reports/stats
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.reports.Stats())
}

// Verify handles POST /api/v1/reports/{id}/verify
func (h *ReportsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	report, err := h.reports.Verify(r.Context(), id)
	h.respondMutation(w, report, err)
}

// MarkFalsePositive handles POST /api/v1/reports/{id}/false-positive
func (h *ReportsHandler) MarkFalsePositive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	report, err := h.reports.MarkFalsePositive(r.Context(), id)
	h.respondMutation(w, report, err)
}

// Remove handles DELETE /api/v1/reports/{id}
func (h *ReportsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	err := h.reports.Remove(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "report not found")
		return
	}
	h.respondDeletion(w, err)
}

// Clear handles DELETE /api/v1/reports
func (h *ReportsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respondDeletion(w, h.reports.Clear(r.Context()))
}

func (h *ReportsHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid report id")
		return uuid.Nil, false
	}
	return id, true
}

// respondMutation reports a single-record mutation, downgrading a
// durability failure to a warning on an otherwise successful response.
func (h *ReportsHandler) respondMutation(w http.ResponseWriter, report *models.ScamReport, err error) {
	if err != nil && !errors.Is(err, services.ErrNotPersisted) {
		if errors.Is(err, services.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "report not found")
			return
		}
		h.logger.Error().Err(err).Msg("report mutation failed")
		h.respondError(w, http.StatusInternalServerError, "failed to update report")
		return
	}

	response := map[string]interface{}{
		"data":    report,
		"durable": err == nil,
	}
	if err != nil {
		response["warning"] = durabilityWarning
	}
	h.respondJSON(w, http.StatusOK, response)
}

func (h *ReportsHandler) respondDeletion(w http.ResponseWriter, err error) {
	response := map[string]interface{}{
		"durable": err == nil,
	}
	if errors.Is(err, services.ErrNotPersisted) {
		response["warning"] = durabilityWarning
	} else if err != nil {
		h.logger.Error().Err(err).Msg("report deletion failed")
		h.respondError(w, http.StatusInternalServerError, "failed to delete")
		return
	}
	h.respondJSON(w, http.StatusOK, response)
}

func (h *ReportsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ReportsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
