package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"mzansishield/internal/domain/models"
	"mzansishield/internal/domain/services"
	"mzansishield/internal/domain/services/ai"
	"mzansishield/pkg/logger"
)

// CheckHandler handles content analysis endpoints
type CheckHandler struct {
	classifier *ai.ThreatClassifier
	history    *services.CheckHistoryStore
	logger     *logger.Logger
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(classifier *ai.ThreatClassifier, history *services.CheckHistoryStore, log *logger.Logger) *CheckHandler {
	return &CheckHandler{
		classifier: classifier,
		history:    history,
		logger:     log.WithComponent("check"),
	}
}

// CheckResponse is the payload returned for an analysed input
type CheckResponse struct {
	InputKind models.InputKind      `json:"input_kind"`
	Result    models.AnalysisResult `json:"result"`
	HistoryID string                `json:"history_id"`
}

// Check handles POST /api/v1/check
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req models.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		h.respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	language := req.Language
	if language == "" {
		language = models.LanguageEnglish
	}
	if !language.IsValid() {
		h.respondError(w, http.StatusBadRequest, "unknown language")
		return
	}

	kind := services.DetectInputKind(content)
	result := h.classifier.Analyze(r.Context(), content, language)
	entry := h.history.Record(r.Context(), content, kind, *result)

	h.respondJSON(w, http.StatusOK, CheckResponse{
		InputKind: kind,
		Result:    *result,
		HistoryID: entry.ID.String(),
	})
}

func (h *CheckHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *CheckHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
