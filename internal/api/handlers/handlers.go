package handlers

import (
	"mzansishield/internal/domain/services"
	"mzansishield/internal/domain/services/ai"
	"mzansishield/internal/infrastructure/localstore"
	"mzansishield/internal/streaming"
	"mzansishield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Reports   *ReportsHandler
	Check     *CheckHandler
	History   *HistoryHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	ReportStore  *services.ReportStore
	HistoryStore *services.CheckHistoryStore
	Classifier   *ai.ThreatClassifier
	Store        localstore.Store
	WSHub        *streaming.WebSocketHub
	Notifier     *streaming.Notifier
	Logger       *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Store, deps.Logger),
		Reports:   NewReportsHandler(deps.ReportStore, deps.Logger),
		Check:     NewCheckHandler(deps.Classifier, deps.HistoryStore, deps.Logger),
		History:   NewHistoryHandler(deps.HistoryStore, deps.Logger),
		Streaming: NewStreamingHandler(deps.WSHub, deps.Notifier, deps.Logger),
	}
}
