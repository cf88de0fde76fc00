package models

import (
	"time"

	"github.com/google/uuid"
)

// VerdictStatus is the classification outcome for checked content
type VerdictStatus string

const (
	VerdictSafe    VerdictStatus = "safe"
	VerdictWarning VerdictStatus = "warning"
	VerdictDanger  VerdictStatus = "danger"
)

// IsValid reports whether v is a known verdict status
func (v VerdictStatus) IsValid() bool {
	switch v {
	case VerdictSafe, VerdictWarning, VerdictDanger:
		return true
	}
	return false
}

// AnalysisResult is the verdict returned by the remote threat
// classifier. The shape is owned by the classifier; this service
// stores and forwards it opaquely.
type AnalysisResult struct {
	Status    VerdictStatus `json:"status"`
	Summary   string        `json:"summary"`
	Details   []string      `json:"details"`
	RiskLevel int           `json:"riskLevel"`
}

// InputKind is the heuristic classification of checked input
type InputKind string

const (
	InputKindURL   InputKind = "url"
	InputKindPhone InputKind = "phone"
	InputKindText  InputKind = "text"
)

// CheckHistoryEntry is one entry in the bounded local log of analyses
type CheckHistoryEntry struct {
	ID           uuid.UUID      `json:"id"`
	InputPreview string         `json:"input_preview"`
	InputKind    InputKind      `json:"input_kind"`
	Result       AnalysisResult `json:"result"`
	Timestamp    time.Time      `json:"timestamp"`
}

// CheckRequest is the payload for analysing content
type CheckRequest struct {
	Content  string   `json:"content"`
	Language Language `json:"language,omitempty"`
}
