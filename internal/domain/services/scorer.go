package services

import (
	"mzansishield/internal/config"
	"mzansishield/internal/domain/models"
	"mzansishield/pkg/logger"
)

// Scorer computes 0-100 confidence scores for scam records from report
// volume and similarity linkage.
type Scorer struct {
	config config.ScoringConfig
	logger *logger.Logger
}

// DefaultScoringConfig returns the community scoring rules
func DefaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		BaseScore:          10,
		RelatedWeight:      15,
		ReportCountWeight:  5,
		DuplicateIncrement: 20,
		VerifyThreshold:    70,
	}
}

// NewScorer creates a new Scorer. Zero-valued config fields fall back
// to the defaults so a partial config section cannot zero out scoring.
func NewScorer(cfg config.ScoringConfig, log *logger.Logger) *Scorer {
	def := DefaultScoringConfig()
	if cfg.BaseScore == 0 {
		cfg.BaseScore = def.BaseScore
	}
	if cfg.RelatedWeight == 0 {
		cfg.RelatedWeight = def.RelatedWeight
	}
	if cfg.ReportCountWeight == 0 {
		cfg.ReportCountWeight = def.ReportCountWeight
	}
	if cfg.DuplicateIncrement == 0 {
		cfg.DuplicateIncrement = def.DuplicateIncrement
	}
	if cfg.VerifyThreshold == 0 {
		cfg.VerifyThreshold = def.VerifyThreshold
	}

	return &Scorer{
		config: cfg,
		logger: log.WithComponent("scorer"),
	}
}

// ScoreForNewReport scores a freshly submitted identifier given the
// related records already in the store: base + 15 per distinct related
// record + 5 per prior submission across those records, capped at 100.
func (s *Scorer) ScoreForNewReport(related []*models.ScamReport) int {
	score := s.config.BaseScore
	for _, r := range related {
		score += s.config.RelatedWeight
		score += s.config.ReportCountWeight * r.ReportsCount
	}
	return clampScore(score)
}

// ScoreForDuplicate scores a repeat submission of an existing record
func (s *Scorer) ScoreForDuplicate(existingScore int) int {
	return clampScore(existingScore + s.config.DuplicateIncrement)
}

// ApplyAutoTransition promotes a pending record to verified once its
// score meets the threshold. Verified and falsePositive records are
// never auto-transitioned; a manual false-positive ruling is terminal.
func (s *Scorer) ApplyAutoTransition(report *models.ScamReport) {
	if report.Status != models.ReportStatusPending {
		return
	}
	if report.ConfidenceScore >= s.config.VerifyThreshold {
		report.Status = models.ReportStatusVerified
	}
}

// VerifyThreshold returns the auto-verify score threshold
func (s *Scorer) VerifyThreshold() int {
	return s.config.VerifyThreshold
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
