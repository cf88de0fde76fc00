package services

import (
	"testing"

	"mzansishield/internal/config"
	"mzansishield/internal/domain/models"
	"mzansishield/pkg/logger"
)

func newTestScorer() *Scorer {
	return NewScorer(config.ScoringConfig{}, logger.Nop())
}

func TestScoreForNewReport(t *testing.T) {
	s := newTestScorer()

	testCases := []struct {
		desc     string
		related  []*models.ScamReport
		expected int
	}{
		{"no related records", nil, 10},
		{
			"one related record with one report",
			[]*models.ScamReport{{ReportsCount: 1}},
			30,
		},
		{
			"two related records with three reports total",
			[]*models.ScamReport{{ReportsCount: 1}, {ReportsCount: 2}},
			55,
		},
		{
			"many related records clamp at 100",
			[]*models.ScamReport{
				{ReportsCount: 5}, {ReportsCount: 5}, {ReportsCount: 5},
				{ReportsCount: 5}, {ReportsCount: 5},
			},
			100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := s.ScoreForNewReport(tc.related); got != tc.expected {
				t.Errorf("ScoreForNewReport = %d, want %d", got, tc.expected)
			}
		})
	}
}

func TestScoreForDuplicate(t *testing.T) {
	s := newTestScorer()

	testCases := []struct {
		existing int
		expected int
	}{
		{10, 30},
		{70, 90},
		{85, 100},
		{100, 100},
	}

	for _, tc := range testCases {
		if got := s.ScoreForDuplicate(tc.existing); got != tc.expected {
			t.Errorf("ScoreForDuplicate(%d) = %d, want %d", tc.existing, got, tc.expected)
		}
	}
}

func TestApplyAutoTransition(t *testing.T) {
	s := newTestScorer()

	testCases := []struct {
		desc     string
		status   models.ReportStatus
		score    int
		expected models.ReportStatus
	}{
		{"pending below threshold stays pending", models.ReportStatusPending, 69, models.ReportStatusPending},
		{"pending at threshold becomes verified", models.ReportStatusPending, 70, models.ReportStatusVerified},
		{"pending above threshold becomes verified", models.ReportStatusPending, 95, models.ReportStatusVerified},
		{"false positive never transitions", models.ReportStatusFalsePositive, 100, models.ReportStatusFalsePositive},
		{"resolved never transitions", models.ReportStatusResolved, 100, models.ReportStatusResolved},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			report := &models.ScamReport{Status: tc.status, ConfidenceScore: tc.score}
			s.ApplyAutoTransition(report)
			if report.Status != tc.expected {
				t.Errorf("status = %s, want %s", report.Status, tc.expected)
			}
		})
	}
}

func TestScorerDefaults(t *testing.T) {
	s := newTestScorer()
	if s.VerifyThreshold() != 70 {
		t.Errorf("VerifyThreshold = %d, want 70", s.VerifyThreshold())
	}
}
