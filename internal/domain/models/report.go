package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus represents the review status of a community scam report
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusVerified      ReportStatus = "verified"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusFalsePositive ReportStatus = "falsePositive"
)

// IsValid checks whether the status is a known value
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusVerified, ReportStatusResolved, ReportStatusFalsePositive:
		return true
	}
	return false
}

// ScamCategory is the closed set of scam types a report can carry
type ScamCategory string

const (
	CategoryJob     ScamCategory = "job"
	CategoryBank    ScamCategory = "bank"
	CategoryLottery ScamCategory = "lottery"
	CategoryStore   ScamCategory = "store"
	CategoryRomance ScamCategory = "romance"
	CategoryOther   ScamCategory = "other"
)

// IsValid checks whether the category is a known value
func (c ScamCategory) IsValid() bool {
	switch c {
	case CategoryJob, CategoryBank, CategoryLottery, CategoryStore, CategoryRomance, CategoryOther:
		return true
	}
	return false
}

// Language is a supported reporting/analysis language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageZulu    Language = "zu"
	LanguageXhosa   Language = "xh"
	LanguageSepedi  Language = "nso"
)

// IsValid checks whether the language is supported
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageZulu, LanguageXhosa, LanguageSepedi:
		return true
	}
	return false
}

// ScamReport is a community-reported scam identifier (link, phone
// number or email) together with its accumulated evidence. Exactly one
// record exists per case-insensitive identifier; repeat submissions
// collapse into it.
type ScamReport struct {
	ID          uuid.UUID    `json:"id"`
	Identifier  string       `json:"identifier"`
	Description string       `json:"description,omitempty"`
	Category    ScamCategory `json:"category"`
	Language    Language     `json:"language"`

	CreatedAt time.Time `json:"created_at"`
	ISODate   string    `json:"iso_date"`

	// Accumulated evidence
	ReportsCount    int          `json:"reports_count"`
	ConfidenceScore int          `json:"confidence_score"`
	Status          ReportStatus `json:"status"`

	// IDs of other records judged similar at write time
	RelatedReportIDs []uuid.UUID `json:"related_report_ids,omitempty"`
}

// HasRelated reports whether id is already in the related set
func (r *ScamReport) HasRelated(id uuid.UUID) bool {
	for _, existing := range r.RelatedReportIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// AddRelated unions ids into the related set, preserving order
func (r *ScamReport) AddRelated(ids []uuid.UUID) {
	for _, id := range ids {
		if id != r.ID && !r.HasRelated(id) {
			r.RelatedReportIDs = append(r.RelatedReportIDs, id)
		}
	}
}

// SubmitReportRequest is the payload for submitting a scam report
type SubmitReportRequest struct {
	Identifier  string       `json:"identifier"`
	Description string       `json:"description,omitempty"`
	Category    ScamCategory `json:"category"`
	Language    Language     `json:"language,omitempty"`
}

// ReportStats is the aggregate view over the report collection,
// recomputed from a full scan on every read.
type ReportStats struct {
	Total                   int `json:"total"`
	TodayCount              int `json:"today_count"`
	VerifiedCount           int `json:"verified_count"`
	TotalReportsAcross      int `json:"total_reports_across_records"`
	VerificationRatePercent int `json:"verification_rate_percent"`
}
