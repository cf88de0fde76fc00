package services

import (
	"regexp"
	"strings"

	"mzansishield/internal/domain/models"
)

// Markers that make dotted input look like a web address
var urlMarkers = []string{"www.", ".co.za", ".com", ".org", ".net", ".gov.za", ".io"}

// South African phone shapes: +27/27/0 country prefix, then a 2-3-4
// digit grouping with optional space or dash separators.
var saPhonePattern = regexp.MustCompile(`^(\+27|27|0)[\s-]?\d{2}[\s-]?\d{3}[\s-]?\d{4}$`)

// DetectInputKind classifies raw checked input as a URL, a South
// African phone number or free text. Order matters: URL wins over
// phone, phone over the text default.
func DetectInputKind(input string) models.InputKind {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return models.InputKindText
	}

	if strings.Contains(s, "http://") || strings.Contains(s, "https://") {
		return models.InputKindURL
	}
	if strings.Contains(s, ".") {
		for _, marker := range urlMarkers {
			if strings.Contains(s, marker) {
				return models.InputKindURL
			}
		}
	}

	if saPhonePattern.MatchString(s) {
		return models.InputKindPhone
	}

	return models.InputKindText
}
