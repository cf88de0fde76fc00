package services

import (
	"testing"

	"github.com/google/uuid"

	"mzansishield/internal/domain/models"
	"mzansishield/pkg/logger"
)

func TestNormalize(t *testing.T) {
	m := NewMatcher(logger.Nop())

	testCases := []struct {
		input    string
		expected string
		desc     string
	}{
		{"https://Scam-Site.co.za", "scam-site.co.za", "https prefix and case"},
		{"http://www.scam-site.co.za", "scam-site.co.za", "http and www prefixes"},
		{"WWW.Example.COM", "example.com", "bare www prefix"},
		{"0821234567", "0821234567", "phone number untouched"},
		{"Job Offer Text", "job offer text", "free text lowercased"},
		{"", "", "empty input"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := m.Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestIsSimilar(t *testing.T) {
	m := NewMatcher(logger.Nop())

	testCases := []struct {
		a, b     string
		expected bool
		desc     string
	}{
		{"scam-site.co.za", "https://www.scam-site.co.za/login", true, "one contains the other after normalizing"},
		{"https://scam-site.co.za/login", "scam-site.co.za", true, "containment is symmetric"},
		{"0821234567", "0821234567", true, "identical identifiers"},
		{"scam-site.co.za", "other-site.co.za", false, "unrelated domains"},
		{"", "scam-site.co.za", false, "empty left side never matches"},
		{"https://www.", "scam-site.co.za", false, "identifier empty after normalizing"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := m.IsSimilar(tc.a, tc.b); got != tc.expected {
				t.Errorf("IsSimilar(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestFindRelated(t *testing.T) {
	m := NewMatcher(logger.Nop())

	similar := &models.ScamReport{ID: uuid.New(), Identifier: "https://scam-site.co.za/login"}
	exact := &models.ScamReport{ID: uuid.New(), Identifier: "Scam-Site.co.za"}
	unrelated := &models.ScamReport{ID: uuid.New(), Identifier: "0821234567"}
	reports := []*models.ScamReport{similar, exact, unrelated}

	related := m.FindRelated("scam-site.co.za", reports)

	if len(related) != 1 {
		t.Fatalf("expected 1 related report, got %d", len(related))
	}
	if related[0] != similar.ID {
		t.Errorf("expected related ID %s, got %s", similar.ID, related[0])
	}
}

func TestFindRelatedEmptyCollection(t *testing.T) {
	m := NewMatcher(logger.Nop())

	if related := m.FindRelated("scam-site.co.za", nil); len(related) != 0 {
		t.Errorf("expected no related reports, got %d", len(related))
	}
}
