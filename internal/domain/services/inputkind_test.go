package services

import (
	"testing"

	"mzansishield/internal/domain/models"
)

func TestDetectInputKind(t *testing.T) {
	testCases := []struct {
		input    string
		expected models.InputKind
		desc     string
	}{
		{"https://scam-site.co.za/login", models.InputKindURL, "full https URL"},
		{"http://phishing.example.com", models.InputKindURL, "full http URL"},
		{"www.fakestore.co.za", models.InputKindURL, "www without scheme"},
		{"fakestore.co.za", models.InputKindURL, "bare za domain"},
		{"suspicious-shop.com", models.InputKindURL, "bare com domain"},
		{"+27 82 123 4567", models.InputKindPhone, "international format with spaces"},
		{"0821234567", models.InputKindPhone, "local format no separators"},
		{"082-123-4567", models.InputKindPhone, "local format with dashes"},
		{"27821234567", models.InputKindPhone, "country code without plus"},
		{"You have won R50000! Claim now", models.InputKindText, "free text message"},
		{"Hi, I am recruiting for a job. Pay R500 registration", models.InputKindText, "job scam text"},
		{"12345", models.InputKindText, "too short for a phone number"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := DetectInputKind(tc.input); got != tc.expected {
				t.Errorf("DetectInputKind(%q) = %s, want %s", tc.input, got, tc.expected)
			}
		})
	}
}

func TestDetectInputKindURLBeatsPhone(t *testing.T) {
	// A URL containing digits must still classify as a URL
	if got := DetectInputKind("https://0821234567.fake.co.za"); got != models.InputKindURL {
		t.Errorf("expected url, got %s", got)
	}
}
