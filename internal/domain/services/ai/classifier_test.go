package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mzansishield/internal/config"
	"mzansishield/internal/domain/models"
	"mzansishield/pkg/logger"
)

func newTestClassifier(url string) *ThreatClassifier {
	return NewThreatClassifier(config.ClassifierConfig{
		APIURL:  url,
		Model:   "test-model",
		Timeout: time.Second,
	}, logger.Nop())
}

func gatewayReply(content string) string {
	return `{"choices":[{"message":{"content":` + content + `}}]}`
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(gatewayReply(`"{\"status\":\"danger\",\"riskLevel\":9,\"summary\":\"phishing link\",\"details\":[\"lookalike domain\"]}"`)))
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	result := tc.Analyze(context.Background(), "http://capitec-login.example.com", models.LanguageEnglish)

	if result.Status != models.VerdictDanger {
		t.Errorf("Status = %s, want danger", result.Status)
	}
	if result.RiskLevel != 9 {
		t.Errorf("RiskLevel = %d, want 9", result.RiskLevel)
	}
	if result.Summary != "phishing link" {
		t.Errorf("Summary = %q", result.Summary)
	}
}

func TestAnalyzeParsesFencedVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(gatewayReply(`"` + "```json\\n{\\\"status\\\":\\\"safe\\\",\\\"riskLevel\\\":1,\\\"summary\\\":\\\"looks fine\\\",\\\"details\\\":[]}\\n```" + `"`)))
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	result := tc.Analyze(context.Background(), "hello", models.LanguageEnglish)

	if result.Status != models.VerdictSafe {
		t.Errorf("Status = %s, want safe", result.Status)
	}
	if result.RiskLevel != 1 {
		t.Errorf("RiskLevel = %d, want 1", result.RiskLevel)
	}
}

func TestAnalyzeFallbackOnRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	assertFallback(t, tc.Analyze(context.Background(), "content", models.LanguageEnglish))
}

func TestAnalyzeFallbackOnUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusPaymentRequired, http.StatusInternalServerError, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		tc := newTestClassifier(server.URL)
		assertFallback(t, tc.Analyze(context.Background(), "content", models.LanguageEnglish))
		server.Close()
	}
}

func TestAnalyzeFallbackOnMalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gatewayReply(`"not json at all"`)))
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	assertFallback(t, tc.Analyze(context.Background(), "content", models.LanguageEnglish))
}

func TestAnalyzeFallbackOnEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	assertFallback(t, tc.Analyze(context.Background(), "content", models.LanguageEnglish))
}

func TestAnalyzeFallbackOnUnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gatewayReply(`"{\"status\":\"catastrophic\",\"riskLevel\":3,\"summary\":\"x\"}"`)))
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	assertFallback(t, tc.Analyze(context.Background(), "content", models.LanguageEnglish))
}

func TestAnalyzeFallbackOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	tc := NewThreatClassifier(config.ClassifierConfig{
		APIURL:  server.URL,
		Model:   "test-model",
		Timeout: 50 * time.Millisecond,
	}, logger.Nop())

	assertFallback(t, tc.Analyze(context.Background(), "content", models.LanguageEnglish))
}

func TestAnalyzeClampsRiskLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gatewayReply(`"{\"status\":\"danger\",\"riskLevel\":42,\"summary\":\"x\",\"details\":[]}"`)))
	}))
	defer server.Close()

	tc := newTestClassifier(server.URL)
	result := tc.Analyze(context.Background(), "content", models.LanguageEnglish)

	if result.RiskLevel != 10 {
		t.Errorf("RiskLevel = %d, want 10", result.RiskLevel)
	}
}

func assertFallback(t *testing.T, result *models.AnalysisResult) {
	t.Helper()

	fallback := FallbackVerdict()
	if result.Status != fallback.Status {
		t.Errorf("Status = %s, want %s", result.Status, fallback.Status)
	}
	if result.RiskLevel != fallback.RiskLevel {
		t.Errorf("RiskLevel = %d, want %d", result.RiskLevel, fallback.RiskLevel)
	}
	if result.Summary != fallback.Summary {
		t.Errorf("Summary = %q, want %q", result.Summary, fallback.Summary)
	}
}
