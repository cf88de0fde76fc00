// Package ai consumes the remote threat-classifier gateway. The
// gateway is best-effort: any failure collapses to a fixed cautionary
// verdict so a check never errors out in front of the user.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mzansishield/internal/config"
	"mzansishield/internal/domain/models"
	"mzansishield/pkg/logger"
)

// ThreatClassifier sends suspicious content to the hosted model
// gateway and parses the structured verdict out of the reply.
type ThreatClassifier struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     config.ClassifierConfig
}

// NewThreatClassifier creates a classifier client
func NewThreatClassifier(cfg config.ClassifierConfig, log *logger.Logger) *ThreatClassifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	return &ThreatClassifier{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("threat-classifier"),
		config: cfg,
	}
}

// chatMessage is the gateway's OpenAI-compatible message shape
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze classifies content and never fails: every error path
// degrades to the fallback verdict so the caller always has something
// to show.
func (tc *ThreatClassifier) Analyze(ctx context.Context, content string, language models.Language) *models.AnalysisResult {
	reply, err := tc.complete(ctx, content, language)
	if err != nil {
		tc.logFailure(err)
		return FallbackVerdict()
	}

	result, err := parseVerdict(reply)
	if err != nil {
		tc.logger.Warn().Err(err).Msg("unparsable classifier reply, using fallback verdict")
		return FallbackVerdict()
	}

	if !result.Status.IsValid() {
		tc.logger.Warn().Str("status", string(result.Status)).Msg("classifier returned unknown status, using fallback verdict")
		return FallbackVerdict()
	}
	if result.RiskLevel < 0 {
		result.RiskLevel = 0
	}
	if result.RiskLevel > 10 {
		result.RiskLevel = 10
	}

	return result
}

var (
	errRateLimited = errors.New("classifier rate limited")
	errUnavailable = errors.New("classifier unavailable")
)

func (tc *ThreatClassifier) complete(ctx context.Context, content string, language models.Language) (string, error) {
	reqBody := chatRequest{
		Model: tc.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(language)},
			{Role: "user", Content: "Analyze this content for scam indicators:\n\n" + content},
		},
		Temperature: tc.config.Temperature,
		MaxTokens:   tc.config.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.config.APIURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+tc.config.APIKey)
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errRateLimited
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status %d", errUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", errors.New("empty classifier reply")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (tc *ThreatClassifier) logFailure(err error) {
	switch {
	case errors.Is(err, errRateLimited):
		tc.logger.Warn().Msg("classifier rate limited, using fallback verdict")
	case errors.Is(err, errUnavailable):
		tc.logger.Warn().Err(err).Msg("classifier unavailable, using fallback verdict")
	case errors.Is(err, context.DeadlineExceeded):
		tc.logger.Warn().Dur("timeout", tc.config.Timeout).Msg("classifier timed out, using fallback verdict")
	default:
		tc.logger.Warn().Err(err).Msg("classifier request failed, using fallback verdict")
	}
}

// FallbackVerdict is the fixed cautionary result used whenever the
// remote classifier cannot produce one.
func FallbackVerdict() *models.AnalysisResult {
	return &models.AnalysisResult{
		Status:    models.VerdictWarning,
		RiskLevel: 5,
		Summary:   "Unable to complete a full analysis. Treat this content with caution.",
		Details: []string{
			"The analysis service could not be reached.",
			"Do not share personal or banking details until you have verified the sender.",
			"Try checking again in a few minutes.",
		},
	}
}

// parseVerdict digs the JSON verdict out of a model reply that may be
// wrapped in markdown fences or surrounding prose.
func parseVerdict(reply string) (*models.AnalysisResult, error) {
	reply = strings.TrimSpace(reply)

	if strings.HasPrefix(reply, "```json") {
		reply = strings.TrimPrefix(reply, "```json")
		reply = strings.TrimSuffix(reply, "```")
		reply = strings.TrimSpace(reply)
	} else if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```")
		reply = strings.TrimSuffix(reply, "```")
		reply = strings.TrimSpace(reply)
	}

	startIdx := strings.Index(reply, "{")
	endIdx := strings.LastIndex(reply, "}")
	if startIdx == -1 || endIdx <= startIdx {
		return nil, errors.New("no JSON object in reply")
	}
	reply = reply[startIdx : endIdx+1]

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		return nil, fmt.Errorf("failed to parse verdict JSON: %w", err)
	}

	return &result, nil
}

func systemPrompt(language models.Language) string {
	lang := languageName(language)

	return fmt.Sprintf(`You are MzansiShield, a scam detection assistant for South Africa. You analyze messages, links and phone numbers for signs of fraud targeting South Africans.

## Common South African scam patterns:
- Fake job offers demanding upfront "registration" or "training" fees
- SMS claiming SASSA grant or UIF payout problems with a link to "verify" details
- Impersonation of banks (Capitec, FNB, Standard Bank, Absa, Nedbank) asking for OTPs or card details
- WhatsApp "wrong number" investment and crypto schemes
- Fake online stores with prices far below retail, payment by EFT only
- Lottery/competition wins requiring a fee to release the prize
- Romance scams building trust before asking for money
- Fake Eskom or SARS communications demanding immediate payment

## Analysis guidelines:
1. Look for urgency and pressure tactics
2. Check for requests for OTPs, PINs, card numbers or upfront fees
3. Spot lookalike domains and shortened links
4. Recognize impersonation of trusted South African institutions

## Response format:
Write the summary and details in %s. Respond with valid JSON only, in this structure:
{
  "status": "safe" | "warning" | "danger",
  "riskLevel": 0-10,
  "summary": "one-sentence assessment",
  "details": ["specific observations and advice"]
}`, lang)
}

func languageName(language models.Language) string {
	switch language {
	case models.LanguageZulu:
		return "isiZulu"
	case models.LanguageXhosa:
		return "isiXhosa"
	case models.LanguageSepedi:
		return "Sepedi"
	default:
		return "English"
	}
}
