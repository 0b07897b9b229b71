package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultModel   = "gemini-2.0-flash-lite"
	defaultBaseURL = "https://generativelanguage.googleapis.com"
)

// GeminiOracle scores comment sentiment using the Gemini API. For
// identical input within a session the model is prompted for a single
// digit, keeping the contract deterministic enough to act on.
type GeminiOracle struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures a GeminiOracle.
type GeminiOption func(*GeminiOracle)

// WithModel sets the Gemini model to use.
func WithModel(model string) GeminiOption {
	return func(o *GeminiOracle) {
		o.model = model
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) GeminiOption {
	return func(o *GeminiOracle) {
		o.baseURL = url
	}
}

// NewGeminiOracle creates a Gemini-backed sentiment oracle.
func NewGeminiOracle(apiKey string, opts ...GeminiOption) *GeminiOracle {
	o := &GeminiOracle{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sentiment classifies text as 0 (negative), 1 (neutral), or 2
// (positive).
func (o *GeminiOracle) Sentiment(ctx context.Context, text string) (int, error) {
	prompt := buildPrompt(text)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{{Text: prompt}},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", o.baseURL, o.model, o.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	return parseGeminiResponse(&geminiResp)
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Classify the sentiment of the following social media comment.

Comment:
%s

Respond with a single digit only:
0 for negative, 1 for neutral, 2 for positive.`, text)
}

func parseGeminiResponse(resp *geminiResponse) (int, error) {
	if len(resp.Candidates) == 0 {
		return 0, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return 0, fmt.Errorf("no parts in candidate")
	}

	text := stripMarkdownCodeBlock(candidate.Content.Parts[0].Text)

	label, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse sentiment label %q: %w", text, err)
	}
	if label < SentimentNegative || label > SentimentPositive {
		return 0, fmt.Errorf("sentiment label %d out of range", label)
	}
	return label, nil
}

var codeBlockRegex = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.+?)\\s*```\\s*$")

func stripMarkdownCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if matches := codeBlockRegex.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return s
}

// Gemini API types

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}
