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
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel  = "gemini-2.0-flash"
)

// GeminiClient implements Client on top of the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini AI client.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GeminiClient) WithModel(model string) *GeminiClient {
	if model != "" {
		g.model = model
	}
	return g
}

func (g *GeminiClient) WithBaseURL(base string) *GeminiClient {
	if base != "" {
		g.baseURL = strings.TrimSuffix(base, "/")
	}
	return g
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

func (g *GeminiClient) callAPI(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: prompt},
				},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0.1,
			MaxOutputTokens:  200,
			ResponseMIMEType: "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", fmt.Errorf("gemini api error: %s (code: %d)", geminiResp.Error.Message, geminiResp.Error.Code)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("gemini api status %d", resp.StatusCode)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// ClassifyCompany asks Gemini to place a company in one of data.Categories.
func (g *GeminiClient) ClassifyCompany(ctx context.Context, data CompanyData) (CompanyClassification, error) {
	prompt := fmt.Sprintf(`You are a startup industry classifier.

Given a company name and description, pick the single best category.

Return JSON only with this exact structure:
{
  "category": one of [%s],
  "confidence": number between 0 and 1,
  "reason": "short explanation"
}

Rules:
- "category" must be copied exactly from the list
- use "other" when nothing fits
- "reason" = short explanation (max 30 words)

Company: %s
Description:
%s`, strings.Join(data.Categories, ", "), data.Name, truncateText(data.Text, 800))

	response, err := g.callAPI(ctx, prompt)
	if err != nil {
		return CompanyClassification{}, err
	}

	var result CompanyClassification
	if err := json.Unmarshal([]byte(cleanJSON(response)), &result); err != nil {
		return CompanyClassification{}, fmt.Errorf("failed to parse classification: %w (response: %s)", err, response)
	}
	result.Category = strings.ToLower(strings.TrimSpace(result.Category))
	return result, nil
}

func truncateText(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen]) + "..."
}

// cleanJSON removes markdown code blocks if present
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
