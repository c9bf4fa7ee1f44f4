package ai

import (
	"context"
	"log/slog"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

type Client interface {
	ClassifyCompany(ctx context.Context, data CompanyData) (CompanyClassification, error)
}

// NewClient picks a provider. An empty provider means gemini when a key is
// present and mock otherwise.
func NewClient(provider, geminiKey string) Client {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		if geminiKey != "" {
			provider = ProviderGemini
		} else {
			provider = ProviderMock
		}
	}

	switch provider {
	case ProviderGemini:
		if geminiKey == "" {
			slog.Warn("gemini selected without an api key, using mock classifier")
			return NewMockClient()
		}
		slog.Info("using gemini category classifier")
		return NewGeminiClient(geminiKey)
	default:
		slog.Info("using mock category classifier")
		return NewMockClient()
	}
}

type CompanyData struct {
	Name string
	Text string
	// Categories lists the labels the answer must come from.
	Categories []string
}

type CompanyClassification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// MockClient never has an opinion; every company stays in the fallback bucket.
type MockClient struct {
	Fallback string
}

func NewMockClient() *MockClient {
	return &MockClient{Fallback: "other"}
}

func (m *MockClient) ClassifyCompany(_ context.Context, _ CompanyData) (CompanyClassification, error) {
	return CompanyClassification{
		Category: m.Fallback,
		Reason:   "mock classifier",
	}, nil
}
