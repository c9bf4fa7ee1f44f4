package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/baxromumarov/fundedlist/internal/ai"
	"github.com/baxromumarov/fundedlist/internal/observability"
)

const minAIConfidence = 0.5

// ClassifierService asks an AI provider for a category when keyword
// matching found nothing. It satisfies CategoryRefiner.
type ClassifierService struct {
	aiClient ai.Client
	labels   []string
}

func NewClassifierService(aiClient ai.Client, labels []string) *ClassifierService {
	return &ClassifierService{aiClient: aiClient, labels: append([]string(nil), labels...)}
}

// Refine returns "" when the provider is unsure.
func (s *ClassifierService) Refine(ctx context.Context, name, text string) (string, error) {
	data := ai.CompanyData{
		Name:       name,
		Text:       text,
		Categories: s.labels,
	}

	observability.IncAICall("classifier")
	result, err := s.aiClient.ClassifyCompany(ctx, data)
	if err != nil {
		observability.IncError(observability.ErrorAI, "classifier")
		return "", fmt.Errorf("classification failed: %w", err)
	}
	if result.Confidence < minAIConfidence {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(result.Category)), nil
}
