package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/rag/llm"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

// Orchestrator fills the task templates and dispatches single-attempt calls
// to the completion provider. It keeps no state of its own - conversation
// history is the caller's business.
type Orchestrator struct {
	provider     llm.Provider
	systemPrompt string
	logger       *logger_i.Logger
}

func NewOrchestrator(provider llm.Provider) *Orchestrator {
	return &Orchestrator{
		provider:     provider,
		systemPrompt: config.SystemPrompt,
		logger:       logger_i.NewLogger("Analysis Orchestrator"),
	}
}

// AnalyzeData runs the comprehensive analysis over the dataset description
// and retrieval context.
func (o *Orchestrator) AnalyzeData(ctx context.Context, dataContext string, ragContext string) (string, error) {
	prompt := fmt.Sprintf(dataAnalysisPrompt, dataContext, orDefault(ragContext))
	return o.provider.Complete(ctx, o.systemPrompt, prompt)
}

// AnswerQuestion answers a targeted business question grounded in the data
// and retrieval context.
func (o *Orchestrator) AnswerQuestion(ctx context.Context, question string, dataContext string, ragContext string) (string, error) {
	prompt := fmt.Sprintf(questionAnswerPrompt, dataContext, orDefault(ragContext), question)
	return o.provider.Complete(ctx, o.systemPrompt, prompt)
}

// CustomAnalysis runs a free-form analysis request.
func (o *Orchestrator) CustomAnalysis(ctx context.Context, request string, dataContext string, ragContext string) (string, error) {
	prompt := fmt.Sprintf(customAnalysisPrompt, dataContext, orDefault(ragContext), request)
	return o.provider.Complete(ctx, o.systemPrompt, prompt)
}

// SuggestVisualizations asks for chart suggestions over the data profile.
// Retrieval context is deliberately not used here, the profile is enough.
func (o *Orchestrator) SuggestVisualizations(ctx context.Context, dataContext string) (string, error) {
	prompt := fmt.Sprintf(visualizationSuggestionPrompt, dataContext)
	return o.provider.Complete(ctx, o.systemPrompt, prompt)
}

// AnalyzeImage sends an uploaded image through the provider's vision path.
func (o *Orchestrator) AnalyzeImage(ctx context.Context, imagePath string, prompt string) (string, error) {
	if prompt == "" {
		prompt = defaultImagePrompt
	}

	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(imageBytes)

	return o.provider.CompleteWithImage(ctx, o.systemPrompt, prompt, encoded)
}

func orDefault(ragContext string) string {
	if ragContext == "" {
		return NoAdditionalContext
	}
	return ragContext
}
