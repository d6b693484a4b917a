package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/rag/llm"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey, modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, apikey string, modelName string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Debug("Gemini " + modelName + " client created")
		logger.Info("Gemini client created")
		go closeClient(ctx, geminiClient)
	}
}

func (c *llmClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	return c.send(ctx, systemPrompt, genai.Text(userPrompt))
}

func (c *llmClient) CompleteWithImage(ctx context.Context, systemPrompt string, userPrompt string, imageB64 string) (string, error) {
	imageBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return "", fmt.Errorf("invalid image payload: %w", err)
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: userPrompt},
				{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: imageBytes}},
			},
		},
	}
	return c.send(ctx, systemPrompt, contents)
}

func (c *llmClient) send(ctx context.Context, systemPrompt string, contents []*genai.Content) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, contentConfig)
	if err != nil {
		log.Error("Error from Gemini completion", "error", err.Error())
		return "", fmt.Errorf("%w: %v", commonModels.ErrModelUnavailable, err)
	}
	return result.Text(), nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
