package openaiLLM

import (
	"context"
	"fmt"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/customHttpClient"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/rag/llm"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(apikey, modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName}
}

func newOpenAIClient(apikey string, modelName string) {
	if apikey == "" {
		logger.Error("No OpenAI API key configured for completions")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.PooledClient()),
	)
	openaiClient = &llmClient{client: c, modelName: modelName}
	logger.Debug("OpenAI " + modelName + " client created")
	logger.Info("OpenAI completion client created")
}

func (c *llmClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	return c.send(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(userPrompt),
	})
}

func (c *llmClient) CompleteWithImage(ctx context.Context, systemPrompt string, userPrompt string, imageB64 string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(userPrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/jpeg;base64," + imageB64,
		}),
	}
	return c.send(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(parts),
	})
}

func (c *llmClient) send(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    messages,
		Temperature: openai.Float(config.ModelTemperature),
		MaxTokens:   openai.Int(config.MaxCompletionTokens),
	})
	if err != nil {
		log.Error("Error from OpenAI completion", "error", err.Error())
		return "", fmt.Errorf("%w: %v", commonModels.ErrModelUnavailable, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", commonModels.ErrModelUnavailable)
	}
	return result.Choices[0].Message.Content, nil
}
