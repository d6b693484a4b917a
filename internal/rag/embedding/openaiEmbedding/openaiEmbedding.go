package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/customHttpClient"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension = int64(config.EmbeddingOutputDimensionality)

type client struct {
	oa    openai.Client
	model string
}

func newOpenAIEmbedder(apikey string, modelName string) {
	if apikey == "" {
		logger.Error("No OpenAI API key configured for embeddings")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.PooledClient()),
	)
	embeddingClient = &client{
		oa:    c,
		model: modelName,
	}
	logger.Debug("OpenAI embedding model name: " + modelName)
	logger.Info("OpenAI embedding client created")
}

func GetOpenAIEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(apikey, modelName)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{oa: embeddingClient.oa, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.doCall(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", commonModels.ErrModelUnavailable)
	}
	return vectors[0], nil
}

// BatchEmbedding embeds every chunk in one API call per caller batch. The
// huge-dataset flag exists for providers with an offline batch path, the
// OpenAI endpoint handles our batch sizes inline either way.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error) {
	return c.doCall(ctx, chunks)
}

func (c *client) doCall(ctx context.Context, inputs []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.oa.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(dimension),
	})
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", commonModels.ErrModelUnavailable, err)
	}

	results := make([][]float32, 0, len(res.Data))
	for _, datum := range res.Data {
		vector := make([]float32, len(datum.Embedding))
		for i, v := range datum.Embedding {
			vector[i] = float32(v)
		}
		if len(vector) != int(dimension) {
			return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", dimension, len(vector))
		}
		results = append(results, embedding.Normalize(vector))
	}
	return results, nil
}
