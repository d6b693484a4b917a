package rag_test

import (
	"context"

	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
)

// MockIndex implements vectorDB.SimilarityIndex
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnBuild func(ctx context.Context, indexName string, chunks []commonModels.Chunk, vectors [][]float32) error
	OnQuery func(ctx context.Context, indexName string, vector []float32, k int) ([]commonModels.RetrievalResult, error)
	OnCount func(ctx context.Context, indexName string) int
	OnDrop  func(ctx context.Context, indexName string) error
}

func (m *MockIndex) Build(ctx context.Context, indexName string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if m.OnBuild != nil {
		return m.OnBuild(ctx, indexName, chunks, vectors)
	}
	return nil
}

func (m *MockIndex) Query(ctx context.Context, indexName string, vector []float32, k int) ([]commonModels.RetrievalResult, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, indexName, vector, k)
	}
	return []commonModels.RetrievalResult{
		{Content: "default context", Source: "report.pdf", Score: 0.9},
	}, nil
}

func (m *MockIndex) Count(ctx context.Context, indexName string) int {
	if m.OnCount != nil {
		return m.OnCount(ctx, indexName)
	}
	return 0
}

func (m *MockIndex) Drop(ctx context.Context, indexName string) error {
	if m.OnDrop != nil {
		return m.OnDrop(ctx, indexName)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	// Return dummy vectors matching chunk count
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockProvider implements llm.Provider
type MockProvider struct {
	OnComplete          func(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
	OnCompleteWithImage func(ctx context.Context, systemPrompt string, userPrompt string, imageB64 string) (string, error)

	// captured for assertions
	LastUserPrompt string
}

func (m *MockProvider) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	m.LastUserPrompt = userPrompt
	if m.OnComplete != nil {
		return m.OnComplete(ctx, systemPrompt, userPrompt)
	}
	return "mocked model response", nil
}

func (m *MockProvider) CompleteWithImage(ctx context.Context, systemPrompt string, userPrompt string, imageB64 string) (string, error) {
	m.LastUserPrompt = userPrompt
	if m.OnCompleteWithImage != nil {
		return m.OnCompleteWithImage(ctx, systemPrompt, userPrompt, imageB64)
	}
	return "mocked image response", nil
}
