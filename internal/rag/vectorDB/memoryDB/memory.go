package memoryDB

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/rag/vectorDB"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

// Store is the default similarity index: per-session brute-force search
// over normalized vectors, held in process memory. The mutex serializes
// Build against Query, which is the one ordering the pipeline needs.
type Store struct {
	mu      sync.RWMutex
	indexes map[string]*builtIndex
	logger  *logger_i.Logger
}

type builtIndex struct {
	chunks  []commonModels.Chunk
	vectors [][]float32
}

func NewStore() *Store {
	return &Store{
		indexes: make(map[string]*builtIndex),
		logger:  logger_i.NewLogger("MemoryIndex"),
	}
}

var _ vectorDB.SimilarityIndex = (*Store)(nil)

func (s *Store) Build(ctx context.Context, indexName string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(vectors) > 0 {
		dim := len(vectors[0])
		for _, v := range vectors {
			if len(v) != dim {
				return fmt.Errorf("vector dimension mismatch: %d vs %d", len(v), dim)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[indexName] = &builtIndex{
		chunks:  append([]commonModels.Chunk(nil), chunks...),
		vectors: append([][]float32(nil), vectors...),
	}
	s.logger.Debug("Built index", "name", indexName, "chunks", len(chunks))
	return nil
}

func (s *Store) Query(ctx context.Context, indexName string, vector []float32, k int) ([]commonModels.RetrievalResult, error) {
	if k <= 0 {
		k = config.TopKResults
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[indexName]
	if !ok || len(idx.chunks) == 0 {
		return nil, nil
	}

	scores := make([]float32, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = dot(v, vector)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]commonModels.RetrievalResult, 0, k)
	for _, i := range order[:k] {
		chunk := idx.chunks[i]
		results = append(results, commonModels.RetrievalResult{
			Content: chunk.Content,
			Source:  chunk.Artifact.Name,
			Ordinal: chunk.Ordinal,
			ChunkId: chunk.ChunkId,
			Score:   scores[i],
		})
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context, indexName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.indexes[indexName]; ok {
		return len(idx.chunks)
	}
	return 0
}

func (s *Store) Drop(ctx context.Context, indexName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, indexName)
	return nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
