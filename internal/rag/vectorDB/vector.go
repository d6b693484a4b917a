package vectorDB

import (
	"context"

	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
)

// SimilarityIndex holds embedded chunks per named index (one per session)
// and answers nearest-neighbor queries over them. Vectors are expected to
// arrive L2-normalized, so similarity is a plain dot product.
type SimilarityIndex interface {
	// Build replaces the named index wholesale. There is no incremental
	// delete - a new artifact means a new index.
	Build(ctx context.Context, indexName string, chunks []commonModels.Chunk, vectors [][]float32) error

	// Query returns up to k results ordered by descending similarity.
	// Querying an index that was never built yields an empty result, not
	// an error.
	Query(ctx context.Context, indexName string, vector []float32, k int) ([]commonModels.RetrievalResult, error)

	// Count reports the number of chunks held by the named index.
	Count(ctx context.Context, indexName string) int

	// Drop discards the named index.
	Drop(ctx context.Context, indexName string) error
}
