package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/elvispulaj/insight-forge/internal/adapter/utils"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding"
)

// mediaKindFor is a closed dispatch on extension: every supported kind is
// enumerated here, anything else is Unsupported.
func mediaKindFor(path string) commonModels.MediaKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".json":
		return commonModels.Tabular
	case ".pdf", ".docx", ".txt", ".rtf", ".odt":
		return commonModels.FreeText
	case ".png", ".jpg", ".jpeg":
		return commonModels.Image
	default:
		return commonModels.Unsupported
	}
}

func extractText(path string, kind commonModels.MediaKind) ([]rawPage, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case kind == commonModels.Tabular:
		return extractTabular(path, ext)
	case ext == ".pdf":
		return extractPDF(path)
	case kind == commonModels.FreeText:
		return extractDocLike(path)
	default:
		return nil, fmt.Errorf("%w: %s", commonModels.ErrUnsupportedInput, ext)
	}
}

// PrepareChunks splits every extracted page and maps the pieces onto
// ordered Chunk records for the artifact.
func PrepareChunks(pages []rawPage, artifact commonModels.Artifact, splitter Splitter, embeddingModel string) []commonModels.Chunk {
	var allChunks []commonModels.Chunk

	ordinal := 0
	for _, page := range pages {
		for _, text := range splitter.Split(page.Content) {
			allChunks = append(allChunks, commonModels.Chunk{
				Artifact:       artifact,
				ChunkId:        utils.GetNewUUID(),
				Content:        text,
				Ordinal:        ordinal,
				EmbeddingModel: embeddingModel,
			})
			ordinal++
		}
	}

	return allChunks
}

// EmbedChunks runs the whole chunk set through the embedder in batches and
// returns one vector per chunk. Any batch failure fails the lot - index
// builds are all-or-nothing.
func EmbedChunks(ctx context.Context, chunks []commonModels.Chunk, embedder embedding.Embedder) ([][]float32, error) {
	const batchSize = 100

	isHugeDataSet := len(chunks) > 1000000

	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-i)
		for _, c := range chunks[i:end] {
			texts = append(texts, c.Content)
		}

		batch, err := embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}
