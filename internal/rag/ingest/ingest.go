package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/metrics"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding"
	"github.com/elvispulaj/insight-forge/internal/rag/vectorDB"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// Summary is what a successful ingestion hands back to the session layer.
type Summary struct {
	Artifact    commonModels.Artifact
	DataContext string
	ChunkCount  int
}

var logger = logger_i.NewLogger("Artifact Ingestion")

// ProcessArtifactIngestion normalizes the uploaded artifact, chunks it,
// embeds every chunk and rebuilds the session's similarity index wholesale.
// The uploaded temp file is removed afterwards, the artifact lives on only
// as indexed chunks.
func ProcessArtifactIngestion(ctx context.Context, job jobModel.Job, indexName string, e embedding.Embedder, index vectorDB.SimilarityIndex) (jobModel.Job, Summary) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	artifactName := job.JobPayload.IngestFileName
	artifactPath := job.JobPayload.IngestURL

	log.Debug("Processing artifact", "filename", artifactName, "path", artifactPath)

	job.CurrentStep = jobModel.IngestProcessing

	kind := mediaKindFor(artifactPath)
	log.Debug("Processing artifact", "kind", kind)
	if kind == commonModels.Unsupported || kind == commonModels.Image {
		log.Error("Unsupported artifact kind", "kind", kind)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Unsupported artifact type"
		return job, Summary{}
	}

	artifact := commonModels.Artifact{
		Id:         job.Id,
		Name:       artifactName,
		Kind:       kind,
		UploadedAt: time.Now(),
	}

	rawPages, err := extractText(artifactPath, kind)
	if err != nil {
		log.Error("Error extracting artifact content", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Error extracting artifact content"
		return job, Summary{}
	}

	log.Debug("Processing artifact", "raw pages", len(rawPages))

	splitter := NewSplitter(config.ChunkSize, config.ChunkOverlap)
	chunks := PrepareChunks(rawPages, artifact, splitter, embeddingModelName())
	log.Debug("Processing artifact", "chunks", len(chunks))

	if len(chunks) == 0 {
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Artifact contains no indexable text"
		return job, Summary{}
	}

	vectors, err := EmbedChunks(ctx, chunks, e)
	if err != nil {
		job.Status = jobModel.JobStatusError
		log.Error("Error embedding artifact", "error", err)
		return job, Summary{}
	}

	if err = index.Build(ctx, indexName, chunks, vectors); err != nil {
		job.Status = jobModel.JobStatusError
		log.Error("Error building similarity index", "error", err)
		return job, Summary{}
	}
	metrics.AddChunksIndexed(len(chunks))

	if err = os.Remove(artifactPath); err != nil {
		log.Error("Error removing uploaded file", "error", err)
	}

	job.Status = jobModel.JobStatusComplete
	return job, Summary{
		Artifact:    artifact,
		DataContext: dataContextFor(kind, artifact.Name, rawPages),
		ChunkCount:  len(chunks),
	}
}

func embeddingModelName() string {
	if config.EmbeddingProvider() == config.ProviderGoogle {
		return config.GoogleEmbeddingModel
	}
	return config.OpenAIEmbeddingModel
}

// dataContextFor picks the prompt-facing description of the artifact. For
// tabular data the rendered summary is the context itself; for documents a
// short header is enough, retrieval supplies the substance.
func dataContextFor(kind commonModels.MediaKind, name string, pages []rawPage) string {
	if kind == commonModels.Tabular && len(pages) > 0 {
		return pages[0].Content
	}
	total := 0
	for _, p := range pages {
		total += len(p.Content)
	}
	return fmt.Sprintf("Document: %s (%d pages, %d characters)", name, len(pages), total)
}
