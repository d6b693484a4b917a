package commonModels

import "time"

// Artifact is one uploaded file, immutable once stored.
type Artifact struct {
	Id         string    `json:"artifact_id"`
	Name       string    `json:"artifact_name"`
	Kind       MediaKind `json:"media_kind"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is a bounded substring of an artifact's normalized text,
// prepared for independent embedding and retrieval.
type Chunk struct {
	Artifact       Artifact
	ChunkId        string `json:"chunk_id"`
	Content        string `json:"content"`
	Ordinal        int    `json:"chunk_order"`
	EmbeddingModel string `json:"embedding_model"`
}

// RetrievalResult is one similarity hit, score descending in any result list.
type RetrievalResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Ordinal int     `json:"chunk_order"`
	ChunkId string  `json:"chunk_id"`
	Score   float32 `json:"score"`
}

type MediaKind string

var (
	Tabular     MediaKind = "TABULAR"
	FreeText    MediaKind = "DOCUMENT"
	Image       MediaKind = "IMAGE"
	Unsupported MediaKind = "UNSUPPORTED"
)
