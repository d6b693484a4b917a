package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

// ClientHolder wraps the shared qdrant client. It is the optional durable
// backend for session indexes - the default deployment runs on the
// in-memory index and never touches qdrant.
type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}
	if host == "" {
		return nil
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	healthCtx, cancel := context.WithTimeout(context.Background(), config.QdrantConnectionTimeout)
	defer cancel()
	if _, err = client.HealthCheck(healthCtx); err != nil {
		logger.Error("qdrant is unreachable: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// Build drops and recreates the collection - an index rebuild is wholesale,
// there is no incremental delete path.
func (db *ClientHolder) Build(ctx context.Context, indexName string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	if err := recreateCollection(ctx, db.QObj, indexName); err != nil {
		return err
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":         chunk.Content,
				"source":          chunk.Artifact.Name,
				"artifact_id":     chunk.Artifact.Id,
				"chunk_order":     chunk.Ordinal,
				"chunk_id":        chunk.ChunkId,
				"embedding_model": chunk.EmbeddingModel,
				"ingested_at":     chunk.Artifact.UploadedAt.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: indexName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Query(ctx context.Context, indexName string, vector []float32, k int) ([]commonModels.RetrievalResult, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if k <= 0 {
		k = config.TopKResults
	}

	exists, err := db.QObj.CollectionExists(ctx, indexName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: indexName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	var matches []commonModels.RetrievalResult
	for _, hit := range result {
		matches = append(matches, commonModels.RetrievalResult{
			Content: hit.Payload["content"].GetStringValue(),
			Source:  hit.Payload["source"].GetStringValue(),
			Ordinal: int(hit.Payload["chunk_order"].GetIntegerValue()),
			ChunkId: hit.Payload["chunk_id"].GetStringValue(),
			Score:   hit.Score,
		})
	}

	loggr.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func (db *ClientHolder) Count(ctx context.Context, indexName string) int {
	exists, err := db.QObj.CollectionExists(ctx, indexName)
	if err != nil || !exists {
		return 0
	}
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: indexName,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Error("Error counting points: ", "error:", err)
		return 0
	}
	return int(count)
}

func (db *ClientHolder) Drop(ctx context.Context, indexName string) error {
	exists, err := db.QObj.CollectionExists(ctx, indexName)
	if err != nil || !exists {
		return err
	}
	return db.QObj.DeleteCollection(ctx, indexName)
}

func recreateCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		if err = client.DeleteCollection(ctx, collectionName); err != nil {
			return err
		}
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
