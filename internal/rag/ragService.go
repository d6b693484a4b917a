package rag

import (
	"context"
	"errors"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/internal/metrics"
	"github.com/elvispulaj/insight-forge/internal/rag/analysis"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding"
	"github.com/elvispulaj/insight-forge/internal/rag/ingest"
	"github.com/elvispulaj/insight-forge/internal/rag/llm"
	"github.com/elvispulaj/insight-forge/internal/rag/vectorDB"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

// comprehensiveProbe seeds retrieval for full-dataset analysis, where the
// user supplies no question of their own.
const comprehensiveProbe = "key trends, patterns, correlations, anomalies and business insights"

// Service is the only surface the worker sees. Everything below it, the
// index, the embedder and the model provider, stays private to this package.
type Service interface {
	ProcessAnalysis(ctx context.Context, job jobModel.Job, session sessionModel.Session, messageHistory []string) jobModel.Job
	IngestArtifact(ctx context.Context, job jobModel.Job) (jobModel.Job, ingest.Summary)
	DropSessionIndex(ctx context.Context, sessionId string) error
}

type service struct {
	index        vectorDB.SimilarityIndex
	orchestrator *analysis.Orchestrator
	embedder     embedding.Embedder
	logger       *logger_i.Logger
}

// NewService constructor
func NewService(index vectorDB.SimilarityIndex, provider llm.Provider, em embedding.Embedder) Service {
	return &service{
		index:        index,
		orchestrator: analysis.NewOrchestrator(provider),
		embedder:     em,
		logger:       logger_i.NewLogger("RAG Service :"),
	}
}

// IndexNameFor derives the per-session collection name. One session owns
// exactly one index, rebuilt wholesale on every ingestion.
func IndexNameFor(sessionId string) string {
	return config.KnowledgeCollectionPrefix + "-" + sessionId
}

func (s *service) ProcessAnalysis(ctx context.Context, jobt jobModel.Job, session sessionModel.Session, messageHistory []string) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id, "kind", jobt.JobPayload.Kind)

	processContext, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall

	// Image and visualization requests never touch the index.
	ragContext := ""
	if query := retrievalQueryFor(jobt.JobPayload); query != "" {
		embeddingStep, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt, query)
		if err != nil {
			return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
		}

		ragContext, err = s.executeRetrievalStep(processContext, inMethodLogger, &jobt, session.Id, embeddingStep)
		if err != nil {
			return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
		}
	}

	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, session, ragContext, messageHistory)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	return returnOutput(jobt, answer)
}

func (s *service) IngestArtifact(ctx context.Context, job jobModel.Job) (jobModel.Job, ingest.Summary) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("artifact_ingestion", time.Since(start)) }()

	j, summary := ingest.ProcessArtifactIngestion(ctx, job, IndexNameFor(job.SessionId), s.embedder, s.index)
	if j.Status == jobModel.JobStatusError {
		return s.jobError(j, errors.New(j.Error.Message), "INGESTION_FAILURE", true), summary
	}
	return j, summary
}

func (s *service) DropSessionIndex(ctx context.Context, sessionId string) error {
	return s.index.Drop(ctx, IndexNameFor(sessionId))
}

// retrievalQueryFor returns the text to embed for index lookup, or "" when
// the request kind does not use retrieval at all.
func retrievalQueryFor(p jobModel.JobPayload) string {
	switch p.Kind {
	case jobModel.KindComprehensive:
		return comprehensiveProbe
	case jobModel.KindCustom, jobModel.KindQuestion:
		return p.Question
	default:
		return ""
	}
}
