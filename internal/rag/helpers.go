package rag

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/internal/metrics"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessAnalysis", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, query string) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, query)
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, sessionId string, emb []float32) (string, error) {
	*job = logOutput(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, err := s.index.Query(ctx, IndexNameFor(sessionId), emb, config.TopKResults)
	if err != nil {
		return "", err
	}

	ragContext, sources := AssembleContext(matches)
	job.JobPayload.Sources = sources
	return ragContext, nil
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, session sessionModel.Session, ragContext string, history []string) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	dataContext := session.DataContext

	switch job.JobPayload.Kind {
	case jobModel.KindComprehensive:
		return s.orchestrator.AnalyzeData(ctx, dataContext, ragContext)
	case jobModel.KindCustom:
		return s.orchestrator.CustomAnalysis(ctx, job.JobPayload.Question, dataContext, ragContext)
	case jobModel.KindQuestion:
		return s.orchestrator.AnswerQuestion(ctx, job.JobPayload.Question, withHistory(dataContext, history), ragContext)
	case jobModel.KindVisualization:
		return s.orchestrator.SuggestVisualizations(ctx, dataContext)
	case jobModel.KindImage:
		return s.orchestrator.AnalyzeImage(ctx, job.JobPayload.ImagePath, job.JobPayload.Question)
	default:
		return "", fmt.Errorf("unknown analysis kind %q", job.JobPayload.Kind)
	}
}

// withHistory folds the recent conversation into the data description so
// follow-up questions keep their referents.
func withHistory(dataContext string, history []string) string {
	if len(history) == 0 {
		return dataContext
	}
	return dataContext + "\n\nRecent conversation:\n" + strings.Join(history, "\n")
}
