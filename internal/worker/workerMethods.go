package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	jobmodel "github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/internal/metrics"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobExecutionTimeout)
	defer cancel()
	log := logger.With("trace Id", job.TraceId, "job Id", job.Id)
	log.Debug("Processing job")

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	if job.JobType == jobmodel.JobTypeIngest {
		job.CurrentStep = jobmodel.IngestProcessing
		job = ingestArtifact(job, ctx, log)
	} else {
		job.CurrentStep = jobmodel.AnalysisInit
		job = processAnalysis(job, ctx, log)
		if job.Status != jobmodel.JobStatusError && job.JobPayload.Kind == jobmodel.KindQuestion {
			if err := _jobService.ConversationStore.TrySaveExchange(ctx, job.SessionId, job.JobPayload); err != nil {
				log.Error("Failed to save conversation history", "err", err)
			}
		}
	}

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func ingestArtifact(job jobmodel.Job, ctx context.Context, log *logger_i.Logger) jobmodel.Job {
	job, summary := _ragService.IngestArtifact(ctx, job)
	if job.Status == jobmodel.JobStatusError {
		return job
	}

	// the session records what the index now holds
	session, found := _jobService.SessionStore.GetSession(ctx, job.SessionId)
	if !found {
		session = sessionModel.Session{Id: job.SessionId, CreatedAt: time.Now()}
	}
	session.ArtifactId = summary.Artifact.Id
	session.ArtifactName = summary.Artifact.Name
	session.DataContext = summary.DataContext
	session.ChunkCount = summary.ChunkCount
	session.IndexedAt = time.Now()
	if err := _jobService.SessionStore.SaveSession(ctx, session); err != nil {
		log.Error("Failed to save session after ingest", "err", err)
	}
	if err := _jobService.ConversationStore.InitConversation(ctx, job.SessionId); err != nil {
		log.Error("Failed to reset conversation after ingest", "err", err)
	}
	return job
}

func processAnalysis(job jobmodel.Job, ctx context.Context, log *logger_i.Logger) jobmodel.Job {
	session, _ := _jobService.SessionStore.GetSession(ctx, job.SessionId)

	err, messageHistory := _jobService.ConversationStore.GetHistory(ctx, job.SessionId)
	if err != nil {
		log.Error("Failed to get conversation history", "err", err)
	}
	return _ragService.ProcessAnalysis(ctx, job, session, messageHistory)
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
