package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/internal/job"
	"github.com/elvispulaj/insight-forge/internal/metrics"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	log := logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	log.Info("To create new job")
	if newJob.isNewSession {
		log.Info("Create new session")
		handlerInstance.initNewSession(newJob.sessionId, newJob.username, newJob.traceId)
	}
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func GetSession(id string, traceId string) (sessionModel.Session, bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.SessionStore.GetSession(ctxC, id)
	}
	return sessionModel.Session{}, false
}

func DeleteSession(ctx context.Context, id string) {
	if handlerInstance == nil {
		return
	}
	handlerInstance.service.SessionStore.DeleteSession(ctx, id)
	if err := handlerInstance.service.ConversationStore.ClearConversation(ctx, id); err != nil {
		logJH.Error("Error clearing conversation", "sessionId", id, "err", err)
	}
}

// SessionExists gates analysis requests, a session only exists once an
// artifact has been ingested into it.
func SessionExists(sessionId string) bool {
	if handlerInstance == nil || sessionId == "" {
		return false
	}
	_, found := handlerInstance.service.SessionStore.GetSession(context.Background(), sessionId)
	return found
}

// HasModelCredential reports whether a completion backend credential is
// available, either from the environment or from the user's stored profile.
func HasModelCredential(ctx context.Context, username string) bool {
	if config.OpenAIAPIKey() != "" || config.GoogleAPIKey() != "" {
		return true
	}
	if handlerInstance == nil || username == "" {
		return false
	}
	profile, found := handlerInstance.service.ProfileStore.GetProfile(ctx, username)
	return found && profile.APIKey != ""
}

func GetProfile(ctx context.Context, username string) (sessionModel.Profile, bool) {
	if handlerInstance == nil || username == "" {
		return sessionModel.Profile{}, false
	}
	return handlerInstance.service.ProfileStore.GetProfile(ctx, username)
}

func SaveProfile(ctx context.Context, profile sessionModel.Profile) bool {
	if handlerInstance == nil {
		return false
	}
	if err := handlerInstance.service.ProfileStore.SaveProfile(ctx, profile); err != nil {
		logJH.Error("Error saving profile", "username", profile.Username, "err", err)
		return false
	}
	return true
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.SessionId = newJob.sessionId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	if newJob.isArtifactIngest {
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.artifactName
		_job.JobPayload.IngestURL = newJob.artifactSource

	} else {
		_job.JobType = jobModel.JobTypeAnalysis
		_job.JobPayload.Kind = newJob.kind
		_job.JobPayload.Question = newJob.question
		_job.JobPayload.ImagePath = newJob.imagePath
		_job.CurrentStep = jobModel.AnalysisInit
	}

	// persist the queued state first so a status poll can see the job
	// before any worker picks it up
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Error saving queued job", "jobId", _job.Id, "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send so the queue applies backpressure

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	//a new worker every N requests, plus one for every ingestion since
	//those batch against external services and can take a while
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

func (h *JobHandler) initNewSession(sessionId string, username string, traceId string) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	session := sessionModel.Session{
		Id:        sessionId,
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := h.service.SessionStore.SaveSession(ctxC, session); err != nil {
		logJH.Error("Error initiating new session", "sessionId", sessionId, "err", err)
		return
	}
	if err := h.service.ConversationStore.InitConversation(ctxC, sessionId); err != nil {
		logJH.Error("Error initiating conversation", "sessionId", sessionId, "err", err)
	}
}
