package job

import (
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
)

// Service carries the queue plumbing plus every store the handlers and
// workers share.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	ConversationStore jobModel.ConversationStore
	SessionStore      sessionModel.SessionStore
	ProfileStore      sessionModel.ProfileStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	ConversationStore jobModel.ConversationStore
	SessionStore      sessionModel.SessionStore
	ProfileStore      sessionModel.ProfileStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		ConversationStore: cfg.ConversationStore,
		SessionStore:      cfg.SessionStore,
		ProfileStore:      cfg.ProfileStore,
	}
}
