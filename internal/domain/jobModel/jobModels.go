package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string
type AnalysisKind string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	AnalysisInit     InternalStatus = "Init"
	RAGCall          InternalStatus = "RAG"
	LLMCall          InternalStatus = "LLM"
	VectorDBCall     InternalStatus = "VectorDB"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeAnalysis JobType = "Analysis"
	JobTypeIngest   JobType = "Ingest"

	// the five orchestrator operations
	KindComprehensive AnalysisKind = "comprehensive"
	KindCustom        AnalysisKind = "custom"
	KindQuestion      AnalysisKind = "question"
	KindVisualization AnalysisKind = "visualization"
	KindImage         AnalysisKind = "image"
)

type Job struct {
	Id          string         `json:"id"`
	SessionId   string         `json:"session_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Kind     AnalysisKind `json:"analysis_kind,omitempty"`
	Question string       `json:"question,omitempty"`
	Answer   string       `json:"answer,omitempty"`
	Sources  []string     `json:"sources,omitempty"`

	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestURL      string `json:"ingest_url,omitempty"`

	ImagePath string `json:"image_path,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// ConversationStore is the append-only question/answer log per session.
type ConversationStore interface {
	ValidateSessionId(ctx context.Context, id string) bool
	TrySaveExchange(ctx context.Context, id string, payload JobPayload) error
	InitConversation(ctx context.Context, id string) error
	GetHistory(ctx context.Context, sessionId string) (error, []string)
	ClearConversation(ctx context.Context, id string) error
}
