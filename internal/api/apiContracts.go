package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id"`
	SessionId string            `json:"session_id"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"can_retry"`
}

type AnalysisResponse struct {
	Kind     string   `json:"kind"`
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

type Result struct {
	Status           string            `json:"status"`
	AnalysisResponse *AnalysisResponse `json:"analysis,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	SessionId string `json:"session_id"`
	StatusURL string `json:"status_url"`
}

type SessionResponse struct {
	Id           string    `json:"id"`
	ArtifactName string    `json:"artifact_name,omitempty"`
	DataContext  string    `json:"data_context,omitempty"`
	ChunkCount   int       `json:"chunk_count"`
	IndexedAt    time.Time `json:"indexed_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// requests---------------------

type AnalysisRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Request   string `json:"request,omitempty"` //empty means the full comprehensive pass
	Username  string `json:"username,omitempty"`
}

type QuestionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
	Username  string `json:"username,omitempty"`
}

type VisualizeRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Username  string `json:"username,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type ProfileRequest struct {
	Username string `json:"username" validate:"required"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// ProfileResponse never echoes the stored key, only whether one exists.
type ProfileResponse struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role,omitempty"`
	HasAPIKey bool   `json:"has_api_key"`
}
