package adapter

import (
	"fmt"
	"time"

	"github.com/elvispulaj/insight-forge/internal/api"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
)

func ToInitJobResponse(id string, sessionId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		SessionId: sessionId,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:           string(job.Status),
		AnalysisResponse: ToAnalysisResponse(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToAnalysisResponse(payload jobModel.JobPayload) *api.AnalysisResponse {
	if payload.Answer == "" && len(payload.Sources) == 0 {
		return nil
	}

	return &api.AnalysisResponse{
		Kind:     string(payload.Kind),
		Question: payload.Question,
		Answer:   payload.Answer,
		Sources:  payload.Sources,
	}
}

func ToSessionResponse(session sessionModel.Session) api.SessionResponse {
	return api.SessionResponse{
		Id:           session.Id,
		ArtifactName: session.ArtifactName,
		DataContext:  session.DataContext,
		ChunkCount:   session.ChunkCount,
		IndexedAt:    session.IndexedAt,
		CreatedAt:    session.CreatedAt,
	}
}

func ToProfileResponse(profile sessionModel.Profile) api.ProfileResponse {
	return api.ProfileResponse{
		Username:  profile.Username,
		FullName:  profile.FullName,
		Role:      profile.Role,
		HasAPIKey: profile.APIKey != "",
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		SessionId: "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status:           string(api.JobStatusError),
			AnalysisResponse: ToAnalysisResponse(jobModel.JobPayload{}),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
