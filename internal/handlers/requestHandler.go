package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/elvispulaj/insight-forge/internal/adapter"
	"github.com/elvispulaj/insight-forge/internal/adapter/utils"
	"github.com/elvispulaj/insight-forge/internal/api"
	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

var logRH *logger_i.Logger

// newJobData decouples the HTTP layer from jobModel so the handler package
// can eventually move queueing somewhere else without touching contracts.
type newJobData struct {
	id               string
	sessionId        string
	kind             jobModel.AnalysisKind
	question         string
	imagePath        string
	isNewSession     bool
	traceId          string
	isArtifactIngest bool
	artifactName     string
	artifactSource   string
	username         string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AnalyzeHandler queues a comprehensive pass over the session's artifact, or
// a custom one when the request carries its own instructions.
func AnalyzeHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.AnalysisRequest
	if !decodeBody(w, request, &requestData) {
		return
	}
	kind := jobModel.KindComprehensive
	if requestData.Request != "" {
		kind = jobModel.KindCustom
	}
	queueAnalysisJob(w, request, requestData.SessionID, requestData.Username, kind, requestData.Request)
}

// QuestionHandler queues a question against the session's knowledge base.
func QuestionHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.QuestionRequest
	if !decodeBody(w, request, &requestData) {
		return
	}
	if requestData.Question == "" {
		WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionID, "question is required")
		return
	}
	queueAnalysisJob(w, request, requestData.SessionID, requestData.Username, jobModel.KindQuestion, requestData.Question)
}

// VisualizeHandler queues chart suggestions for the session's dataset.
func VisualizeHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.VisualizeRequest
	if !decodeBody(w, request, &requestData) {
		return
	}
	queueAnalysisJob(w, request, requestData.SessionID, requestData.Username, jobModel.KindVisualization, "")
}

// ImageHandler accepts a chart or diagram upload and queues a vision pass
// over it. The optional "prompt" field steers the analysis.
func ImageHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	sessionId := r.FormValue("session_id")
	username := r.FormValue("username")
	if !checkAnalysisPreconditions(w, r, sessionId, username) {
		return
	}

	tempFilePath, _, ok := saveUploadedFile(w, r, "image")
	if !ok {
		return
	}

	newJob := newJobData{
		id:        utils.GetNewUUID(),
		sessionId: sessionId,
		kind:      jobModel.KindImage,
		question:  r.FormValue("prompt"),
		imagePath: tempFilePath,
		traceId:   traceFrom(r),
		username:  username,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, newJob.sessionId))
}

// GetStatusHandler returns the current state of a queued or finished job.
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceFrom(r))

	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// GetSessionHandler returns what the session currently has indexed.
func GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	session, found := GetSession(idString, traceFrom(r))
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Session not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
}

// DeleteSessionHandler drops the session, its conversation log and its index.
func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	if !SessionExists(idString) {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Session not found")
		return
	}
	DeleteSession(r.Context(), idString)
	if dropIndex != nil {
		if err := dropIndex(r.Context(), idString); err != nil {
			logRH.Error("Failed to drop session index", "sessionId", idString, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostIngestHandler receives an artifact via multipart form, stages it on
// disk and queues an ingestion job. A missing session_id starts a new
// session whose id comes back in the response.
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	artifactName := r.FormValue("artifact_name")
	sessionId := r.FormValue("session_id")

	tempFilePath, uploadedName, ok := saveUploadedFile(w, r, "artifact")
	if !ok {
		return
	}
	if artifactName == "" {
		artifactName = uploadedName
	}

	isNewSession := sessionId == ""
	if isNewSession {
		sessionId = utils.GetNewUUID()
		logRH.Debug("New session for ingest", "sessionId", sessionId)
	}

	newJob := newJobData{
		id:               utils.GetNewUUID(),
		sessionId:        sessionId,
		isNewSession:     isNewSession,
		traceId:          traceFrom(r),
		isArtifactIngest: true,
		artifactName:     artifactName,
		artifactSource:   tempFilePath,
		username:         r.FormValue("username"),
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, newJob.sessionId))
}

// PutProfileHandler stores or replaces a user's profile, including the
// completion backend credential used when no service-level key is set.
func PutProfileHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.ProfileRequest
	if !decodeBody(w, r, &requestData) {
		return
	}
	if requestData.Username == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "username is required")
		return
	}

	profile := sessionModel.Profile{
		Username: requestData.Username,
		FullName: requestData.FullName,
		Role:     requestData.Role,
		APIKey:   requestData.APIKey,
	}
	if !SaveProfile(r.Context(), profile) {
		WriteErrorResponse(w, http.StatusInternalServerError, requestData.Username, "Could not save profile")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToProfileResponse(profile))
}

// GetProfileHandler returns the stored profile without the credential itself.
func GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	username := utils.GetChiURLParam(r, "username")
	profile, found := GetProfile(r.Context(), username)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, username, "Profile not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToProfileResponse(profile))
}

func queueAnalysisJob(w http.ResponseWriter, r *http.Request, sessionId string, username string, kind jobModel.AnalysisKind, question string) {
	if !checkAnalysisPreconditions(w, r, sessionId, username) {
		return
	}

	newJob := newJobData{
		id:        utils.GetNewUUID(),
		sessionId: sessionId,
		kind:      kind,
		question:  question,
		traceId:   traceFrom(r),
		username:  username,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, newJob.sessionId))
}

func checkAnalysisPreconditions(w http.ResponseWriter, r *http.Request, sessionId string, username string) bool {
	if !SessionExists(sessionId) {
		WriteErrorResponse(w, http.StatusNotFound, sessionId, "Session not found - ingest an artifact first")
		return false
	}
	if !HasModelCredential(r.Context(), username) {
		logRH.Warn("Rejecting analysis request: ", "error:", commonModels.ErrAuthenticationMissing, "sessionId", sessionId)
		WriteErrorResponse(w, http.StatusUnauthorized, sessionId, commonModels.ErrAuthenticationMissing.Error())
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, request *http.Request, target interface{}) bool {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body reader :", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		logRH.Warn("Bad Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return false
	}
	return true
}

func traceFrom(r *http.Request) string {
	trace, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	return trace
}
