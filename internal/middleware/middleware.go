package middleware

import (
	"net/http"
	"strconv"

	"github.com/elvispulaj/insight-forge/internal/handlers"
	"github.com/elvispulaj/insight-forge/internal/metrics"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var AnalyzeHandler = Wrap(handlers.AnalyzeHandler)
var QuestionHandler = Wrap(handlers.QuestionHandler)
var VisualizeHandler = Wrap(handlers.VisualizeHandler)
var ImageHandler = Wrap(handlers.ImageHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var GetSessionHandler = Wrap(handlers.GetSessionHandler)
var DeleteSessionHandler = Wrap(handlers.DeleteSessionHandler)
var PutProfileHandler = Wrap(handlers.PutProfileHandler)
var GetProfileHandler = Wrap(handlers.GetProfileHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
