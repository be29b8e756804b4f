package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/jobboard"
	"github.com/spigell/resume-ranker/internal/records"
)

var (
	errBadRequest      = errors.New("bad request")
	errMissingFile     = errors.New("missing file")
	errUnauthenticated = errors.New("unauthenticated")
)

type errorKind struct {
	target  error
	status  int
	message string
}

// errorKinds maps every error the service can return to what the caller sees.
// Causes are logged, never written to the response.
var errorKinds = []errorKind{
	{extract.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, "Unsupported file format. Upload a PDF, DOCX or plain text résumé."},
	{extract.ErrExtractionFailed, http.StatusUnprocessableEntity, "No text could be read from the uploaded file."},
	{records.ErrJobNotFound, http.StatusNotFound, "Job not found."},
	{records.ErrResumeNotFound, http.StatusNotFound, "No résumé on file for this candidate."},
	{records.ErrNotOwner, http.StatusForbidden, "Only the recruiter who posted this job can delete it."},
	{records.ErrInvalidJob, http.StatusBadRequest, "A job needs a title and an owning recruiter."},
	{ai.ErrResumeRequired, http.StatusPreconditionFailed, "Upload a résumé before using AI features."},
	{ai.ErrGenerationUnavailable, http.StatusServiceUnavailable, "The AI service is unavailable right now. Please try again later."},
	{jobboard.ErrAIDisabled, http.StatusNotImplemented, "AI features are not enabled on this server."},
	{jobboard.ErrInvalidUpload, http.StatusBadRequest, "Invalid candidate id."},
	{errMissingFile, http.StatusBadRequest, "Attach the résumé as the multipart field \"file\"."},
	{errUnauthenticated, http.StatusUnauthorized, "Missing " + UserHeader + " header."},
	{errBadRequest, http.StatusBadRequest, "The request body is invalid."},
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "Internal server error."

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status, message = http.StatusRequestEntityTooLarge, "The uploaded file is too large."
	default:
		for _, kind := range errorKinds {
			if errors.Is(err, kind.target) {
				status, message = kind.status, kind.message
				break
			}
		}
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", fields...)
	} else {
		a.logger.Info("request rejected", fields...)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
