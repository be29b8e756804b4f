package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spigell/resume-ranker/internal/jobboard"
	"github.com/spigell/resume-ranker/internal/records"
)

// multipartOverhead leaves room for form framing around a file of the
// maximum size.
const multipartOverhead = 64 << 10

type createJobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Skills      string `json:"skills"`
}

type generationRequest struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
}

type textResponse struct {
	Text string `json:"text"`
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"ai_enabled": a.svc.AIEnabled(),
		"filters":    a.svc.Filters(),
	})
}

// ListJobsHandler lists every job, or the jobs of ?recruiter_id= when given.
func (a *API) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.svc.ListJobs(r.Context(), r.URL.Query().Get("recruiter_id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (a *API) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	recruiterID, err := userID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	job, err := a.svc.CreateJob(r.Context(), records.Job{
		RecruiterID: recruiterID,
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Skills:      req.Skills,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (a *API) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	recruiterID, err := userID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	if err := a.svc.DeleteJob(r.Context(), r.PathValue("jobID"), recruiterID); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadResumeHandler reads the multipart field "file". The declared media
// type comes from the optional "media_type" field, else the part header.
func (a *API) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(a.maxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.writeError(w, r, err)
			return
		}
		a.writeError(w, r, fmt.Errorf("%w: %w", errMissingFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, r, fmt.Errorf("%w: %w", errMissingFile, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, a.maxUploadBytes+1))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if int64(len(data)) > a.maxUploadBytes {
		a.writeError(w, r, &http.MaxBytesError{Limit: a.maxUploadBytes})
		return
	}

	mediaType := strings.TrimSpace(r.FormValue("media_type"))
	if mediaType == "" {
		mediaType = header.Header.Get("Content-Type")
	}

	resume, err := a.svc.UploadResume(r.Context(), jobboard.Upload{
		CandidateID: r.PathValue("candidateID"),
		FileName:    header.Filename,
		MediaType:   mediaType,
		Data:        data,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"candidate_id": resume.CandidateID,
		"file_name":    resume.FileName,
		"media_type":   resume.MediaType,
		"text_length":  len(resume.Text),
		"uploaded_at":  resume.UploadedAt,
	})
}

func (a *API) MatchHandler(w http.ResponseWriter, r *http.Request) {
	result, err := a.svc.ScoreMatch(r.Context(), r.PathValue("jobID"), r.PathValue("candidateID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) ApplicantsHandler(w http.ResponseWriter, r *http.Request) {
	applicants, err := a.svc.RankApplicants(r.Context(), r.PathValue("jobID"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicants)
}

func (a *API) CoverLetterHandler(w http.ResponseWriter, r *http.Request) {
	var req generationRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	text, err := a.svc.CoverLetter(r.Context(), req.CandidateID, req.JobID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (a *API) InterviewQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	var req generationRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	text, err := a.svc.InterviewQuestions(r.Context(), req.CandidateID, req.JobID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (a *API) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var req generationRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	rec, err := a.svc.Recommendations(r.Context(), req.CandidateID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func userID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(UserHeader))
	if id == "" {
		return "", errUnauthenticated
	}
	return id, nil
}
