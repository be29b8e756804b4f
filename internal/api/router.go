// Package api exposes the job board over HTTP.
package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/jobboard"
	"github.com/spigell/resume-ranker/internal/matching"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/records"
)

const (
	// DefaultMaxUploadBytes caps résumé uploads at 5 MiB.
	DefaultMaxUploadBytes = 5 << 20

	// UserHeader carries the authenticated user id set by the identity proxy.
	UserHeader = "X-User-ID"
)

// Service is the job board as seen by the HTTP layer.
type Service interface {
	CreateJob(ctx context.Context, job records.Job) (*records.Job, error)
	DeleteJob(ctx context.Context, jobID, recruiterID string) error
	ListJobs(ctx context.Context, recruiterID string) ([]*records.Job, error)
	UploadResume(ctx context.Context, up jobboard.Upload) (*records.Resume, error)
	ScoreMatch(ctx context.Context, jobID, candidateID string) (*matching.Result, error)
	RankApplicants(ctx context.Context, jobID string) ([]ranking.Applicant, error)
	CoverLetter(ctx context.Context, candidateID, jobID string) (string, error)
	InterviewQuestions(ctx context.Context, candidateID, jobID string) (string, error)
	Recommendations(ctx context.Context, candidateID string) (*ai.Recommendation, error)
	AIEnabled() bool
	Filters() []filtering.Status
}

type API struct {
	svc            Service
	logger         *zap.Logger
	maxUploadBytes int64
}

func New(svc Service, logger *zap.Logger, maxUploadBytes int64) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &API{svc: svc, logger: logger, maxUploadBytes: maxUploadBytes}
}

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", a.HealthHandler)

	mux.HandleFunc("GET /api/jobs", a.ListJobsHandler)
	mux.HandleFunc("POST /api/jobs", a.CreateJobHandler)
	mux.HandleFunc("DELETE /api/jobs/{jobID}", a.DeleteJobHandler)
	mux.HandleFunc("GET /api/jobs/{jobID}/match/{candidateID}", a.MatchHandler)
	mux.HandleFunc("GET /api/jobs/{jobID}/applicants", a.ApplicantsHandler)

	mux.HandleFunc("PUT /api/resumes/{candidateID}", a.UploadResumeHandler)

	mux.HandleFunc("POST /api/ai/cover-letter", a.CoverLetterHandler)
	mux.HandleFunc("POST /api/ai/interview-questions", a.InterviewQuestionsHandler)
	mux.HandleFunc("POST /api/ai/recommendations", a.RecommendationsHandler)

	return a.logRequests(mux)
}
