// Package jobboard implements the job board use cases on top of the matching,
// ranking and AI packages.
package jobboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/artifacts"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/matching"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/records"
	"github.com/spigell/resume-ranker/internal/storage"
)

const DefaultRecommendationPool = 25

var (
	ErrAIDisabled    = errors.New("ai features are disabled")
	ErrInvalidUpload = errors.New("invalid upload")
)

// Options configures a Service. A nil Generator disables the AI use cases.
type Options struct {
	Generator          ai.Generator
	AI                 ai.Options
	RecommendationPool int
	RankingWorkers     int
	// Filters replaces the default eligibility steps (has_resume and
	// role=jobseeker) when set.
	Filters []filtering.Filter
}

type Service struct {
	jobs      *records.Jobs
	resumes   *records.Resumes
	profiles  *records.Profiles
	artifacts artifacts.Store
	ranker    *ranking.Ranker
	gateway   *ai.Gateway
	filters   []filtering.Filter
	pool      int
	logger    *zap.Logger
	now       func() time.Time
}

func New(store storage.Store, files artifacts.Store, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RecommendationPool <= 0 {
		opts.RecommendationPool = DefaultRecommendationPool
	}
	if opts.Filters == nil {
		opts.Filters = DefaultFilters()
	}

	s := &Service{
		jobs:      records.NewJobs(store),
		resumes:   records.NewResumes(store),
		profiles:  records.NewProfiles(store),
		artifacts: files,
		ranker:    ranking.New(opts.RankingWorkers, log.Named("ranker")),
		filters:   opts.Filters,
		pool:      opts.RecommendationPool,
		logger:    log,
		now:       time.Now,
	}

	if opts.Generator != nil {
		s.gateway = ai.NewGateway(opts.Generator, ai.ResumeSourceFunc(s.resumeText), log.Named("ai"), opts.AI)
	}

	return s
}

// DefaultFilters keeps candidates with a stored résumé who are job seekers.
func DefaultFilters() []filtering.Filter {
	return []filtering.Filter{
		filtering.NewHasResume(),
		filtering.NewRole(records.RoleJobSeeker),
	}
}

// AIEnabled reports whether a generator is configured.
func (s *Service) AIEnabled() bool {
	return s.gateway != nil
}

// Filters describes the eligibility steps used for ranking.
func (s *Service) Filters() []filtering.Status {
	return filtering.Describe(s.filters)
}

func (s *Service) CreateJob(ctx context.Context, job records.Job) (*records.Job, error) {
	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		zap.String(logger.FieldJobID, created.ID),
		zap.String("recruiter_id", created.RecruiterID),
	)
	return created, nil
}

func (s *Service) DeleteJob(ctx context.Context, jobID, recruiterID string) error {
	if err := s.jobs.Delete(ctx, jobID, recruiterID); err != nil {
		return err
	}

	s.logger.Info("job deleted", zap.String(logger.FieldJobID, jobID), zap.String("recruiter_id", recruiterID))
	return nil
}

// ListJobs returns the jobs of recruiterID, or every job when it is empty.
func (s *Service) ListJobs(ctx context.Context, recruiterID string) ([]*records.Job, error) {
	if strings.TrimSpace(recruiterID) == "" {
		return s.jobs.List(ctx)
	}
	return s.jobs.ListByRecruiter(ctx, recruiterID)
}

func (s *Service) GetJob(ctx context.Context, jobID string) (*records.Job, error) {
	return s.jobs.Get(ctx, jobID)
}

// ScoreMatch matches the candidate's stored résumé against the job.
func (s *Service) ScoreMatch(ctx context.Context, jobID, candidateID string) (*matching.Result, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resume, err := s.resumes.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	result := matching.Match(resume.Text, job.Skills)
	return &result, nil
}

// RankApplicants ranks every eligible candidate against the job. The job is
// resolved before any résumé is read.
func (s *Service) RankApplicants(ctx context.Context, jobID string) ([]ranking.Applicant, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resumes, err := s.resumes.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]ranking.Candidate, 0, len(resumes))
	for _, resume := range resumes {
		candidate := ranking.Candidate{
			ID:         resume.CandidateID,
			ResumeText: resume.Text,
			HasResume:  strings.TrimSpace(resume.Text) != "",
		}

		profile, err := s.profiles.Get(ctx, resume.CandidateID)
		switch {
		case err == nil:
			candidate.Email = profile.Email
			candidate.Role = profile.Role
		case errors.Is(err, records.ErrProfileNotFound):
			s.logger.Debug("candidate has no profile", zap.String(logger.FieldCandidateID, resume.CandidateID))
		default:
			return nil, err
		}

		candidates = append(candidates, candidate)
	}

	applicants, err := s.ranker.Rank(ctx, job.Skills, candidates, filtering.Eligibility(s.logger, s.filters...))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("applicants ranked",
		zap.String(logger.FieldJobID, job.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(applicants)),
	)
	return applicants, nil
}

func (s *Service) CoverLetter(ctx context.Context, candidateID, jobID string) (string, error) {
	if s.gateway == nil {
		return "", ErrAIDisabled
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return "", err
	}

	return s.gateway.CoverLetter(ctx, candidateID, jobContext(job))
}

func (s *Service) InterviewQuestions(ctx context.Context, candidateID, jobID string) (string, error) {
	if s.gateway == nil {
		return "", ErrAIDisabled
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return "", err
	}

	return s.gateway.InterviewQuestions(ctx, candidateID, jobContext(job))
}

// Recommendations picks jobs for the candidate from the most recent postings.
func (s *Service) Recommendations(ctx context.Context, candidateID string) (*ai.Recommendation, error) {
	if s.gateway == nil {
		return nil, ErrAIDisabled
	}

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(jobs) > s.pool {
		jobs = jobs[:s.pool]
	}

	pool := make([]ai.JobContext, 0, len(jobs))
	for _, job := range jobs {
		pool = append(pool, jobContext(job))
	}

	return s.gateway.Recommendations(ctx, candidateID, pool)
}

func (s *Service) resumeText(ctx context.Context, candidateID string) (string, bool, error) {
	resume, err := s.resumes.Get(ctx, candidateID)
	if errors.Is(err, records.ErrResumeNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return resume.Text, true, nil
}

func jobContext(job *records.Job) ai.JobContext {
	return ai.JobContext{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Description: job.Description,
		Skills:      job.Skills,
	}
}

func artifactKey(candidateID, mediaType string) string {
	return fmt.Sprintf("resumes/%s/%s%s", candidateID, uuid.NewString(), extract.Extension(mediaType))
}
