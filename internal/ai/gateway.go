package ai

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/utils"
)

const (
	DefaultTimeout = 30 * time.Second

	defaultMaxLogLength = 200
	maxRecommendations  = 3
)

//go:embed prompts/*.md
var promptFS embed.FS

type prompt struct {
	system string
	user   string
}

var (
	coverLetterPrompt        = mustPrompt("cover_letter")
	interviewQuestionsPrompt = mustPrompt("interview_questions")
	recommendationsPrompt    = mustPrompt("recommendations")
)

func mustPrompt(name string) prompt {
	system, err := promptFS.ReadFile("prompts/" + name + ".system.md")
	if err != nil {
		panic(err)
	}
	user, err := promptFS.ReadFile("prompts/" + name + ".user.md")
	if err != nil {
		panic(err)
	}
	return prompt{system: strings.TrimSpace(string(system)), user: strings.TrimSpace(string(user))}
}

// Options tunes a Gateway. Zero values select defaults.
type Options struct {
	Timeout      time.Duration
	MaxLogLength int
}

// Gateway builds prompts from stored résumé text and job fields and shapes the
// model reply for the caller.
type Gateway struct {
	generator Generator
	resumes   ResumeSource
	logger    *zap.Logger
	timeout   time.Duration
	maxLogLen int
}

func NewGateway(generator Generator, resumes ResumeSource, logger *zap.Logger, opts Options) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	return &Gateway{
		generator: generator,
		resumes:   resumes,
		logger:    logger,
		timeout:   opts.Timeout,
		maxLogLen: opts.MaxLogLength,
	}
}

// CoverLetter drafts a cover letter for the candidate and job.
func (g *Gateway) CoverLetter(ctx context.Context, candidateID string, job JobContext) (string, error) {
	resume, err := g.resume(ctx, candidateID)
	if err != nil {
		return "", err
	}

	message := render(coverLetterPrompt.user, jobPlaceholders(job, resume))
	return g.generate(ctx, "cover_letter", coverLetterPrompt.system, message, job.ID, candidateID)
}

// InterviewQuestions drafts five STAR-style questions. The reply is returned
// as is; the number of questions is not checked.
func (g *Gateway) InterviewQuestions(ctx context.Context, candidateID string, job JobContext) (string, error) {
	resume, err := g.resume(ctx, candidateID)
	if err != nil {
		return "", err
	}

	message := render(interviewQuestionsPrompt.user, jobPlaceholders(job, resume))
	return g.generate(ctx, "interview_questions", interviewQuestionsPrompt.system, message, job.ID, candidateID)
}

// Recommendations asks the model for at most three of the given jobs. An
// unparseable reply yields a degraded, empty recommendation and no error.
func (g *Gateway) Recommendations(ctx context.Context, candidateID string, jobs []JobContext) (*Recommendation, error) {
	resume, err := g.resume(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if len(jobs) == 0 {
		return &Recommendation{JobIDs: []string{}}, nil
	}

	message := render(recommendationsPrompt.user, map[string]string{
		"JOBS":        jobList(jobs),
		"RESUME_TEXT": strings.TrimSpace(resume),
	})

	raw, err := g.generate(ctx, "recommendations", recommendationsPrompt.system, message, "", candidateID)
	if err != nil {
		return nil, err
	}

	allowed := make([]string, 0, len(jobs))
	for _, job := range jobs {
		allowed = append(allowed, job.ID)
	}

	ids, err := parseRecommendations(raw, allowed, maxRecommendations)
	if err != nil {
		g.logger.Warn("malformed recommendation response",
			zap.String(logger.FieldCandidateID, candidateID),
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
		)
		return &Recommendation{JobIDs: []string{}, Degraded: true, Raw: raw}, nil
	}

	return &Recommendation{JobIDs: ids, Raw: raw}, nil
}

func (g *Gateway) resume(ctx context.Context, candidateID string) (string, error) {
	if strings.TrimSpace(candidateID) == "" {
		return "", &PreconditionError{CandidateID: candidateID}
	}

	text, found, err := g.resumes.ResumeText(ctx, candidateID)
	if err != nil {
		return "", fmt.Errorf("lookup resume: %w", err)
	}
	if !found || strings.TrimSpace(text) == "" {
		return "", &PreconditionError{CandidateID: candidateID}
	}

	return text, nil
}

func (g *Gateway) generate(ctx context.Context, operation, system, message, jobID, candidateID string) (string, error) {
	if g.generator == nil {
		return "", ErrGenerationUnavailable
	}

	fields := slices.Concat(logger.RequestFields(jobID, candidateID), []zap.Field{zap.String("operation", operation)})

	g.logger.Debug("generate content request", slices.Concat(fields, []zap.Field{
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, g.maxLogLen)),
	})...)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	raw, err := g.generator.GenerateContent(ctx, system, message)
	if err != nil {
		failure := slices.Concat(fields, []zap.Field{zap.Error(err)})
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			failure = append(failure, zap.Duration("timeout", g.timeout))
		}
		g.logger.Error("generation failed", failure...)
		return "", ErrGenerationUnavailable
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		g.logger.Error("generation returned empty text", fields...)
		return "", ErrGenerationUnavailable
	}

	g.logger.Debug("generate content response", slices.Concat(fields, []zap.Field{
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	})...)

	return raw, nil
}

func jobPlaceholders(job JobContext, resume string) map[string]string {
	return map[string]string{
		"JOB_TITLE":       sanitizeSingleLine(job.Title),
		"JOB_COMPANY":     sanitizeSingleLine(job.Company),
		"JOB_SKILLS":      sanitizeSingleLine(job.Skills),
		"JOB_DESCRIPTION": sanitizeBlock(job.Description),
		"RESUME_TEXT":     strings.TrimSpace(resume),
	}
}

func jobList(jobs []JobContext) string {
	var b strings.Builder
	for i, job := range jobs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- id: %s | title: %s | company: %s | skills: %s",
			sanitizeSingleLine(job.ID),
			sanitizeSingleLine(job.Title),
			sanitizeSingleLine(job.Company),
			sanitizeSingleLine(job.Skills),
		)
	}
	return b.String()
}
