// Package ai drafts candidate-facing content with a generative model.
package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrResumeRequired is matched by every PreconditionError.
	ErrResumeRequired = errors.New("resume required")
	// ErrGenerationUnavailable hides every model failure from the caller.
	ErrGenerationUnavailable = errors.New("ai generation unavailable")
)

// Generator sends one system instruction and one user message to a model and
// returns the text of its first candidate.
type Generator interface {
	GenerateContent(ctx context.Context, systemInstruction, userMessage string) (string, error)
}

// ResumeSource looks up the stored résumé text of a candidate. found is false
// when the candidate has no résumé on file.
type ResumeSource interface {
	ResumeText(ctx context.Context, candidateID string) (text string, found bool, err error)
}

// ResumeSourceFunc adapts a function to ResumeSource.
type ResumeSourceFunc func(ctx context.Context, candidateID string) (string, bool, error)

func (f ResumeSourceFunc) ResumeText(ctx context.Context, candidateID string) (string, bool, error) {
	return f(ctx, candidateID)
}

// JobContext is the part of a job posting that goes into prompts.
type JobContext struct {
	ID          string
	Title       string
	Company     string
	Description string
	Skills      string
}

// PreconditionError stops a generation workflow before any model call.
type PreconditionError struct {
	CandidateID string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("candidate %s has no resume on file", e.CandidateID)
}

func (e *PreconditionError) Unwrap() error {
	return ErrResumeRequired
}

// Recommendation is the outcome of a recommendation request. Degraded is set
// when the model reply could not be parsed; JobIDs is then empty.
type Recommendation struct {
	JobIDs   []string `json:"job_ids"`
	Degraded bool     `json:"degraded"`
	Raw      string   `json:"-"`
}
