// Package ranking orders a job's eligible candidates by skill match score.
package ranking

import (
	"context"
	"runtime"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/matching"
)

// Candidate is the snapshot of one applicant the ranker works on.
type Candidate struct {
	ID         string
	Email      string
	Role       string
	ResumeText string
	HasResume  bool
}

// Applicant is one ranked entry.
type Applicant struct {
	CandidateID   string   `json:"candidate_id"`
	Email         string   `json:"email"`
	MatchScore    int      `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
}

// Eligibility decides whether a candidate takes part in ranking.
type Eligibility func(Candidate) bool

// Ranker fans matching out over a fixed number of workers.
type Ranker struct {
	workers int
	logger  *zap.Logger
}

// New creates a Ranker. Non-positive workers defaults to the CPU count.
func New(workers int, logger *zap.Logger) *Ranker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{workers: workers, logger: logger}
}

// Rank scores every eligible candidate against skillsCSV and returns them by
// descending score. Equal scores keep their input order.
func (r *Ranker) Rank(ctx context.Context, skillsCSV string, candidates []Candidate, eligible Eligibility) ([]Applicant, error) {
	selected := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if eligible != nil && !eligible(candidate) {
			continue
		}
		selected = append(selected, candidate)
	}

	skills := matching.ParseSkills(skillsCSV)
	applicants := make([]Applicant, len(selected))

	if err := r.score(ctx, skills, selected, applicants); err != nil {
		return nil, err
	}

	slices.SortStableFunc(applicants, func(a, b Applicant) int {
		return b.MatchScore - a.MatchScore
	})

	r.logger.Debug("ranking completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("eligible", len(selected)),
		zap.Int("required_skills", len(skills)),
	)

	return applicants, nil
}

// score writes each result at its candidate's index so the output does not
// depend on worker scheduling.
func (r *Ranker) score(ctx context.Context, skills []string, candidates []Candidate, out []Applicant) error {
	workers := min(r.workers, len(candidates))
	if workers <= 1 {
		for i, candidate := range candidates {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = applicant(candidate, skills)
		}
		return nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = applicant(candidates[i], skills)
			}
		}()
	}

	var err error
dispatch:
	for i := range candidates {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return err
}

func applicant(candidate Candidate, skills []string) Applicant {
	result := matching.MatchSkills(matching.Normalize(candidate.ResumeText), skills)
	return Applicant{
		CandidateID:   candidate.ID,
		Email:         candidate.Email,
		MatchScore:    result.MatchScore,
		MatchedSkills: result.MatchedSkills,
	}
}
