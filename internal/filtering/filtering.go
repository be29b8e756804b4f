package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ranking"
)

// Filter represents a single eligibility step applied to ranking candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Keep(c ranking.Candidate) bool
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Eligibility composes the enabled steps into a ranking predicate. A candidate
// is eligible when every enabled step keeps it.
func Eligibility(logger *zap.Logger, steps ...Filter) ranking.Eligibility {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c ranking.Candidate) bool {
		for _, step := range steps {
			if !step.IsEnabled() {
				continue
			}
			if !step.Keep(c) {
				logger.Debug("candidate excluded",
					zap.String("filter", step.Name()),
					zap.String("candidate_id", c.ID),
				)
				return false
			}
		}
		return true
	}
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
