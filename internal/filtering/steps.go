package filtering

import (
	"slices"
	"strings"

	"github.com/spigell/resume-ranker/internal/ranking"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type hasResumeFilter struct {
	toggle
}

// NewHasResume creates a filter that drops candidates without a stored résumé.
func NewHasResume() Filter {
	return &hasResumeFilter{}
}

func (f *hasResumeFilter) Name() string { return "has_resume" }

func (f *hasResumeFilter) Keep(c ranking.Candidate) bool { return c.HasResume }

func (f *hasResumeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type roleFilter struct {
	toggle
	role string
}

// NewRole creates a filter that keeps only candidates whose identity record has
// the given role.
func NewRole(role string) Filter {
	return &roleFilter{role: strings.TrimSpace(role)}
}

func (f *roleFilter) Name() string { return "role" }

func (f *roleFilter) Keep(c ranking.Candidate) bool {
	return strings.EqualFold(strings.TrimSpace(c.Role), f.role)
}

func (f *roleFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"role": f.role},
	}
}

type excludedCandidatesFilter struct {
	toggle
	ids []string
}

// NewExcludedCandidates creates a filter that removes the configured candidate ids.
func NewExcludedCandidates(ids []string) Filter {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	return &excludedCandidatesFilter{ids: cleaned}
}

func (f *excludedCandidatesFilter) Name() string { return "excluded_candidates" }

func (f *excludedCandidatesFilter) Keep(c ranking.Candidate) bool {
	return !slices.Contains(f.ids, c.ID)
}

func (f *excludedCandidatesFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["candidates"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
