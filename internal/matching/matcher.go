// Package matching scores résumé text against a job's required skills.
//
// A skill counts as present when the normalized résumé contains it as a
// contiguous substring. There is no word-boundary check, so "java" matches
// inside "javascript".
package matching

import (
	"strings"
	"unicode"
)

// Result is the outcome of matching one résumé against one skill list.
// MatchedSkills and MissingSkills partition the parsed required skills.
type Result struct {
	MatchScore    int      `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// Match scores resumeText against the comma-delimited skillsCSV.
func Match(resumeText, skillsCSV string) Result {
	skills := ParseSkills(skillsCSV)
	if len(skills) == 0 {
		return Result{MatchScore: 100, MatchedSkills: []string{}, MissingSkills: []string{}}
	}

	return MatchSkills(Normalize(resumeText), skills)
}

// MatchSkills scores already normalized text against parsed skills; callers
// ranking many résumés reuse a single ParseSkills result this way.
func MatchSkills(normalizedText string, skills []string) Result {
	if len(skills) == 0 {
		return Result{MatchScore: 100, MatchedSkills: []string{}, MissingSkills: []string{}}
	}

	matched := make([]string, 0, len(skills))
	missing := make([]string, 0, len(skills))
	for _, skill := range skills {
		if strings.Contains(normalizedText, skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return Result{
		MatchScore:    Score(len(matched), len(skills)),
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

// Score returns round-half-up(100 * matched / required).
func Score(matched, required int) int {
	if required <= 0 {
		return 100
	}
	return (200*matched + required) / (2 * required)
}

// ParseSkills splits a comma-delimited skill string into lower-cased, trimmed,
// non-empty tokens. Order and duplicates are preserved.
func ParseSkills(csv string) []string {
	parts := strings.Split(csv, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skill := strings.ToLower(strings.TrimSpace(part))
		if skill == "" {
			continue
		}
		skills = append(skills, skill)
	}
	return skills
}

// Normalize lower-cases text, replaces every rune that is not an ASCII letter,
// digit, whitespace or comma with a space, and collapses whitespace runs.
func Normalize(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	space := true
	for _, r := range strings.ToLower(text) {
		if !keep(r) || unicode.IsSpace(r) {
			if !space {
				builder.WriteByte(' ')
				space = true
			}
			continue
		}
		builder.WriteRune(r)
		space = false
	}

	return strings.TrimRight(builder.String(), " ")
}

func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == ',':
		return true
	default:
		return unicode.IsSpace(r)
	}
}
