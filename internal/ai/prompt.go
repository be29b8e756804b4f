package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const notSpecified = "not specified"

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")")

// render substitutes {{KEY}} placeholders in a single pass, so substituted
// values are never expanded again.
func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// sanitizeSingleLine collapses whitespace and neutralizes brackets so a field
// cannot open a new prompt section.
func sanitizeSingleLine(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return notSpecified
	}
	return bracketReplacer.Replace(value)
}

func sanitizeBlock(value string) string {
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		kept = append(kept, bracketReplacer.Replace(line))
	}
	if len(kept) == 0 {
		return notSpecified
	}
	return strings.Join(kept, "\n")
}

// parseRecommendations reads a JSON array of ids from raw and keeps the ids
// found in allowed, in reply order, without duplicates, up to limit.
func parseRecommendations(raw string, allowed []string, limit int) ([]string, error) {
	items, err := recommendationArray(extractJSON(raw))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, limit)
	for _, item := range items {
		id, ok := item.(string)
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if !slices.Contains(allowed, id) || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
		if len(ids) == limit {
			break
		}
	}

	return ids, nil
}

// recommendationArray decodes cleaned as a JSON array. A reply that is valid
// JSON of another shape is rejected. Otherwise the array is looked up inside
// surrounding prose, unless an object opens before it.
func recommendationArray(cleaned string) ([]any, error) {
	var whole any
	if err := json.Unmarshal([]byte(cleaned), &whole); err == nil {
		items, ok := whole.([]any)
		if !ok {
			return nil, fmt.Errorf("response is a JSON %T, not an array", whole)
		}
		return items, nil
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end < start {
		return nil, errors.New("response does not contain a JSON array")
	}
	if brace := strings.Index(cleaned, "{"); brace != -1 && brace < start {
		return nil, errors.New("response wraps the array in an object")
	}

	var items []any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("parse recommendation array: %w", err)
	}
	return items, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
