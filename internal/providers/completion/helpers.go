package completion

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ParseStringArray decodes a model response that was asked for a JSON array
// of strings. A strict parse is attempted first; malformed output falls back
// to a best-effort line extractor so one sloppy response does not sink the
// whole request. The returned bool reports whether the fallback was used,
// so callers can log how often the heuristic is exercised.
func ParseStringArray(raw string, limit int) ([]string, bool, error) {
	fragment := ExtractJSONFragment(raw)
	if fragment != "" {
		var items []string
		if err := json.Unmarshal([]byte(fragment), &items); err == nil {
			return capStrings(dedupeStrings(items), limit), false, nil
		}
	}
	items := extractLines(raw)
	if len(items) == 0 {
		return nil, true, errors.New("no parseable items in response")
	}
	return capStrings(items, limit), true, nil
}

// ParseObjectArray decodes a model response that was asked for a JSON array
// of objects of type T.
func ParseObjectArray[T any](raw string) ([]T, error) {
	fragment := ExtractJSONFragment(raw)
	if fragment == "" {
		return nil, errors.New("empty payload")
	}
	var items []T
	if err := json.Unmarshal([]byte(fragment), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ExtractJSONFragment trims chatter and code fences around the first JSON
// value in a model response.
func ExtractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var lineMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s*`)

// extractLines pulls numbered or bulleted lines out of free-form text.
func extractLines(raw string) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		stripped := lineMarker.ReplaceAllString(line, "")
		if stripped == line {
			continue
		}
		stripped = strings.Trim(strings.TrimSpace(stripped), `"'`)
		if stripped == "" {
			continue
		}
		items = append(items, stripped)
	}
	return dedupeStrings(items)
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	return result
}

func capStrings(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
