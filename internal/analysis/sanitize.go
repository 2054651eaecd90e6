package analysis

import (
	"math"
	"strings"
)

// Sanitizer repairs values of a structurally valid completion. It always
// works on a copy and is idempotent.
type Sanitizer struct {
	policy Policy
}

func NewSanitizer(policy Policy) *Sanitizer {
	return &Sanitizer{policy: policy}
}

// Sanitize clamps scores, drops empty entries, collapses repeated strings
// and caps list lengths, returning a new object.
func (s *Sanitizer) Sanitize(obj map[string]any) map[string]any {
	out := cloneObject(obj)
	if out == nil {
		return map[string]any{}
	}

	if profiles, ok := asArray(out[KeyJobProfiles]); ok {
		for _, item := range profiles {
			if profile, ok := asObject(item); ok {
				s.sanitizeProfile(profile)
			}
		}
	}

	cleanArrays(out)

	for _, limit := range s.policy.Limits {
		parent := out
		if limit.Field != "" {
			nested, ok := asObject(out[limit.Section])
			if !ok {
				continue
			}
			parent = nested
		}
		key := limit.Field
		if key == "" {
			key = limit.Section
		}
		items, ok := asArray(parent[key])
		if !ok {
			continue
		}
		items = dedupeStrings(textList(items))
		if len(items) > limit.Max {
			items = items[:limit.Max]
		}
		parent[key] = items
	}

	if info, ok := asObject(out[KeyErrorInfo]); ok {
		if suggestions, ok := asArray(info["sugestoes"]); ok {
			info["sugestoes"] = textList(suggestions)
		}
	}

	return out
}

func (s *Sanitizer) sanitizeProfile(profile map[string]any) {
	score := coerceFloat(profile[KeyCompatibility])
	switch {
	case math.IsNaN(score) || math.IsInf(score, 0):
		score = s.policy.DefaultCompatibility
	case score < 0:
		score = 0
	case score > 100:
		score = 100
	}
	profile[KeyCompatibility] = score

	for _, field := range jobTextFields {
		if value, ok := profile[field]; ok {
			profile[field] = coerceString(value)
		}
	}
}

// cleanArrays removes null and blank entries from every array in v.
func cleanArrays(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = cleanArrays(item)
		}
		return val
	case []any:
		kept := make([]any, 0, len(val))
		for _, item := range val {
			if isBlank(item) {
				continue
			}
			kept = append(kept, cleanArrays(item))
		}
		return kept
	default:
		return val
	}
}

// textList renders every entry of a string list as trimmed text.
func textList(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		text := coerceString(item)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

// dedupeStrings keeps the first of every group of entries that differ only
// in case, diacritics or spacing. Near-duplicates under Normalize are only
// reported by the plausibility checker, never removed.
func dedupeStrings(items []any) []any {
	seen := make(map[string]bool, len(items))
	out := make([]any, 0, len(items))
	for _, item := range items {
		key := identityKey(coerceString(item))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
