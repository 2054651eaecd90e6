package analysis

import (
	"reflect"
)

// Merge deep-merges partial onto a copy of template. Objects merge
// recursively, arrays keep every template entry and append partial entries
// not already present, and scalars follow precedence. The result is never
// less complete than the template.
func Merge(template, partial map[string]any, precedence ScalarPrecedence) map[string]any {
	result := cloneObject(template)
	if result == nil {
		result = make(map[string]any)
	}
	mergeInto(result, partial, precedence)
	return result
}

func mergeInto(target, source map[string]any, precedence ScalarPrecedence) {
	for key, value := range source {
		current, exists := target[key]
		if !exists || current == nil {
			if !isBlank(value) {
				target[key] = cloneValue(value)
			}
			continue
		}

		switch cur := current.(type) {
		case map[string]any:
			if src, ok := asObject(value); ok {
				mergeInto(cur, src, precedence)
			}
		case []any:
			if src, ok := asArray(value); ok {
				target[key] = unionAppend(cur, src)
			}
		default:
			if isBlank(value) {
				continue
			}
			if _, ok := asObject(value); ok {
				continue
			}
			if _, ok := asArray(value); ok {
				continue
			}
			if precedence == TemplateWins && !isBlank(current) {
				continue
			}
			target[key] = value
		}
	}
}

func unionAppend(target, source []any) []any {
	for _, item := range source {
		if containsValue(target, item) {
			continue
		}
		target = append(target, cloneValue(item))
	}
	return target
}

func containsValue(items []any, value any) bool {
	for _, item := range items {
		if reflect.DeepEqual(item, value) {
			return true
		}
	}
	return false
}
