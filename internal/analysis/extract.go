package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseError means the completion could not be recovered as a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse completion: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("completion is not a JSON object")

// Extract recovers the JSON object of a completion. The whole text is tried
// first, then the span between the first '{' and the last '}'. Broken JSON is
// never repaired.
func Extract(raw string) (map[string]any, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, &ParseError{Err: errors.New("completion is empty")}
	}

	obj, err := decodeObject(cleaned)
	if err == nil {
		return obj, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, &ParseError{Err: err}
	}

	obj, innerErr := decodeObject(cleaned[start : end+1])
	if innerErr != nil {
		return nil, &ParseError{Err: innerErr}
	}
	return obj, nil
}

func decodeObject(text string) (map[string]any, error) {
	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, err
	}
	obj, ok := asObject(data)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
