package logger

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Preview logs at most limit runes of a model payload under key. Longer
// text is cut and marked with "..."; a non-positive limit logs nothing.
func Preview(key, text string, limit int) zap.Field {
	return zap.String(key, clip(strings.TrimSpace(text), limit))
}

func clip(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := 0
	for i := range text {
		if cut == limit {
			return text[:i] + "..."
		}
		cut++
	}
	return text
}
