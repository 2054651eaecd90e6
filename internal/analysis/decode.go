package analysis

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode converts a sanitized object into the typed result.
func Decode(obj map[string]any) (*AnalysisResult, error) {
	var result AnalysisResult
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(obj); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}

	result.ensureLists()
	return &result, nil
}
