package ai

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/analysis"
	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/logger"
)

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

// Analyst asks the model for an ATS analysis and runs the completion through
// the post-processing pipeline.
type Analyst struct {
	completer Completer
	pipeline  *analysis.Pipeline
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyst(completer Completer, pipeline *analysis.Pipeline, maxLogLength int, log *zap.Logger) *Analyst {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyst{
		completer: completer,
		pipeline:  pipeline,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// Analyze returns an error only when the model could not be reached. Any
// completion, however broken, yields a usable outcome.
func (a *Analyst) Analyze(ctx context.Context, jobText, resumeText string) (*analysis.Outcome, error) {
	if a == nil || a.completer == nil || a.pipeline == nil {
		return nil, errors.New("analyst is not initialized")
	}
	if strings.TrimSpace(jobText) == "" {
		return nil, errors.New("job description is required")
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("resume text is required")
	}

	message := buildMessage(jobText, resumeText)
	log := a.logger.With(logger.CommonFields("", a.completer.Model())...)

	log.Debug("generate content request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		logger.Preview("message_preview", message, a.maxLogLen),
	)

	raw, err := a.completer.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, fmt.Errorf("request analysis: %w", err)
	}

	log.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		logger.Preview("response_preview", raw, a.maxLogLen),
	)

	return a.pipeline.Run(analysis.Input{
		Completion: raw,
		JobText:    jobText,
		ResumeText: resumeText,
	}), nil
}

func buildMessage(jobText, resumeText string) string {
	var b strings.Builder
	b.WriteString("VAGAS:\n")
	b.WriteString(strings.TrimSpace(jobText))
	b.WriteString("\n\nCURRÍCULO:\n")
	b.WriteString(strings.TrimSpace(resumeText))
	return b.String()
}
