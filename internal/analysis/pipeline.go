package analysis

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/logger"
)

// Stage is one state of the post-processing pipeline.
type Stage string

const (
	StageParsing              Stage = "parsing"
	StageValidating           Stage = "validating"
	StageCheckingPlausibility Stage = "checking_plausibility"
	StageSanitizing           Stage = "sanitizing"
	StageMerging              Stage = "merging"
	StageDone                 Stage = "done"
)

const defaultMaxLogLength = 200

// Input is everything one analysis needs. JobText and ResumeText are only
// used to pick a fallback template.
type Input struct {
	Completion string
	JobText    string
	ResumeText string
}

// Outcome is the result of a pipeline run plus what happened on the way.
type Outcome struct {
	Result *AnalysisResult

	Stages   []Stage
	FellBack bool
	Template TemplateKind

	ParseError      error
	StructureErrors []string
	Issues          []Issue
}

// Pipeline turns an untrusted completion into a contract-valid result. It
// holds no mutable state and may be shared between goroutines.
type Pipeline struct {
	policy     Policy
	precedence ScalarPrecedence
	checker    *PlausibilityChecker
	sanitizer  *Sanitizer
	logger     *zap.Logger
	maxLogLen  int
}

type Option func(*Pipeline)

// WithPolicy replaces the default thresholds.
func WithPolicy(policy Policy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// WithScalarPrecedence decides which side wins scalar conflicts when
// merging into a fallback template.
func WithScalarPrecedence(precedence ScalarPrecedence) Option {
	return func(p *Pipeline) { p.precedence = precedence }
}

// WithMaxLogLength limits the completion preview written to debug logs.
func WithMaxLogLength(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxLogLen = n
		}
	}
}

func New(log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		policy:     DefaultPolicy(),
		precedence: PartialWins,
		maxLogLen:  defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.checker = NewPlausibilityChecker(p.policy)
	p.sanitizer = NewSanitizer(p.policy)
	p.logger = logger.WithFields(log, zap.String(logger.FieldScalarPrecedence, p.precedence.String()))
	return p
}

// Process runs the pipeline and returns only the result.
func (p *Pipeline) Process(completion, jobText, resumeText string) *AnalysisResult {
	return p.Run(Input{Completion: completion, JobText: jobText, ResumeText: resumeText}).Result
}

// Run executes Parsing, Validating, CheckingPlausibility and
// Sanitizing/Merging in order. A failure in any of the first three stages
// goes straight to merging with a fallback template; nothing is retried.
func (p *Pipeline) Run(in Input) *Outcome {
	out := &Outcome{}

	out.Stages = append(out.Stages, StageParsing)
	p.logger.Debug("parsing completion",
		stageField(StageParsing),
		zap.Int("completion_length", utf8.RuneCountInString(in.Completion)),
		logger.Preview("completion_preview", in.Completion, p.maxLogLen),
	)
	obj, err := Extract(in.Completion)
	if err != nil {
		out.ParseError = err
		p.logger.Warn("completion is not recoverable as JSON", stageField(StageParsing), zap.Error(err))
		return p.fallback(out, in, nil)
	}

	out.Stages = append(out.Stages, StageValidating)
	validation := ValidateStructure(obj)
	if !validation.Valid {
		out.StructureErrors = validation.Errors
		p.logger.Warn("completion failed structural validation",
			stageField(StageValidating),
			zap.Int("error_count", len(validation.Errors)),
			zap.Strings("errors", validation.Errors),
		)
		return p.fallback(out, in, validation.Salvage(obj))
	}

	out.Stages = append(out.Stages, StageCheckingPlausibility)
	report := p.checker.Check(obj)
	out.Issues = report.Issues

	out.Stages = append(out.Stages, StageSanitizing)
	sanitized := p.sanitizer.Sanitize(obj)
	delete(sanitized, KeyErrorInfo)

	if !report.Plausible {
		if !p.policy.resolvedBySanitizing(report.Issues) {
			p.logger.Warn("completion is implausible",
				stageField(StageCheckingPlausibility),
				zap.Int("issue_count", len(report.Issues)),
				zap.Strings("issues", report.Messages()),
			)
			return p.fallback(out, in, sanitized)
		}
		p.logger.Info("implausible values repaired by sanitizing",
			stageField(StageSanitizing),
			zap.Strings("issues", report.Messages()),
		)
	}

	return p.finish(out, sanitized, "")
}

func (p *Pipeline) fallback(out *Outcome, in Input, partial map[string]any) *Outcome {
	tpl := SelectTemplate(p.policy, in.JobText, in.ResumeText)
	out.Stages = append(out.Stages, StageMerging)
	out.FellBack = true

	if partial != nil {
		delete(partial, KeyErrorInfo)
	}
	merged := Merge(tpl.Clone(), partial, p.precedence)

	p.logger.Debug("merged partial data into fallback template",
		stageField(StageMerging),
		zap.String(logger.FieldTemplate, string(tpl.Kind())),
		zap.Int("partial_sections", len(partial)),
	)

	// The union of template and partial lists may exceed the caps.
	return p.finish(out, p.sanitizer.Sanitize(merged), tpl.Kind())
}

func (p *Pipeline) finish(out *Outcome, obj map[string]any, kind TemplateKind) *Outcome {
	out.Template = kind

	result, err := Decode(obj)
	if err == nil {
		err = result.Verify(p.policy)
	}
	if err != nil {
		// Should not happen; the pristine template is always valid.
		p.logger.Error("result violates output contract, returning bare template", zap.Error(err))
		tpl := SelectTemplate(p.policy, "", "")
		if kind != "" {
			tpl = Template(kind)
		}
		result = p.mustDecodeTemplate(tpl)
		out.FellBack = true
		out.Template = tpl.Kind()
	}

	out.Result = result
	out.Stages = append(out.Stages, StageDone)

	p.logger.Info("analysis post-processing finished",
		zap.Bool("fell_back", out.FellBack),
		zap.String(logger.FieldTemplate, string(out.Template)),
		zap.Int("structure_errors", len(out.StructureErrors)),
		zap.Int("plausibility_issues", len(out.Issues)),
		zap.Int("job_profiles", len(result.JobProfiles)),
	)
	return out
}

func (p *Pipeline) mustDecodeTemplate(tpl FallbackTemplate) *AnalysisResult {
	result, err := Decode(tpl.Clone())
	if err != nil {
		panic(err)
	}
	return result
}

func stageField(stage Stage) zap.Field {
	return zap.String(logger.FieldStage, string(stage))
}
