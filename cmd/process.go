package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/analysis"
	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/logger"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Post-process a saved completion without calling a model",
	Run: func(cmd *cobra.Command, _ []string) {
		process(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringSliceP("completion", "c", []string{"-"}, "file(s) with raw model completions, - for stdin")
	processCmd.Flags().Int("concurrency", 4, "completions processed in parallel when several are given")
	processCmd.Flags().String("job", "", "file with the job description, used to pick a fallback template")
	processCmd.Flags().String("resume", "", "file with the résumé text, used to pick a fallback template")
	processCmd.Flags().StringP("out", "o", "", "write the result to this file instead of stdout")
	addPrecedenceFlag(processCmd)
}

func addPrecedenceFlag(cmd *cobra.Command) {
	cmd.Flags().String("precedence", "", "scalar merge precedence on fallback: partial or template (overrides output.precedence)")
}

func process(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	pipeline, err := newPipeline(cmd, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	paths, err := cmd.Flags().GetStringSlice("completion")
	if err != nil {
		logger.Fatal("reading flags", zap.Error(err))
	}

	if err := checkStdin(map[string][]string{
		"completion": paths,
		"job":        {cmd.Flag("job").Value.String()},
		"resume":     {cmd.Flag("resume").Value.String()},
	}); err != nil {
		logger.Fatal("reading inputs", zap.Error(err))
	}

	jobText, resumeText, err := readTexts(cmd)
	if err != nil {
		logger.Fatal("reading inputs", zap.Error(err))
	}

	inputs := make([]analysis.Input, 0, len(paths))
	for _, path := range paths {
		completion, err := readInput(path)
		if err != nil {
			logger.Fatal("reading the completion", zap.Error(err))
		}
		inputs = append(inputs, analysis.Input{
			Completion: completion,
			JobText:    jobText,
			ResumeText: resumeText,
		})
	}

	out := cmd.Flag("out").Value.String()

	if len(inputs) == 1 {
		outcome := pipeline.Run(inputs[0])
		reportOutcome(logger, outcome)
		if err := writeResult(outcome.Result, out, config.Output.Pretty); err != nil {
			logger.Fatal("writing the result", zap.Error(err))
		}
		return
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	outcomes := pipeline.RunBatch(inputs, concurrency)

	results := make([]*analysis.AnalysisResult, 0, len(outcomes))
	for i, outcome := range outcomes {
		reportOutcome(logger.With(zap.String("completion", paths[i])), outcome)
		results = append(results, outcome.Result)
	}
	if err := writeResult(results, out, config.Output.Pretty); err != nil {
		logger.Fatal("writing the results", zap.Error(err))
	}
}

func newPipeline(cmd *cobra.Command, config *Config, logger *zap.Logger) (*analysis.Pipeline, error) {
	value := config.Output.Precedence
	if flag := cmd.Flag("precedence"); flag != nil && flag.Changed {
		value = flag.Value.String()
	}

	precedence, err := parsePrecedence(value)
	if err != nil {
		return nil, err
	}

	return analysis.New(logger,
		analysis.WithScalarPrecedence(precedence),
		analysis.WithMaxLogLength(config.AI.Gemini.MaxLogLength),
	), nil
}

func readTexts(cmd *cobra.Command) (string, string, error) {
	jobPath, resumePath := cmd.Flag("job").Value.String(), cmd.Flag("resume").Value.String()
	if err := checkStdin(map[string][]string{"job": {jobPath}, "resume": {resumePath}}); err != nil {
		return "", "", err
	}

	jobText, err := readInput(jobPath)
	if err != nil {
		return "", "", fmt.Errorf("job description: %w", err)
	}
	resumeText, err := readInput(resumePath)
	if err != nil {
		return "", "", fmt.Errorf("résumé: %w", err)
	}
	return jobText, resumeText, nil
}

// reportOutcome logs why a result was degraded, if it was.
func reportOutcome(logger *zap.Logger, outcome *analysis.Outcome) {
	if !outcome.FellBack {
		logger.Info("completion accepted",
			zap.Int("job_profiles", len(outcome.Result.JobProfiles)),
			zap.Int("repaired_issues", len(outcome.Issues)),
		)
		return
	}

	fields := []zap.Field{zap.String("template", string(outcome.Template))}
	if outcome.ParseError != nil {
		fields = append(fields, zap.NamedError("parse_error", outcome.ParseError))
	}
	if len(outcome.StructureErrors) > 0 {
		fields = append(fields, zap.String("structure_errors", strings.Join(outcome.StructureErrors, "; ")))
	}
	if len(outcome.Issues) > 0 {
		fields = append(fields, zap.Int("plausibility_issues", len(outcome.Issues)))
	}
	logger.Warn("completion replaced by fallback template", fields...)
}
