package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/ai"
	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/ai/gemini"
	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/analysis"
	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/logger"
	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var retryPrompt = promptui.Select{
	Label: "The analysis is degraded. Request a new completion?",
	Items: []string{PromptYes, PromptNo},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask Gemini for an ATS analysis and post-process the completion",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("job", "", "file with the job description(s), - for stdin")
	analyzeCmd.Flags().String("resume", "", "file with the résumé text")
	analyzeCmd.Flags().StringP("out", "o", "", "write the result to this file instead of stdout")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "accept the first result without asking to retry")
	addPrecedenceFlag(analyzeCmd)

	analyzeCmd.MarkFlagRequired("job")
	analyzeCmd.MarkFlagRequired("resume")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the analysis", zap.String("version", version))

	jobText, resumeText, err := readTexts(cmd)
	if err != nil {
		logger.Fatal("reading inputs", zap.Error(err))
	}

	pipeline, err := newPipeline(cmd, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the ai client", zap.Error(err))
	}

	analyst := ai.NewAnalyst(completer, pipeline, config.AI.Gemini.MaxLogLength, logger)
	autoApprove := cmd.Flag("auto-approve").Value.String() == "true"

	var result *analysis.AnalysisResult
	for {
		outcome, err := analyst.Analyze(ctx, jobText, resumeText)
		if err != nil {
			logger.Error("requesting the analysis", zap.Error(err))
		} else {
			reportOutcome(logger, outcome)
			result = outcome.Result
			if !outcome.FellBack {
				break
			}
		}

		if autoApprove || !confirmRetry(logger) {
			break
		}
	}

	if result == nil {
		logger.Fatal("no analysis available", zap.String("hint", "check the ai.gemini settings and retry"))
	}

	if err := writeResult(result, cmd.Flag("out").Value.String(), config.Output.Pretty); err != nil {
		logger.Fatal("writing the result", zap.Error(err))
	}
}

func confirmRetry(logger *zap.Logger) bool {
	_, answer, err := retryPrompt.Run()
	if err != nil {
		if !errors.Is(err, promptui.ErrInterrupt) && !errors.Is(err, promptui.ErrEOF) {
			logger.Warn("reading the answer", zap.Error(err))
		}
		return false
	}
	return answer == PromptYes
}

func newCompleter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
}
