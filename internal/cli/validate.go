package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/auditeng/verdict/internal/history"
	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/pipeline"
	"github.com/auditeng/verdict/internal/reasoning"
	"github.com/auditeng/verdict/internal/worker"
)

var (
	clientID     string
	dateFormat   string
	testDateStr  string
	judgmentPath string
	reasonWith   string
	reasonModel  string
	outJSON      string
	outMD        string
	noHistory    bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <extraction.json>",
	Short: "Validate one extracted commissioning report",
	Long: `Validate runs the deterministic rule sets against the structured
extraction output of one report and prints the verdict with its
evidence.

An advisory reasoning judgment can be supplied from a file
(--judgment) or fetched from a reasoning provider (--reason). Either
way it can only add review flags; rejection requires a deterministic
rule violation.

Example:
  verdict validate report-extraction.json --client fnec --test-date 2026-08-01
  verdict validate report-extraction.json --reason openai --json result.json
  verdict validate report-extraction.json --date-format MM/DD/YY --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&clientID, "client", "", "client id (selects the date dialect from config)")
	validateCmd.Flags().StringVar(&dateFormat, "date-format", "", "override date dialect (ISO, DD/MM/YYYY, MM/DD/YY)")
	validateCmd.Flags().StringVar(&testDateStr, "test-date", "", "report date as YYYY-MM-DD (default: today)")
	validateCmd.Flags().StringVar(&judgmentPath, "judgment", "", "path to a reasoning judgment JSON file")
	validateCmd.Flags().StringVar(&reasonWith, "reason", "", "fetch advisory judgment from provider (openai, ollama)")
	validateCmd.Flags().StringVar(&reasonModel, "reason-model", "", "reasoning model name")
	validateCmd.Flags().StringVar(&outJSON, "json", "-", "output JSON path ('-' for stdout)")
	validateCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	validateCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the verdict in history")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	ctx := context.Background()

	extraction, err := worker.ReadExtractionFile(args[0])
	if err != nil {
		return err
	}

	profile, err := resolveProfile(cfg)
	if err != nil {
		return err
	}

	testDate, err := resolveTestDate()
	if err != nil {
		return err
	}

	judgment, err := resolveJudgment(ctx, cfg, log, extraction)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, historyStore(cfg), log)
	result, err := p.Validate(ctx, pipeline.Request{
		Extraction: extraction,
		Profile:    profile,
		Judgment:   judgment,
		TestDate:   testDate,
	})
	if err != nil {
		if result != nil && result.Status == model.StatusFailed {
			// Hard failure is still a rendered result, distinct from REJECTED
			renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
			_ = renderer.RenderJSON(result, outJSON)
		}
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return err
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return err
		}
	}
	if outJSON != "-" {
		renderer.RenderSummary(result)
	}
	return nil
}

// resolveProfile picks the client profile from flags and config
func resolveProfile(cfg *model.Config) (model.ClientProfile, error) {
	profile := cfg.Clients.Profile(clientID)
	if dateFormat != "" {
		df, err := model.ParseDateFormat(dateFormat)
		if err != nil {
			return model.ClientProfile{}, err
		}
		profile.DateFormat = df
	}
	return profile, nil
}

// resolveTestDate parses --test-date, defaulting to today
func resolveTestDate() (time.Time, error) {
	if testDateStr == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", testDateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --test-date %q: expected YYYY-MM-DD", testDateStr)
	}
	return t, nil
}

// resolveJudgment loads the advisory judgment from a file or a
// provider. A provider failure degrades to rules-only, per contract.
func resolveJudgment(ctx context.Context, cfg *model.Config, log *logrus.Logger, extraction *model.ExtractionResult) (*model.ReasoningJudgment, error) {
	if judgmentPath != "" {
		data, err := os.ReadFile(judgmentPath)
		if err != nil {
			return nil, fmt.Errorf("read judgment file: %w", err)
		}
		var judgment model.ReasoningJudgment
		if err := json.Unmarshal(data, &judgment); err != nil {
			return nil, fmt.Errorf("decode judgment file: %w", err)
		}
		return &judgment, nil
	}

	if reasonWith == "" {
		return nil, nil
	}

	reasoningCfg := cfg.Reasoning
	reasoningCfg.Provider = reasonWith
	if reasonModel != "" {
		reasoningCfg.Model = reasonModel
	}
	if reasoningCfg.APIKey == "" {
		reasoningCfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if reasonWith == "openai" && reasoningCfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	provider, err := reasoning.NewProvider(reasoningCfg, nil)
	if err != nil {
		return nil, err
	}
	judgment, err := provider.Judge(ctx, reasoning.JudgeRequest{Extraction: extraction})
	if err != nil {
		log.Warnf("reasoning judgment unavailable, validating rules-only: %v", err)
		return nil, nil
	}
	return judgment, nil
}

// historyStore builds the verdict store, or nil when disabled
func historyStore(cfg *model.Config) history.Store {
	if noHistory || !cfg.History.Enabled {
		return nil
	}
	return history.NewLayeredStore(cfg.History.Dir, time.Duration(cfg.History.TTLHours)*time.Hour)
}
