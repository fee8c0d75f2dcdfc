package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/pipeline"
	"github.com/auditeng/verdict/internal/reasoning"
	"github.com/auditeng/verdict/internal/worker"
)

var (
	batchClient     string
	batchTestDate   string
	batchReason     string
	batchWorkers    int
	batchOutDir     string
	batchNoHistory  bool
	batchFailOnStop bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.txt>",
	Short: "Validate a manifest of extraction files concurrently",
	Long: `Batch validates every extraction file listed in a manifest, one
path per line. Blank lines and lines starting with '#' are skipped.

Documents are processed by a worker pool; when a reasoning provider is
configured its calls are rate limited so a large batch does not trip
provider quotas.

Example:
  verdict batch reports.txt --workers 8
  verdict batch reports.txt --reason ollama --out-dir verdicts/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchClient, "client", "", "client id applied to every document")
	batchCmd.Flags().StringVar(&batchTestDate, "test-date", "", "report date as YYYY-MM-DD (default: today)")
	batchCmd.Flags().StringVar(&batchReason, "reason", "", "fetch advisory judgments from provider (openai, ollama)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of concurrent validators")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "write one verdict JSON per document into this directory")
	batchCmd.Flags().BoolVar(&batchNoHistory, "no-history", false, "do not record verdicts in history")
	batchCmd.Flags().BoolVar(&batchFailOnStop, "fail-fast", false, "exit non-zero when any document is rejected")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("workers"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	ctx := context.Background()

	var testDate time.Time
	if batchTestDate != "" {
		testDate, err = time.Parse("2006-01-02", batchTestDate)
		if err != nil {
			return fmt.Errorf("invalid --test-date %q: expected YYYY-MM-DD", batchTestDate)
		}
	}

	var reasoner reasoning.Provider
	var limiter *worker.Limiter
	if batchReason != "" {
		reasoningCfg := cfg.Reasoning
		reasoningCfg.Provider = batchReason
		if reasoningCfg.APIKey == "" {
			reasoningCfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		reasoner, err = reasoning.NewProvider(reasoningCfg, log)
		if err != nil {
			return err
		}
		limiter = worker.NewLimiter(cfg.Reasoning.RatePerSecond, cfg.Reasoning.Burst)
	}

	var store = historyStore(cfg)
	if batchNoHistory {
		store = nil
	}
	p := pipeline.New(cfg, store, log)

	template := worker.DocumentJob{
		Profiles: cfg.Clients,
		ClientID: batchClient,
		TestDate: testDate,
		Runner:   p,
		Reasoner: reasoner,
		Limiter:  limiter,
		Log:      log,
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	processor := worker.NewBatchProcessor(template, workers)
	results, err := processor.ProcessManifest(ctx, args[0])
	if err != nil {
		return err
	}

	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	counts := map[model.Status]int{}
	var failed, rejected int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED   %s: %v\n", res.Path, res.Err)
			continue
		}
		counts[res.Result.Status]++
		if res.Result.Status == model.StatusRejected {
			rejected++
		}
		fmt.Printf("%-14s %s\n", res.Result.Status, res.Path)
		if batchOutDir != "" {
			out := batchOutPath(batchOutDir, res.Result.DocumentID)
			if err := renderer.RenderJSON(res.Result, out); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", out, err)
			}
		}
	}

	fmt.Printf("\n%d documents: %d approved, %d review, %d rejected, %d failed\n",
		len(results),
		counts[model.StatusApproved],
		counts[model.StatusReviewNeeded],
		rejected,
		failed)

	if failed > 0 {
		return fmt.Errorf("%d documents failed to process", failed)
	}
	if batchFailOnStop && rejected > 0 {
		return fmt.Errorf("%d documents rejected", rejected)
	}
	return nil
}

func batchOutPath(dir, documentID string) string {
	name := documentID
	if name == "" {
		name = "verdict"
	}
	for _, c := range []string{"/", "\\", ":", " "} {
		name = strings.ReplaceAll(name, c, "_")
	}
	return filepath.Join(dir, name+".json")
}
