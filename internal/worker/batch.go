package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/pipeline"
	"github.com/auditeng/verdict/internal/reasoning"
)

// Runner validates one document request
type Runner interface {
	Validate(ctx context.Context, req pipeline.Request) (*model.ValidationResult, error)
}

// DocumentJob validates one extraction-result file
type DocumentJob struct {
	Path     string
	Profiles model.ClientTable
	ClientID string
	TestDate time.Time

	Runner   Runner
	Reasoner reasoning.Provider // nil disables the advisory judgment
	Limiter  *Limiter
	Log      *logrus.Logger
}

// DocumentResult is the outcome of one document job
type DocumentResult struct {
	Path   string
	Result *model.ValidationResult
	Err    error
}

// GetError returns the job error, if any
func (r *DocumentResult) GetError() error {
	return r.Err
}

// Execute reads the extraction file, fetches the advisory judgment if
// a reasoner is configured, and runs validation. A reasoning failure
// is logged and degrades to a rules-only verdict; it never fails the
// document.
func (j *DocumentJob) Execute(ctx context.Context) Result {
	extraction, err := ReadExtractionFile(j.Path)
	if err != nil {
		return &DocumentResult{Path: j.Path, Err: err}
	}

	var judgment *model.ReasoningJudgment
	if j.Reasoner != nil {
		if j.Limiter != nil {
			if err := j.Limiter.Wait(ctx, j.Reasoner.Name()); err != nil {
				return &DocumentResult{Path: j.Path, Err: err}
			}
		}
		judgment, err = j.Reasoner.Judge(ctx, reasoning.JudgeRequest{Extraction: extraction})
		if err != nil {
			judgment = nil
			if j.Log != nil {
				j.Log.WithError(err).WithField("document_id", extraction.DocumentID).
					Warn("reasoning judgment unavailable, validating rules-only")
			}
		}
	}

	result, err := j.Runner.Validate(ctx, pipeline.Request{
		Extraction: extraction,
		Profile:    j.Profiles.Profile(j.ClientID),
		Judgment:   judgment,
		TestDate:   j.TestDate,
	})
	return &DocumentResult{Path: j.Path, Result: result, Err: err}
}

// BatchProcessor validates many extraction files concurrently
type BatchProcessor struct {
	template    DocumentJob
	concurrency int
}

// NewBatchProcessor creates a processor; template carries everything a
// job needs except its path
func NewBatchProcessor(template DocumentJob, concurrency int) *BatchProcessor {
	return &BatchProcessor{template: template, concurrency: concurrency}
}

// ProcessFiles validates every path concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// The watcher must not outlive this batch when the caller's context
	// is never cancelled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, path := range paths {
		job := b.template
		job.Path = path
		pool.Submit(&job)
	}

	results := pool.Wait()
	out := make([]*DocumentResult, 0, len(results))
	for _, result := range results {
		out = append(out, result.(*DocumentResult))
	}
	return out
}

// ProcessManifest reads a manifest (one extraction-file path per line)
// and validates every listed document
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*DocumentResult, error) {
	paths, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadManifest reads file paths from a manifest, one per line,
// skipping blanks, comments and duplicates
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return paths, nil
}

// ReadExtractionFile decodes one extraction-result JSON file
func ReadExtractionFile(path string) (*model.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extraction file: %w", err)
	}
	var extraction model.ExtractionResult
	if err := json.Unmarshal(data, &extraction); err != nil {
		return nil, fmt.Errorf("decode extraction file %s: %w", path, err)
	}
	if extraction.DocumentID == "" {
		return nil, fmt.Errorf("extraction file %s: missing document_id", path)
	}
	return &extraction, nil
}
