package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/pipeline"
	"github.com/auditeng/verdict/internal/reasoning"
)

// stubRunner records the requests it validates; safe for concurrent jobs
type stubRunner struct {
	mu       sync.Mutex
	requests []pipeline.Request
}

func (r *stubRunner) Validate(ctx context.Context, req pipeline.Request) (*model.ValidationResult, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return &model.ValidationResult{
		DocumentID: req.Extraction.DocumentID,
		Status:     model.StatusApproved,
	}, nil
}

// stubProvider returns a canned judgment or error
type stubProvider struct {
	judgment *model.ReasoningJudgment
	err      error
	calls    int
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) Judge(ctx context.Context, req reasoning.JudgeRequest) (*model.ReasoningJudgment, error) {
	p.calls++
	return p.judgment, p.err
}
func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func writeExtraction(t *testing.T, dir, documentID string) string {
	t.Helper()
	extraction := &model.ExtractionResult{
		DocumentID: documentID,
		Status:     model.ExtractionCompleted,
		TestType:   "grounding",
	}
	data, err := json.Marshal(extraction)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, documentID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocumentJob_ValidatesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeExtraction(t, dir, "RPT-001")

	runner := &stubRunner{}
	job := &DocumentJob{Path: path, Runner: runner}

	result := job.Execute(context.Background()).(*DocumentResult)
	if result.Err != nil {
		t.Fatalf("Expected no error, got %v", result.Err)
	}
	if result.Result.DocumentID != "RPT-001" {
		t.Errorf("Expected document validated, got %+v", result.Result)
	}
	if len(runner.requests) != 1 {
		t.Errorf("Expected one validation, got %d", len(runner.requests))
	}
}

func TestDocumentJob_ReasonerFailureDegradesToRulesOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeExtraction(t, dir, "RPT-001")

	runner := &stubRunner{}
	provider := &stubProvider{err: errors.New("service unavailable")}
	job := &DocumentJob{Path: path, Runner: runner, Reasoner: provider}

	result := job.Execute(context.Background()).(*DocumentResult)
	if result.Err != nil {
		t.Fatalf("A reasoning failure must not fail the document, got %v", result.Err)
	}
	if provider.calls != 1 {
		t.Errorf("Expected the provider consulted once, got %d", provider.calls)
	}
	if runner.requests[0].Judgment != nil {
		t.Error("Expected nil judgment passed after provider failure")
	}
}

func TestDocumentJob_JudgmentPassedThrough(t *testing.T) {
	dir := t.TempDir()
	path := writeExtraction(t, dir, "RPT-001")

	runner := &stubRunner{}
	judgment := &model.ReasoningJudgment{Narrative: "looks plausible"}
	job := &DocumentJob{Path: path, Runner: runner, Reasoner: &stubProvider{judgment: judgment}}

	result := job.Execute(context.Background()).(*DocumentResult)
	if result.Err != nil {
		t.Fatalf("Expected no error, got %v", result.Err)
	}
	if runner.requests[0].Judgment != judgment {
		t.Error("Expected the judgment handed to the validator")
	}
}

func TestDocumentJob_MissingFileIsJobError(t *testing.T) {
	job := &DocumentJob{Path: "/does/not/exist.json", Runner: &stubRunner{}}
	result := job.Execute(context.Background()).(*DocumentResult)
	if result.Err == nil {
		t.Error("Expected error for missing extraction file")
	}
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeExtraction(t, dir, "RPT-001"),
		writeExtraction(t, dir, "RPT-002"),
		writeExtraction(t, dir, "RPT-003"),
	}

	processor := NewBatchProcessor(DocumentJob{Runner: &stubRunner{}}, 2)
	results := processor.ProcessFiles(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("Expected %d results, got %d", len(paths), len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("Expected success for %s, got %v", res.Path, res.Err)
		}
	}
}

func TestBatchProcessor_NoWatcherLeftBehindWithoutCancellation(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeExtraction(t, dir, "RPT-001")}
	processor := NewBatchProcessor(DocumentJob{Runner: &stubRunner{}}, 2)

	before := runtime.NumGoroutine()
	for i := 0; i < 10; i++ {
		processor.ProcessFiles(context.Background(), paths)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("Expected batch goroutines to exit after Wait, got %d (started with %d)", runtime.NumGoroutine(), before)
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(DocumentJob{Runner: &stubRunner{}}, 2)
	if results := processor.ProcessFiles(context.Background(), nil); len(results) != 0 {
		t.Errorf("Expected no results for empty input, got %d", len(results))
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.txt")
	content := strings.Join([]string{
		"# commissioning batch 2026-08",
		"reports/a.json",
		"",
		"reports/b.json",
		"reports/a.json", // duplicate
	}, "\n")
	if err := os.WriteFile(manifest, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadManifest(manifest)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(paths) != 2 || paths[0] != "reports/a.json" || paths[1] != "reports/b.json" {
		t.Errorf("Expected deduplicated paths in order, got %v", paths)
	}
}

func TestReadExtractionFile_RequiresDocumentID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anon.json")
	if err := os.WriteFile(path, []byte(`{"status":"completed","test_type":"grounding"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadExtractionFile(path); err == nil {
		t.Error("Expected error for extraction without document_id")
	}
	if _, err := ReadExtractionFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
