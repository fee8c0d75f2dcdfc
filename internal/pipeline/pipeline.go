package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/auditeng/verdict/internal/history"
	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/rules"
	"github.com/auditeng/verdict/internal/verdict"
)

// Pipeline runs the full validation flow for one document:
// extraction output -> rules -> evidence binding -> aggregation.
// It holds only read-only state, so one Pipeline may validate many
// documents concurrently.
type Pipeline struct {
	registry *rules.Registry
	cfg      *model.Config
	store    history.Store // nil when history is disabled
	log      *logrus.Logger
}

// New creates a pipeline over the given configuration. store may be
// nil to disable verdict history.
func New(cfg *model.Config, store history.Store, log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		registry: rules.NewRegistry(),
		cfg:      cfg,
		store:    store,
		log:      log,
	}
}

// Request is one document validation job
type Request struct {
	Extraction *model.ExtractionResult
	Profile    model.ClientProfile
	Judgment   *model.ReasoningJudgment // Advisory; nil degrades to rules-only
	TestDate   time.Time                // Report date; zero value means today
}

// Validate produces the verdict for one document. Recoverable problems
// (failed extraction, unreadable fields, judgment absence) surface as
// findings; only an unknown test type is a hard failure, reported as a
// FAILED result plus a non-nil error.
func (p *Pipeline) Validate(ctx context.Context, req Request) (*model.ValidationResult, error) {
	start := time.Now()

	if req.Extraction == nil {
		return nil, fmt.Errorf("validate: nil extraction result")
	}

	result := &model.ValidationResult{
		DocumentID:   req.Extraction.DocumentID,
		RulesVersion: p.cfg.RulesVersion,
		ValidatedAt:  start.UTC(),
	}

	// Failed extraction means "cannot validate", never "reject"
	if req.Extraction.Status == model.ExtractionFailed {
		msg := "extraction failed - document cannot be validated automatically"
		if req.Extraction.ErrorMessage != "" {
			msg = fmt.Sprintf("extraction failed (%s) - document cannot be validated automatically", req.Extraction.ErrorMessage)
		}
		findings := []model.Finding{model.NewFinding(
			"extraction_status", "Extraction completeness", model.SeverityWarning, msg,
			&model.Evidence{FieldName: "extraction_status", FoundValue: string(model.ExtractionFailed), ExpectedValue: string(model.ExtractionCompleted)},
		)}
		p.conclude(result, findings, req.Judgment, start, req.Extraction.TestType)
		return result, nil
	}

	testType, err := rules.ParseTestType(req.Extraction.TestType)
	if err != nil {
		result.Status = model.StatusFailed
		p.finish(result, start)
		p.record(result)
		return result, fmt.Errorf("validate %s: %w", req.Extraction.DocumentID, err)
	}

	testDate := req.TestDate
	if testDate.IsZero() {
		testDate = time.Now().UTC()
	}

	in := &rules.Input{
		Extraction: req.Extraction,
		Profile:    req.Profile,
		TestDate:   testDate,
		Thresholds: p.cfg.Thresholds,
	}

	findings, err := p.registry.Evaluate(testType, in)
	if err != nil {
		result.Status = model.StatusFailed
		p.finish(result, start)
		p.record(result)
		return result, fmt.Errorf("validate %s: %w", req.Extraction.DocumentID, err)
	}

	// Cancellation discards the partial finding list; the engine holds
	// no resources that need explicit release.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.conclude(result, findings, req.Judgment, start, string(testType))
	return result, nil
}

// conclude is the shared verdict tail: advisory judgment flags are
// folded in, evidence is bound, findings are ordered, and the result
// is stamped and recorded. Every non-error result goes through here so
// history sees each verdict, failed extractions included.
func (p *Pipeline) conclude(result *model.ValidationResult, findings []model.Finding, judgment *model.ReasoningJudgment, start time.Time, testType string) {
	findings = append(findings, judgmentFindings(judgment)...)
	findings = verdict.Bind(findings)
	orderFindings(findings)

	result.Findings = findings
	result.Status = verdict.Aggregate(findings, judgment)
	p.finish(result, start)

	p.log.WithFields(logrus.Fields{
		"document_id": result.DocumentID,
		"test_type":   testType,
		"status":      result.Status,
		"findings":    len(result.Findings),
		"elapsed_ms":  result.ProcessingTimeMS,
	}).Debug("document validated")

	p.record(result)
}

// finish stamps timing metadata
func (p *Pipeline) finish(result *model.ValidationResult, start time.Time) {
	result.ProcessingTimeMS = time.Since(start).Milliseconds()
}

func (p *Pipeline) record(result *model.ValidationResult) {
	if p.store == nil {
		return
	}
	if err := p.store.Put(result); err != nil {
		p.log.WithError(err).Warn("failed to record verdict history")
	}
}

// judgmentFindings converts unresolved reasoning flags into advisory
// warning findings. This keeps the status recomputable from the
// finding list alone, and warnings are the strongest thing a judgment
// can ever contribute.
func judgmentFindings(judgment *model.ReasoningJudgment) []model.Finding {
	if judgment == nil {
		return nil
	}
	var findings []model.Finding
	for _, flag := range judgment.Flags {
		if flag.Resolved {
			continue
		}
		msg := fmt.Sprintf("reasoning service flagged %q for review", flag.Code)
		if flag.Detail != "" {
			msg = fmt.Sprintf("reasoning service flagged %q for review: %s", flag.Code, flag.Detail)
		}
		findings = append(findings, model.NewFinding(
			"reasoning_flag", "Reasoning service caveat", model.SeverityWarning, msg,
			&model.Evidence{FieldName: "reasoning_flag", FoundValue: flag.Code},
		))
	}
	return findings
}

// severityRank orders error before warning before info
func severityRank(sev model.Severity) int {
	switch sev {
	case model.SeverityError:
		return 0
	case model.SeverityWarning:
		return 1
	}
	return 2
}

// orderFindings sorts evidence for presentation: hardest findings
// first, stable within a severity so rule order is preserved
func orderFindings(findings []model.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return severityRank(findings[i].Severity) < severityRank(findings[j].Severity)
	})
}
