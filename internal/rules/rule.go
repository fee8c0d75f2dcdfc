package rules

import (
	"fmt"
	"time"

	"github.com/auditeng/verdict/internal/model"
)

// TestType is the closed set of commissioning test types the engine
// knows rule sets for. Unknown types are rejected up front rather than
// dispatched on free-form tags.
type TestType string

const (
	TestThermography TestType = "thermography"
	TestGrounding    TestType = "grounding"
	TestMegger       TestType = "megger"
)

// ParseTestType validates a raw test-type tag from extraction output
func ParseTestType(s string) (TestType, error) {
	switch TestType(s) {
	case TestThermography, TestGrounding, TestMegger:
		return TestType(s), nil
	}
	return "", fmt.Errorf("unknown test type %q (supported: thermography, grounding, megger)", s)
}

// Input is the immutable per-document evaluation context. Rules read
// from it and emit findings; they never write anywhere.
type Input struct {
	Extraction *model.ExtractionResult
	Profile    model.ClientProfile
	TestDate   time.Time
	Thresholds model.ThresholdConfig
}

// EvaluateFunc is a pure rule body: same input, same findings
type EvaluateFunc func(in *Input) []model.Finding

// Rule is one versioned, named check within a test type's rule set
type Rule struct {
	ID       string
	Name     string
	Evaluate EvaluateFunc
}

// finding is a shorthand constructor used throughout the rule bodies
func finding(rule Rule, sev model.Severity, message string, evidence *model.Evidence) model.Finding {
	return model.NewFinding(rule.ID, rule.Name, sev, message, evidence)
}

// dateOnly truncates a timestamp to its UTC calendar day
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
