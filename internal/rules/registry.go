package rules

import (
	"fmt"

	"github.com/auditeng/verdict/internal/model"
)

// Registry holds the ordered rule set for each test type. It is built
// once at startup and read-only afterwards, so concurrent document
// validations can share it freely.
type Registry struct {
	sets map[TestType][]Rule
}

// NewRegistry builds the standard rule sets
func NewRegistry() *Registry {
	return &Registry{
		sets: map[TestType][]Rule{
			TestThermography: {
				calibrationValidityRule,
				serialCrossValidationRule,
				cameraTempMatchRule,
				phaseDeltaRule,
			},
			TestGrounding: {
				calibrationValidityRule,
				serialCrossValidationRule,
				groundingTestMethodRule,
				groundingResistanceRule,
			},
			TestMegger: {
				calibrationValidityRule,
				serialCrossValidationRule,
				meggerTestVoltageRule,
				meggerMinResistanceRule,
			},
		},
	}
}

// Rules returns the ordered rule set for a test type
func (r *Registry) Rules(tt TestType) ([]Rule, error) {
	set, ok := r.sets[tt]
	if !ok {
		return nil, fmt.Errorf("no rule set for test type %q", tt)
	}
	return set, nil
}

// Evaluate runs every rule in the test type's set against the input.
// Each rule is independent: a rule that panics is converted into a
// warning finding naming the failed rule, and evaluation continues
// with the remaining rules. Only an unknown test type is a hard error.
func (r *Registry) Evaluate(tt TestType, in *Input) ([]model.Finding, error) {
	set, err := r.Rules(tt)
	if err != nil {
		return nil, err
	}

	findings := make([]model.Finding, 0, len(set))
	for _, rule := range set {
		findings = append(findings, runRule(rule, in)...)
	}
	return findings, nil
}

// runRule isolates one rule execution behind a recover
func runRule(rule Rule, in *Input) (out []model.Finding) {
	defer func() {
		if r := recover(); r != nil {
			out = []model.Finding{finding(rule, model.SeverityWarning,
				fmt.Sprintf("rule %s failed to evaluate (%v) - manual review required", rule.ID, r),
				&model.Evidence{FieldName: rule.ID, ExpectedValue: "rule evaluates without error"},
			)}
		}
	}()
	return rule.Evaluate(in)
}
