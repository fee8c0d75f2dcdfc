package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/auditeng/verdict/internal/model"
)

// Shared fixtures for the rule tests

func fld(raw string) *model.ExtractedField {
	return &model.ExtractedField{RawValue: raw}
}

func locatedFld(raw string, page int) *model.ExtractedField {
	return &model.ExtractedField{
		RawValue: raw,
		Location: &model.FieldLocation{Page: page, BBox: model.BoundingBox{Left: 0.1, Top: 0.1, Right: 0.4, Bottom: 0.2}},
	}
}

func testInput(extraction *model.ExtractionResult) *Input {
	return &Input{
		Extraction: extraction,
		Profile:    model.ClientProfile{ClientID: "test", DateFormat: model.DateFormatISO},
		TestDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Thresholds: model.DefaultConfig().Thresholds,
	}
}

func countSeverity(findings []model.Finding, sev model.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

func findWithSeverity(t *testing.T, findings []model.Finding, sev model.Severity) model.Finding {
	t.Helper()
	for _, f := range findings {
		if f.Severity == sev {
			return f
		}
	}
	t.Fatalf("Expected a %s finding, got %+v", sev, findings)
	return model.Finding{}
}

func TestParseTestType(t *testing.T) {
	for _, valid := range []string{"thermography", "grounding", "megger"} {
		if _, err := ParseTestType(valid); err != nil {
			t.Errorf("Expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := ParseTestType("continuity"); err == nil {
		t.Error("Expected error for unknown test type")
	}
	if _, err := ParseTestType(""); err == nil {
		t.Error("Expected error for empty test type")
	}
}

func TestRegistry_UnknownTypeIsHardError(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Evaluate(TestType("continuity"), testInput(&model.ExtractionResult{})); err == nil {
		t.Error("Expected hard error for unknown test type")
	}
}

func TestRegistry_EveryTypeSharesCalibrationAndSerialRules(t *testing.T) {
	registry := NewRegistry()
	for _, tt := range []TestType{TestThermography, TestGrounding, TestMegger} {
		set, err := registry.Rules(tt)
		if err != nil {
			t.Fatalf("Expected rule set for %s, got %v", tt, err)
		}
		ids := map[string]bool{}
		for _, rule := range set {
			ids[rule.ID] = true
		}
		if !ids["calibration_validity"] || !ids["serial_cross_validation"] {
			t.Errorf("%s rule set missing shared rules: %v", tt, ids)
		}
	}
}

func TestRegistry_EveryRuleHasEvaluatorWired(t *testing.T) {
	registry := NewRegistry()
	for _, tt := range []TestType{TestThermography, TestGrounding, TestMegger} {
		set, err := registry.Rules(tt)
		if err != nil {
			t.Fatalf("Expected rule set for %s, got %v", tt, err)
		}
		for _, rule := range set {
			if rule.ID == "" || rule.Name == "" {
				t.Errorf("%s rule set contains a rule with empty identity: %+v", tt, rule)
			}
			if rule.Evaluate == nil {
				t.Errorf("Rule %s has no evaluator", rule.ID)
			}
		}
	}
}

func TestRegistry_PanickingRuleBecomesWarning(t *testing.T) {
	out := runRule(Rule{
		ID:   "exploding_rule",
		Name: "Exploding rule",
		Evaluate: func(in *Input) []model.Finding {
			panic("boom")
		},
	}, testInput(&model.ExtractionResult{}))

	if len(out) != 1 {
		t.Fatalf("Expected 1 finding from recovered panic, got %d", len(out))
	}
	if out[0].Severity != model.SeverityWarning {
		t.Errorf("Expected warning severity, got %s", out[0].Severity)
	}
	if !strings.Contains(out[0].Message, "exploding_rule") {
		t.Errorf("Expected the failed rule named in the message, got %q", out[0].Message)
	}
}

func TestRegistry_RulesAreIndependent(t *testing.T) {
	// A document that trips one rule must still be evaluated by the rest
	registry := NewRegistry()
	extraction := &model.ExtractionResult{
		TestType: "grounding",
		Calibrations: []model.CalibrationInfo{
			{InstrumentType: "grounding", ExpirationDate: fld("2020-01-01"), SerialNumber: fld("SN-1")},
		},
		Grounding: &model.GroundingData{
			ResistanceValue:  fld("4.0"),
			TestMethod:       fld("fall-of-potential"),
			InstallationType: fld("new"),
		},
	}

	findings, err := registry.Evaluate(TestGrounding, testInput(extraction))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	seen := map[string]bool{}
	for _, f := range findings {
		seen[f.RuleID] = true
	}
	for _, id := range []string{"calibration_validity", "serial_cross_validation", "grounding_test_method", "grounding_resistance"} {
		if !seen[id] {
			t.Errorf("Expected findings from %s, rule did not run", id)
		}
	}
}
