package rules

import (
	"strings"
	"testing"

	"github.com/auditeng/verdict/internal/model"
)

func groundingExtraction(resistance, method, installation *model.ExtractedField) *model.ExtractionResult {
	return &model.ExtractionResult{
		TestType: "grounding",
		Grounding: &model.GroundingData{
			ResistanceValue:  resistance,
			TestMethod:       method,
			InstallationType: installation,
		},
	}
}

func TestGroundingMethod_Recognized(t *testing.T) {
	findings := evaluateGroundingTestMethod(testInput(groundingExtraction(fld("4.0"), fld("Fall of Potential"), fld("new"))))
	if countSeverity(findings, model.SeverityWarning) != 0 {
		t.Errorf("Expected fall-of-potential accepted via alias, got %+v", findings)
	}
	findWithSeverity(t, findings, model.SeverityInfo)
}

func TestGroundingMethod_Aliases(t *testing.T) {
	for _, alias := range []string{"3-point", "three-point", "clamp on", "star delta"} {
		key, ok := lookupMethod(normalizeMethod(alias))
		if !ok {
			t.Errorf("Expected alias %q to resolve", alias)
			continue
		}
		if _, exists := groundingMethods[key]; !exists {
			t.Errorf("Alias %q resolved to unknown key %q", alias, key)
		}
	}
}

func TestGroundingMethod_ClampOnInvalidForNewInstallation(t *testing.T) {
	findings := evaluateGroundingTestMethod(testInput(groundingExtraction(fld("4.0"), fld("clamp-on"), fld("new"))))
	f := findWithSeverity(t, findings, model.SeverityWarning)
	if !strings.Contains(f.Message, "not appropriate for new") {
		t.Errorf("Expected context-mismatch message, got %q", f.Message)
	}
}

func TestGroundingMethod_ClampOnValidForExisting(t *testing.T) {
	findings := evaluateGroundingTestMethod(testInput(groundingExtraction(fld("4.0"), fld("clamp-on"), fld("existing"))))
	if countSeverity(findings, model.SeverityWarning) != 0 {
		t.Errorf("Clamp-on is standard for existing installations, got %+v", findings)
	}
}

func TestGroundingMethod_MissingOrUnrecognizedIsReview(t *testing.T) {
	cases := []struct {
		name   string
		method *model.ExtractedField
	}{
		{"missing", nil},
		{"unrecognized", fld("guesswork")},
	}
	for _, tc := range cases {
		findings := evaluateGroundingTestMethod(testInput(groundingExtraction(fld("4.0"), tc.method, fld("new"))))
		if countSeverity(findings, model.SeverityError) != 0 {
			t.Errorf("%s method must not reject, got %+v", tc.name, findings)
		}
		if countSeverity(findings, model.SeverityWarning) != 1 {
			t.Errorf("%s method: expected one warning, got %+v", tc.name, findings)
		}
	}
}

func TestGroundingMethod_UnknownInstallationContext(t *testing.T) {
	findings := evaluateGroundingTestMethod(testInput(groundingExtraction(fld("4.0"), fld("slope"), fld("temporary"))))
	f := findWithSeverity(t, findings, model.SeverityWarning)
	if !strings.Contains(f.Message, "temporary") {
		t.Errorf("Expected the unrecognized context cited, got %q", f.Message)
	}
}

func TestGroundingResistance_WithinLimits(t *testing.T) {
	findings := evaluateGroundingResistance(testInput(groundingExtraction(fld("4.2"), fld("fall-of-potential"), fld("new"))))
	if countSeverity(findings, model.SeverityError)+countSeverity(findings, model.SeverityWarning) != 0 {
		t.Errorf("4.2 ohms is clean, got %+v", findings)
	}
}

func TestGroundingResistance_BorderlineBand(t *testing.T) {
	// Above the 5 ohm review threshold, below the 10 ohm method maximum
	findings := evaluateGroundingResistance(testInput(groundingExtraction(fld("7.5"), fld("fall-of-potential"), fld("new"))))
	if countSeverity(findings, model.SeverityError) != 0 {
		t.Errorf("Borderline resistance must not reject, got %+v", findings)
	}
	f := findWithSeverity(t, findings, model.SeverityWarning)
	if !strings.Contains(f.Message, "borderline") {
		t.Errorf("Expected borderline message, got %q", f.Message)
	}
}

func TestGroundingResistance_AboveMethodMaximum(t *testing.T) {
	findings := evaluateGroundingResistance(testInput(groundingExtraction(fld("12.0"), fld("fall-of-potential"), fld("new"))))
	f := findWithSeverity(t, findings, model.SeverityError)
	if f.Evidence == nil {
		t.Error("Expected evidence on the over-limit finding")
	}
}

func TestGroundingResistance_ExactlyAtLimits(t *testing.T) {
	// Band edges are inclusive on the passing side
	findings := evaluateGroundingResistance(testInput(groundingExtraction(fld("5.0"), fld("fall-of-potential"), fld("new"))))
	if countSeverity(findings, model.SeverityWarning) != 0 {
		t.Errorf("Exactly 5.0 ohms passes, got %+v", findings)
	}
	findings = evaluateGroundingResistance(testInput(groundingExtraction(fld("10.0"), fld("fall-of-potential"), fld("new"))))
	if countSeverity(findings, model.SeverityError) != 0 {
		t.Errorf("Exactly 10.0 ohms is borderline, not rejected, got %+v", findings)
	}
}

func TestGroundingResistance_UnitSuffixNormalized(t *testing.T) {
	findings := evaluateGroundingResistance(testInput(groundingExtraction(fld("4.2 ohms"), fld("fall-of-potential"), fld("new"))))
	if countSeverity(findings, model.SeverityError)+countSeverity(findings, model.SeverityWarning) != 0 {
		t.Errorf("Expected 4.2 ohms accepted with unit suffix, got %+v", findings)
	}
}

func TestGroundingResistance_NoMethodMeansNoLimit(t *testing.T) {
	// A reading without a recognized method cannot be judged against a
	// method-scoped limit; that is review work, not an assumed pass
	findings := evaluateGroundingResistance(testInput(groundingExtraction(fld("4.0"), nil, nil)))
	if countSeverity(findings, model.SeverityError) != 0 {
		t.Errorf("No method must not reject, got %+v", findings)
	}
	f := findWithSeverity(t, findings, model.SeverityWarning)
	if !strings.Contains(f.Message, "no limit can be applied") {
		t.Errorf("Expected no-limit message, got %q", f.Message)
	}
}

func TestGroundingResistance_MissingOrInvalidValueIsReview(t *testing.T) {
	cases := []*model.ExtractedField{nil, fld("low"), fld("-3.0")}
	for _, value := range cases {
		findings := evaluateGroundingResistance(testInput(groundingExtraction(value, fld("fall-of-potential"), fld("new"))))
		if countSeverity(findings, model.SeverityError) != 0 {
			t.Errorf("Value %v must not reject, got %+v", value, findings)
		}
		if countSeverity(findings, model.SeverityWarning) != 1 {
			t.Errorf("Value %v: expected one warning, got %+v", value, findings)
		}
	}
}
