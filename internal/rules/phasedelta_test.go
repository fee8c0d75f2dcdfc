package rules

import (
	"strings"
	"testing"

	"github.com/auditeng/verdict/internal/model"
)

func phaseExtraction(marshal *model.ExtractedField, temps ...string) *model.ExtractionResult {
	labels := []string{"Phase A", "Phase B", "Phase C"}
	var readings []model.MeasurementReading
	for i, raw := range temps {
		label := "Phase"
		if i < len(labels) {
			label = labels[i]
		}
		readings = append(readings, model.MeasurementReading{LocationLabel: label, Value: fld(raw)})
	}
	return &model.ExtractionResult{
		TestType: "thermography",
		Thermography: &model.ThermographyData{
			PhaseReadings:        readings,
			EnergyMarshalComment: marshal,
		},
	}
}

func TestPhaseDelta_WithinReviewBand(t *testing.T) {
	// 31.5 - 29.5 = 2.0, below the 3 degC review threshold
	findings := evaluatePhaseDelta(testInput(phaseExtraction(nil, "30.0", "31.5", "29.5")))
	if len(findings) != 0 {
		t.Errorf("Delta within threshold should produce no findings, got %+v", findings)
	}
}

func TestPhaseDelta_ReviewBandWithoutAnnotation(t *testing.T) {
	// Delta 5.0 lands in the review band; with no Energy Marshal
	// annotation there are two warnings, one for the delta and one for
	// the missing annotation
	findings := evaluatePhaseDelta(testInput(phaseExtraction(nil, "30.0", "35.0", "31.0")))
	if countSeverity(findings, model.SeverityError) != 0 {
		t.Errorf("Review band must not reject, got %+v", findings)
	}
	if countSeverity(findings, model.SeverityWarning) != 2 {
		t.Fatalf("Expected delta warning plus missing-annotation warning, got %+v", findings)
	}
	var foundAnnotation bool
	for _, f := range findings {
		if strings.Contains(f.Message, "Energy Marshal") {
			foundAnnotation = true
		}
	}
	if !foundAnnotation {
		t.Error("Expected a finding naming the missing Energy Marshal annotation")
	}
}

func TestPhaseDelta_ReviewBandWithAnnotation(t *testing.T) {
	marshal := fld("Load imbalance reviewed and accepted, J. Silva")
	findings := evaluatePhaseDelta(testInput(phaseExtraction(marshal, "30.0", "35.0", "31.0")))
	if countSeverity(findings, model.SeverityWarning) != 1 {
		t.Errorf("Expected only the delta warning when annotated, got %+v", findings)
	}
}

func TestPhaseDelta_AboveRejectThreshold(t *testing.T) {
	// Delta 16.0 exceeds the 15 degC critical threshold
	findings := evaluatePhaseDelta(testInput(phaseExtraction(nil, "30.0", "46.0", "31.0")))
	f := findWithSeverity(t, findings, model.SeverityError)
	if !strings.Contains(f.Message, "16.0") {
		t.Errorf("Expected the delta cited, got %q", f.Message)
	}
}

func TestPhaseDelta_ExactlyAtThresholdDoesNotTrip(t *testing.T) {
	// Band edges are exclusive: delta == 3.0 passes, delta == 15.0 is
	// review, not reject
	findings := evaluatePhaseDelta(testInput(phaseExtraction(nil, "30.0", "33.0")))
	if len(findings) != 0 {
		t.Errorf("Delta of exactly 3.0 should pass, got %+v", findings)
	}

	findings = evaluatePhaseDelta(testInput(phaseExtraction(fld("annotated"), "30.0", "45.0")))
	if countSeverity(findings, model.SeverityError) != 0 {
		t.Errorf("Delta of exactly 15.0 should be review, not reject, got %+v", findings)
	}
	if countSeverity(findings, model.SeverityWarning) != 1 {
		t.Errorf("Expected one warning at the band edge, got %+v", findings)
	}
}

func TestPhaseDelta_SingleReadingSkips(t *testing.T) {
	findings := evaluatePhaseDelta(testInput(phaseExtraction(nil, "30.0")))
	if len(findings) != 1 || findings[0].Severity != model.SeverityInfo {
		t.Errorf("Expected one info skip, got %+v", findings)
	}
}

func TestPhaseDelta_UnreadablePhaseIsReview(t *testing.T) {
	findings := evaluatePhaseDelta(testInput(phaseExtraction(nil, "30.0", "hot", "31.0")))
	if countSeverity(findings, model.SeverityError) != 0 {
		t.Errorf("Unreadable phase must not reject, got %+v", findings)
	}
	f := findWithSeverity(t, findings, model.SeverityWarning)
	if !strings.Contains(f.Message, "Phase B") {
		t.Errorf("Expected the unreadable phase named, got %q", f.Message)
	}
}

func TestPhaseDelta_FahrenheitReadingsConverted(t *testing.T) {
	// 86F = 30C, 122F = 50C: delta 20C rejects even though the raw
	// numbers differ by 36
	extraction := phaseExtraction(nil, "86 F", "122 F")
	findings := evaluatePhaseDelta(testInput(extraction))
	findWithSeverity(t, findings, model.SeverityError)
}
