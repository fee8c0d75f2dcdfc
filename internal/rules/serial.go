package rules

import (
	"fmt"
	"strings"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/resolve"
)

// Serial cross-validation: the instrument serial number appears
// independently in the report header, on the instrument photo, and on
// the calibration certificate. A disagreement between any two sources
// is a copy-paste-error signal and rejects the report, with evidence
// bound to both mismatched sources.
var serialCrossValidationRule = Rule{
	ID:   "serial_cross_validation",
	Name: "Serial number cross-validation",
}

func init() { serialCrossValidationRule.Evaluate = evaluateSerialCrossValidation }

func evaluateSerialCrossValidation(in *Input) []model.Finding {
	rule := serialCrossValidationRule

	sources := collectSerialSources(in.Extraction)
	if len(sources) == 0 {
		return []model.Finding{finding(rule, model.SeverityInfo,
			"serial number consistency check skipped (no serial-bearing sources)", nil)}
	}

	identity := resolve.Identity(sources)

	var findings []model.Finding
	for _, name := range identity.Missing {
		findings = append(findings, finding(rule, model.SeverityWarning,
			fmt.Sprintf("serial number missing from %s - incomplete evidence, manual review required", name),
			&model.Evidence{FieldName: "serial_number", ExpectedValue: "serial number in " + name},
		))
	}

	if identity.Compared < 2 {
		findings = append(findings, finding(rule, model.SeverityInfo,
			"serial number consistency check skipped (insufficient valid values)", nil))
		return findings
	}

	if identity.Consistent {
		findings = append(findings, finding(rule, model.SeverityInfo,
			fmt.Sprintf("serial numbers consistent: %s (found in %d locations)", identity.Value, identity.Compared), nil))
		return findings
	}

	// One evidence-bound error per mismatched source, so the reviewer
	// can jump to both occurrences, not just one aggregate message.
	for _, mm := range identity.Mismatches {
		findings = append(findings,
			finding(rule, model.SeverityError,
				fmt.Sprintf("serial number %q in %s does not match %q in %s", mm.ValueA, mm.SourceA, mm.ValueB, mm.SourceB),
				model.EvidenceFromField(mm.FieldA, "serial_number", mm.ValueA, mm.ValueB)),
			finding(rule, model.SeverityError,
				fmt.Sprintf("serial number %q in %s does not match %q in %s", mm.ValueB, mm.SourceB, mm.ValueA, mm.SourceA),
				model.EvidenceFromField(mm.FieldB, "serial_number", mm.ValueB, mm.ValueA)),
		)
	}
	return findings
}

// collectSerialSources gathers every place the document records the
// serial number of the instrument under test. Sources the document
// structure cannot carry (no thermography section, no certificates)
// are simply absent; sources the structure carries but the extractor
// found empty count as missing evidence.
//
// With multiple calibration certificates only the one for the
// document's test type participates: certificates for auxiliary
// instruments legitimately carry different serials and comparing them
// against each other would manufacture false mismatches.
func collectSerialSources(extraction *model.ExtractionResult) []resolve.Source {
	var sources []resolve.Source

	if thermo := extraction.Thermography; thermo != nil {
		if thermo.HeaderSerialNumber != nil {
			sources = append(sources, resolve.Source{Name: "report header", Field: thermo.HeaderSerialNumber})
		}
		if thermo.PhotoSerialNumber != nil {
			sources = append(sources, resolve.Source{Name: "instrument photo", Field: thermo.PhotoSerialNumber})
		}
	}

	for _, cal := range extraction.Calibrations {
		if cal.SerialNumber == nil {
			continue
		}
		if len(extraction.Calibrations) > 1 && !strings.EqualFold(cal.InstrumentType, extraction.TestType) {
			continue
		}
		name := "calibration certificate"
		if cal.InstrumentType != "" && len(extraction.Calibrations) > 1 {
			name = fmt.Sprintf("calibration certificate (%s)", strings.ToLower(cal.InstrumentType))
		}
		sources = append(sources, resolve.Source{Name: name, Field: cal.SerialNumber})
	}
	return sources
}
