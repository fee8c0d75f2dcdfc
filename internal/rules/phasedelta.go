package rules

import (
	"fmt"
	"strings"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/normalize"
)

// Phase delta bands (delta = max phase temperature - min phase temperature):
//
//	delta >  reject threshold  -> error, the connection is failing
//	delta >  review threshold  -> warning; an Energy Marshal annotation
//	                              must justify operating in this band,
//	                              and its absence is itself review work
//	delta <= review threshold  -> no finding
var phaseDeltaRule = Rule{
	ID:   "phase_delta",
	Name: "Phase delta temperature",
}

func init() { phaseDeltaRule.Evaluate = evaluatePhaseDelta }

func evaluatePhaseDelta(in *Input) []model.Finding {
	rule := phaseDeltaRule

	thermo := in.Extraction.Thermography
	if thermo == nil || len(thermo.PhaseReadings) < 2 {
		count := 0
		if thermo != nil {
			count = len(thermo.PhaseReadings)
		}
		return []model.Finding{finding(rule, model.SeverityInfo,
			fmt.Sprintf("phase delta check skipped - %d phase reading(s), need at least 2", count), nil)}
	}

	var (
		temps      []normalize.NumberValue
		labels     []string
		unreadable []string
		firstBad   *model.ExtractedField
	)
	for _, reading := range thermo.PhaseReadings {
		val := normalize.Temperature(reading.Value, "phase_temperatures", reading.Unit)
		if val.Err != nil {
			unreadable = append(unreadable, reading.LocationLabel)
			if firstBad == nil {
				firstBad = reading.Value
			}
			continue
		}
		temps = append(temps, val)
		labels = append(labels, reading.LocationLabel)
	}

	var findings []model.Finding
	if len(unreadable) > 0 {
		findings = append(findings, finding(rule, model.SeverityWarning,
			fmt.Sprintf("could not parse temperature for phase(s) %s - manual review required", strings.Join(unreadable, ", ")),
			model.EvidenceFromField(firstBad, "phase_temperatures", strings.Join(unreadable, ", "), "numeric temperature"),
		))
	}
	if len(temps) < 2 {
		if len(findings) == 0 {
			findings = append(findings, finding(rule, model.SeverityInfo,
				"phase delta check skipped - insufficient valid temperature data", nil))
		}
		return findings
	}

	maxIdx, minIdx := 0, 0
	for i, v := range temps {
		if v.Value > temps[maxIdx].Value {
			maxIdx = i
		}
		if v.Value < temps[minIdx].Value {
			minIdx = i
		}
	}
	delta := temps[maxIdx].Value - temps[minIdx].Value
	detail := fmt.Sprintf("%s: %g degC, %s: %g degC", labels[maxIdx], temps[maxIdx].Value, labels[minIdx], temps[minIdx].Value)

	switch {
	case delta > in.Thresholds.PhaseDeltaRejectC:
		findings = append(findings, finding(rule, model.SeverityError,
			fmt.Sprintf("phase delta %.1f degC exceeds critical threshold of %g degC (%s)",
				delta, in.Thresholds.PhaseDeltaRejectC, detail),
			model.EvidenceFromField(temps[maxIdx].Field, "phase_delta",
				fmt.Sprintf("%.1f degC", delta), fmt.Sprintf("<= %g degC", in.Thresholds.PhaseDeltaRejectC)),
		))

	case delta > in.Thresholds.PhaseDeltaReviewC:
		findings = append(findings, finding(rule, model.SeverityWarning,
			fmt.Sprintf("phase delta %.1f degC exceeds review threshold of %g degC (%s)",
				delta, in.Thresholds.PhaseDeltaReviewC, detail),
			model.EvidenceFromField(temps[maxIdx].Field, "phase_delta",
				fmt.Sprintf("%.1f degC", delta), fmt.Sprintf("<= %g degC", in.Thresholds.PhaseDeltaReviewC)),
		))
		// A delta in the review band is only acceptable with a qualifying
		// Energy Marshal annotation; without one the report cannot be
		// auto-approved at this delta.
		if !thermo.EnergyMarshalComment.Present() {
			findings = append(findings, finding(rule, model.SeverityWarning,
				fmt.Sprintf("phase delta %.1f degC requires an Energy Marshal annotation and none was found", delta),
				model.EvidenceFromField(thermo.EnergyMarshalComment, "energy_marshal_comment", "", "qualifying Energy Marshal annotation"),
			))
		}
	}
	// delta within the review threshold: nothing to report
	return findings
}
