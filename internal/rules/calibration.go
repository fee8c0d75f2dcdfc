package rules

import (
	"fmt"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/normalize"
)

// Calibration validity applies to every test type: an instrument whose
// calibration certificate had expired by the report date invalidates
// the measurement outright. Zero tolerance, no grace period - but an
// expiry date we could not read is review work, never an assumed pass.
var calibrationValidityRule = Rule{
	ID:   "calibration_validity",
	Name: "Calibration certificate validity",
}

func init() { calibrationValidityRule.Evaluate = evaluateCalibrationValidity }

func evaluateCalibrationValidity(in *Input) []model.Finding {
	rule := calibrationValidityRule

	if len(in.Extraction.Calibrations) == 0 {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"no calibration certificate found in document - manual review required",
			&model.Evidence{FieldName: "calibrations", ExpectedValue: "at least one calibration certificate"},
		)}
	}

	testDay := dateOnly(in.TestDate)
	var findings []model.Finding

	for _, cal := range in.Extraction.Calibrations {
		instrument := cal.InstrumentType
		if instrument == "" {
			instrument = "instrument"
		}

		if !cal.ExpirationDate.Present() {
			findings = append(findings, finding(rule, model.SeverityWarning,
				fmt.Sprintf("missing calibration expiration date for %s - manual review required", instrument),
				model.EvidenceFromField(cal.ExpirationDate, "expiration_date", "", "calibration expiration date"),
			))
			continue
		}

		expiration := normalize.Date(cal.ExpirationDate, "expiration_date", in.Profile)
		if expiration.Err != nil {
			findings = append(findings, calNormalizationFinding(rule, instrument, expiration))
			continue
		}

		expDay := dateOnly(expiration.Time)
		if expDay.Before(testDay) {
			findings = append(findings, finding(rule, model.SeverityError,
				fmt.Sprintf("%s calibration expired on %s, test performed on %s",
					instrument, expDay.Format("2006-01-02"), testDay.Format("2006-01-02")),
				model.EvidenceFromField(cal.ExpirationDate, "expiration_date",
					expDay.Format("2006-01-02"), ">= "+testDay.Format("2006-01-02")),
			))
			continue
		}

		findings = append(findings, finding(rule, model.SeverityInfo,
			fmt.Sprintf("%s calibration valid until %s", instrument, expDay.Format("2006-01-02")),
			model.EvidenceFromField(cal.ExpirationDate, "expiration_date", expDay.Format("2006-01-02"), ""),
		))
	}
	return findings
}

// calNormalizationFinding turns a date normalization failure into the
// review finding the never-silently-reject policy demands
func calNormalizationFinding(rule Rule, instrument string, val normalize.DateValue) model.Finding {
	var msg string
	switch val.Err.Kind {
	case normalize.KindAmbiguousDate:
		msg = fmt.Sprintf("%s calibration expiration date %q is ambiguous under the client date format (%s) - manual review required",
			instrument, val.Err.Raw, val.Err.Detail)
	default:
		msg = fmt.Sprintf("could not parse %s calibration expiration date %q - manual review required",
			instrument, val.Err.Raw)
	}
	return finding(rule, model.SeverityWarning, msg,
		model.EvidenceFromField(val.Field, "expiration_date", val.Err.Raw, "parseable calibration expiration date"))
}
