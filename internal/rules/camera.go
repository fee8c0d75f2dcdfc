package rules

import (
	"fmt"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/normalize"
)

// The camera's ambient temperature setting must equal the external
// datalogger reading exactly. Tolerance is 0.0 degC: the comparison is
// on the normalized values, not rounded ones. A mismatch means the
// camera was configured wrong and every reading in the report is suspect.
var cameraTempMatchRule = Rule{
	ID:   "camera_temp_match",
	Name: "Camera/datalogger temperature match",
}

func init() { cameraTempMatchRule.Evaluate = evaluateCameraTempMatch }

func evaluateCameraTempMatch(in *Input) []model.Finding {
	rule := cameraTempMatchRule

	thermo := in.Extraction.Thermography
	if thermo == nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"thermography data missing - manual review required",
			&model.Evidence{FieldName: "thermography", ExpectedValue: "thermography section"},
		)}
	}

	if !thermo.CameraAmbientTemp.Present() {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"missing camera ambient temperature - manual review required",
			model.EvidenceFromField(thermo.CameraAmbientTemp, "camera_ambient_temp", "", "camera ambient temperature"),
		)}
	}
	if !thermo.DataloggerTemp.Present() {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"missing datalogger temperature - manual review required",
			model.EvidenceFromField(thermo.DataloggerTemp, "datalogger_temp", "", "datalogger temperature"),
		)}
	}

	camera := normalize.Temperature(thermo.CameraAmbientTemp, "camera_ambient_temp", "")
	if camera.Err != nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("could not parse camera ambient temperature %q - manual review required", thermo.CameraAmbientTemp.RawValue),
			model.EvidenceFromField(thermo.CameraAmbientTemp, "camera_ambient_temp", thermo.CameraAmbientTemp.RawValue, "numeric temperature"),
		)}
	}
	datalogger := normalize.Temperature(thermo.DataloggerTemp, "datalogger_temp", "")
	if datalogger.Err != nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("could not parse datalogger temperature %q - manual review required", thermo.DataloggerTemp.RawValue),
			model.EvidenceFromField(thermo.DataloggerTemp, "datalogger_temp", thermo.DataloggerTemp.RawValue, "numeric temperature"),
		)}
	}

	if camera.Value != datalogger.Value {
		return []model.Finding{finding(rule, model.SeverityError,
			fmt.Sprintf("camera ambient temperature (%g degC) does not match datalogger reading (%g degC)",
				camera.Value, datalogger.Value),
			model.EvidenceFromField(thermo.CameraAmbientTemp, "camera_ambient_temp",
				fmt.Sprintf("%g degC", camera.Value), fmt.Sprintf("%g degC", datalogger.Value)),
		)}
	}

	return []model.Finding{finding(rule, model.SeverityInfo,
		fmt.Sprintf("camera ambient temperature matches datalogger (%g degC)", camera.Value),
		model.EvidenceFromField(thermo.CameraAmbientTemp, "camera_ambient_temp",
			fmt.Sprintf("%g degC", camera.Value), ""),
	)}
}
