package rules

import (
	"fmt"
	"math"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/normalize"
)

// Voltage classes per IEEE 43 / IEC 60364-6. The test voltage for a
// class is categorical: the required value must be used exactly, and
// exceeding the safe maximum risks damaging the insulation under test.
type voltageClass struct {
	maxEquipmentV float64
	requiredTestV float64
	maxSafeTestV  float64
	minInsulation float64 // Megohms
}

var voltageClasses = []voltageClass{
	{maxEquipmentV: 250, requiredTestV: 500, maxSafeTestV: 500, minInsulation: 0.25},
	{maxEquipmentV: 500, requiredTestV: 1000, maxSafeTestV: 1000, minInsulation: 0.5},
	{maxEquipmentV: 1000, requiredTestV: 1000, maxSafeTestV: 2500, minInsulation: 1.0},
	{maxEquipmentV: math.Inf(1), requiredTestV: 2500, maxSafeTestV: 5000, minInsulation: 1.0},
}

func classFor(equipmentV float64) voltageClass {
	for _, vc := range voltageClasses {
		if equipmentV <= vc.maxEquipmentV {
			return vc
		}
	}
	return voltageClasses[len(voltageClasses)-1]
}

// meggerField fetches one required megger field, producing the standard
// missing/unparseable review finding when it cannot be used
func meggerField(rule Rule, field *model.ExtractedField, name string, parse func(*model.ExtractedField, string) normalize.NumberValue) (normalize.NumberValue, *model.Finding) {
	if !field.Present() {
		f := finding(rule, model.SeverityWarning,
			fmt.Sprintf("%s missing - manual review required", name),
			model.EvidenceFromField(field, name, "", "numeric "+name))
		return normalize.NumberValue{}, &f
	}
	val := parse(field, name)
	if val.Err != nil {
		f := finding(rule, model.SeverityWarning,
			fmt.Sprintf("could not parse %s %q - manual review required", name, field.RawValue),
			model.EvidenceFromField(field, name, field.RawValue, "numeric "+name))
		return normalize.NumberValue{}, &f
	}
	return val, nil
}

// Megger test voltage must match the class voltage for the equipment's
// rating exactly. Too high is an error (insulation damage); any other
// deviation cannot be auto-approved.
var meggerTestVoltageRule = Rule{
	ID:   "megger_test_voltage",
	Name: "Megger test voltage class",
}

func init() { meggerTestVoltageRule.Evaluate = evaluateMeggerTestVoltage }

func evaluateMeggerTestVoltage(in *Input) []model.Finding {
	rule := meggerTestVoltageRule

	megger := in.Extraction.Megger
	if megger == nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"megger data missing - manual review required",
			&model.Evidence{FieldName: "megger", ExpectedValue: "megger section"},
		)}
	}

	rating, bad := meggerField(rule, megger.EquipmentVoltageRating, "equipment_voltage_rating", normalize.Voltage)
	if bad != nil {
		return []model.Finding{*bad}
	}
	testV, bad := meggerField(rule, megger.TestVoltage, "test_voltage", normalize.Voltage)
	if bad != nil {
		return []model.Finding{*bad}
	}

	vc := classFor(rating.Value)
	switch {
	case testV.Value > vc.maxSafeTestV:
		return []model.Finding{finding(rule, model.SeverityError,
			fmt.Sprintf("test voltage %gV too high for equipment rated %gV (max safe %gV) - potential equipment damage",
				testV.Value, rating.Value, vc.maxSafeTestV),
			model.EvidenceFromField(megger.TestVoltage, "test_voltage",
				fmt.Sprintf("%gV", testV.Value), fmt.Sprintf("%gV", vc.requiredTestV)),
		)}
	case testV.Value != vc.requiredTestV:
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("test voltage %gV does not match the %gV class voltage for equipment rated %gV - manual review required",
				testV.Value, vc.requiredTestV, rating.Value),
			model.EvidenceFromField(megger.TestVoltage, "test_voltage",
				fmt.Sprintf("%gV", testV.Value), fmt.Sprintf("%gV", vc.requiredTestV)),
		)}
	}
	return []model.Finding{finding(rule, model.SeverityInfo,
		fmt.Sprintf("test voltage %gV matches the class voltage for equipment rated %gV", testV.Value, rating.Value),
		model.EvidenceFromField(megger.TestVoltage, "test_voltage", fmt.Sprintf("%gV", testV.Value), ""),
	)}
}

// Insulation resistance below the class minimum is a genuine failed
// measurement and rejects the report.
var meggerMinResistanceRule = Rule{
	ID:   "megger_min_resistance",
	Name: "Megger minimum insulation resistance",
}

func init() { meggerMinResistanceRule.Evaluate = evaluateMeggerMinResistance }

func evaluateMeggerMinResistance(in *Input) []model.Finding {
	rule := meggerMinResistanceRule

	megger := in.Extraction.Megger
	if megger == nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"megger data missing - manual review required",
			&model.Evidence{FieldName: "megger", ExpectedValue: "megger section"},
		)}
	}

	rating, bad := meggerField(rule, megger.EquipmentVoltageRating, "equipment_voltage_rating", normalize.Voltage)
	if bad != nil {
		return []model.Finding{*bad}
	}

	if !megger.InsulationResistance.Present() {
		return []model.Finding{finding(rule, model.SeverityWarning,
			"insulation resistance missing - manual review required",
			model.EvidenceFromField(megger.InsulationResistance, "insulation_resistance", "", "insulation resistance in megohms"),
		)}
	}
	// Bare numbers on megger reports are conventionally megohms
	resistance := normalize.Resistance(megger.InsulationResistance, "insulation_resistance", "M")
	if resistance.Err != nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("could not parse insulation resistance %q - manual review required", megger.InsulationResistance.RawValue),
			model.EvidenceFromField(megger.InsulationResistance, "insulation_resistance",
				megger.InsulationResistance.RawValue, "numeric resistance in megohms"),
		)}
	}

	vc := classFor(rating.Value)
	minOhms := vc.minInsulation * 1e6
	if resistance.Value < minOhms {
		return []model.Finding{finding(rule, model.SeverityError,
			fmt.Sprintf("insulation resistance %g Mohm below the %g Mohm minimum for equipment rated %gV",
				resistance.Value/1e6, vc.minInsulation, rating.Value),
			model.EvidenceFromField(megger.InsulationResistance, "insulation_resistance",
				fmt.Sprintf("%g Mohm", resistance.Value/1e6), fmt.Sprintf(">= %g Mohm", vc.minInsulation)),
		)}
	}
	return []model.Finding{finding(rule, model.SeverityInfo,
		fmt.Sprintf("insulation resistance %g Mohm meets the %g Mohm minimum for equipment rated %gV",
			resistance.Value/1e6, vc.minInsulation, rating.Value),
		model.EvidenceFromField(megger.InsulationResistance, "insulation_resistance",
			fmt.Sprintf("%g Mohm", resistance.Value/1e6), ""),
	)}
}
