package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/auditeng/verdict/internal/model"
)

// NumberValue is a normalized numeric reading in canonical units
// (°C for temperatures, ohms for resistances, volts for voltages)
type NumberValue struct {
	Field *model.ExtractedField
	Value float64
	Err   *Error
}

// Valid reports whether a usable number was produced
func (v NumberValue) Valid() bool {
	return v.Err == nil
}

// Temperature normalizes a raw temperature to Celsius. Accepted unit
// annotations: C/°C (canonical), F/°F (converted). Brazilian reports
// use comma decimals, so "22,5" parses as 22.5.
func Temperature(field *model.ExtractedField, fieldName, unit string) NumberValue {
	raw, unit := splitUnit(field, unit)
	val, err := parseDecimal(raw, fieldName)
	if err != nil {
		return NumberValue{Field: field, Err: err}
	}

	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(unit)), "°") {
	case "", "C":
		return NumberValue{Field: field, Value: val}
	case "F":
		return NumberValue{Field: field, Value: (val - 32.0) * 5.0 / 9.0}
	}
	return NumberValue{Field: field, Err: &Error{
		Kind:   KindMalformedValue,
		Field:  fieldName,
		Raw:    field.RawValue,
		Detail: fmt.Sprintf("unknown temperature unit %q", unit),
	}}
}

// Resistance normalizes a raw resistance to ohms, applying a declared
// k/M unit prefix (kΩ = 1e3, MΩ = 1e6)
func Resistance(field *model.ExtractedField, fieldName, unit string) NumberValue {
	raw, unit := splitUnit(field, unit)
	val, err := parseDecimal(raw, fieldName)
	if err != nil {
		return NumberValue{Field: field, Err: err}
	}

	prefix := strings.TrimSpace(unit)
	for _, suffix := range []string{"Ω", "ohms", "ohm"} {
		if strings.HasSuffix(strings.ToLower(prefix), strings.ToLower(suffix)) {
			prefix = prefix[:len(prefix)-len(suffix)]
			break
		}
	}

	switch strings.TrimSpace(prefix) {
	case "":
		return NumberValue{Field: field, Value: val}
	case "k", "K":
		return NumberValue{Field: field, Value: val * 1e3}
	case "M":
		return NumberValue{Field: field, Value: val * 1e6}
	}
	return NumberValue{Field: field, Err: &Error{
		Kind:   KindMalformedValue,
		Field:  fieldName,
		Raw:    field.RawValue,
		Detail: fmt.Sprintf("unknown resistance unit %q", unit),
	}}
}

// Voltage normalizes a raw voltage to volts. Accepted unit
// annotations: V (canonical), kV (scaled). Anything else is malformed,
// not a bare volt count.
func Voltage(field *model.ExtractedField, fieldName string) NumberValue {
	raw, unit := splitUnit(field, "")
	val, err := parseDecimal(raw, fieldName)
	if err != nil {
		// Re-report with the original raw value for evidence
		err.Raw = field.RawValue
		return NumberValue{Field: field, Err: err}
	}

	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "v":
		return NumberValue{Field: field, Value: val}
	case "kv":
		return NumberValue{Field: field, Value: val * 1e3}
	}
	return NumberValue{Field: field, Err: &Error{
		Kind:   KindMalformedValue,
		Field:  fieldName,
		Raw:    field.RawValue,
		Detail: fmt.Sprintf("unknown voltage unit %q", unit),
	}}
}

// splitUnit returns the numeric part of a raw value and the unit to
// apply. A unit embedded in the raw value ("5.2 ohms") wins over the
// declared one; the declared unit is the fallback for bare numbers.
func splitUnit(field *model.ExtractedField, declaredUnit string) (string, string) {
	if !field.Present() {
		return "", declaredUnit
	}
	raw := strings.TrimSpace(field.RawValue)

	if idx := strings.IndexFunc(raw, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '.' && r != ',' && r != '-' && r != '+'
	}); idx > 0 {
		if embedded := strings.TrimSpace(raw[idx:]); embedded != "" {
			return strings.TrimSpace(raw[:idx]), embedded
		}
		return strings.TrimSpace(raw[:idx]), declaredUnit
	}
	return raw, declaredUnit
}

// parseDecimal parses a decimal that may use a comma separator
func parseDecimal(raw, fieldName string) (float64, *Error) {
	if raw == "" {
		return 0, &Error{Kind: KindMalformedValue, Field: fieldName, Detail: "value missing"}
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, &Error{
			Kind:   KindMalformedValue,
			Field:  fieldName,
			Raw:    raw,
			Detail: "not a number",
		}
	}
	return val, nil
}
