package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/auditeng/verdict/internal/model"
	"github.com/auditeng/verdict/internal/normalize"
)

// Recognized IEEE 81 grounding test methods with their aliases and the
// installation contexts they are appropriate for.
type methodSpec struct {
	aliases    []string
	newOK      bool
	existingOK bool
}

var groundingMethods = map[string]methodSpec{
	"fall-of-potential": {aliases: []string{"fall of potential", "3-point", "three-point"}, newOK: true, existingOK: true},
	"slope":             {newOK: true, existingOK: true},
	"clamp-on":          {aliases: []string{"clamp on", "clamp"}, newOK: false, existingOK: true},
	"attached-rod":      {aliases: []string{"attached rod"}, newOK: true, existingOK: true},
	"star-delta":        {aliases: []string{"star delta"}, newOK: true, existingOK: true},
}

// normalizeMethod canonicalizes a raw method string for table lookup
func normalizeMethod(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "-")
}

// lookupMethod resolves a normalized method string against primary keys
// and aliases
func lookupMethod(normalized string) (string, bool) {
	if _, ok := groundingMethods[normalized]; ok {
		return normalized, true
	}
	for key, spec := range groundingMethods {
		for _, alias := range spec.aliases {
			if normalized == normalizeMethod(alias) {
				return key, true
			}
		}
	}
	return "", false
}

func knownMethods() string {
	keys := make([]string, 0, len(groundingMethods))
	for k := range groundingMethods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// Grounding test method must be documented, recognized, and appropriate
// for the installation context (clamp-on cannot certify a new
// installation - there is nothing to clamp around yet).
var groundingTestMethodRule = Rule{
	ID:   "grounding_test_method",
	Name: "Grounding test method",
}

func init() { groundingTestMethodRule.Evaluate = evaluateGroundingTestMethod }

func evaluateGroundingTestMethod(in *Input) []model.Finding {
	rule := groundingTestMethodRule

	grounding := in.Extraction.Grounding
	if grounding == nil || !grounding.TestMethod.Present() {
		var field *model.ExtractedField
		if grounding != nil {
			field = grounding.TestMethod
		}
		return []model.Finding{finding(rule, model.SeverityWarning,
			"grounding test method not documented - manual review required",
			model.EvidenceFromField(field, "test_method", "", "documented test method (e.g. fall-of-potential, clamp-on)"),
		)}
	}

	raw := grounding.TestMethod.RawValue
	key, ok := lookupMethod(normalizeMethod(raw))
	if !ok {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("grounding test method %q is unrecognized - manual review required", raw),
			model.EvidenceFromField(grounding.TestMethod, "test_method", raw, "recognized method: "+knownMethods()),
		)}
	}

	spec := groundingMethods[key]
	if !grounding.InstallationType.Present() {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("test method %q is valid but installation type is missing - cannot verify method appropriateness", key),
			model.EvidenceFromField(grounding.InstallationType, "installation_type", "", "'new' or 'existing'"),
		)}
	}

	context := strings.ToLower(strings.TrimSpace(grounding.InstallationType.RawValue))
	switch context {
	case "new":
		if !spec.newOK {
			return []model.Finding{finding(rule, model.SeverityWarning,
				fmt.Sprintf("test method %q is not appropriate for new installations - fall-of-potential is the standard", key),
				model.EvidenceFromField(grounding.TestMethod, "test_method", key+" (new installation)", "fall-of-potential or equivalent"),
			)}
		}
	case "existing":
		if !spec.existingOK {
			return []model.Finding{finding(rule, model.SeverityWarning,
				fmt.Sprintf("test method %q is not appropriate for existing installations", key),
				model.EvidenceFromField(grounding.TestMethod, "test_method", key+" (existing installation)", "method valid for existing installations"),
			)}
		}
	default:
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("installation type %q is unrecognized - cannot verify method appropriateness", grounding.InstallationType.RawValue),
			model.EvidenceFromField(grounding.InstallationType, "installation_type", grounding.InstallationType.RawValue, "'new' or 'existing'"),
		)}
	}

	return []model.Finding{finding(rule, model.SeverityInfo,
		fmt.Sprintf("test method %q is appropriate for %s installation testing", key, context), nil)}
}

// Grounding resistance must not exceed the configured maximum for the
// method used. The limit is method-scoped, so an unrecognized or
// missing method means the limit cannot be chosen - review, not reject.
var groundingResistanceRule = Rule{
	ID:   "grounding_resistance",
	Name: "Grounding resistance limit",
}

func init() { groundingResistanceRule.Evaluate = evaluateGroundingResistance }

func evaluateGroundingResistance(in *Input) []model.Finding {
	rule := groundingResistanceRule

	grounding := in.Extraction.Grounding
	if grounding == nil || !grounding.ResistanceValue.Present() {
		var field *model.ExtractedField
		if grounding != nil {
			field = grounding.ResistanceValue
		}
		return []model.Finding{finding(rule, model.SeverityWarning,
			"grounding resistance value not found - manual review required",
			model.EvidenceFromField(field, "grounding_resistance", "", "numeric resistance in ohms"),
		)}
	}

	resistance := normalize.Resistance(grounding.ResistanceValue, "grounding_resistance", "")
	if resistance.Err != nil {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("could not parse grounding resistance %q - manual review required", grounding.ResistanceValue.RawValue),
			model.EvidenceFromField(grounding.ResistanceValue, "grounding_resistance",
				grounding.ResistanceValue.RawValue, "numeric resistance in ohms"),
		)}
	}
	if resistance.Value < 0 {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("grounding resistance %g ohms is negative (invalid measurement) - manual review required", resistance.Value),
			model.EvidenceFromField(grounding.ResistanceValue, "grounding_resistance",
				fmt.Sprintf("%g ohms", resistance.Value), ">= 0 ohms"),
		)}
	}

	// The maximum is method-scoped
	var methodKey string
	if grounding.TestMethod.Present() {
		methodKey, _ = lookupMethod(normalizeMethod(grounding.TestMethod.RawValue))
	}
	maxOhms, ok := in.Thresholds.GroundingMethodMaxOhms[methodKey]
	if methodKey == "" || !ok {
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("grounding resistance %g ohms measured but the test method is missing or unrecognized - no limit can be applied, manual review required", resistance.Value),
			model.EvidenceFromField(grounding.ResistanceValue, "grounding_resistance",
				fmt.Sprintf("%g ohms", resistance.Value), "recognized test method with configured limit"),
		)}
	}

	switch {
	case resistance.Value > maxOhms:
		return []model.Finding{finding(rule, model.SeverityError,
			fmt.Sprintf("grounding resistance %g ohms exceeds the %g ohm maximum for %s", resistance.Value, maxOhms, methodKey),
			model.EvidenceFromField(grounding.ResistanceValue, "grounding_resistance",
				fmt.Sprintf("%g ohms", resistance.Value), fmt.Sprintf("<= %g ohms", maxOhms)),
		)}
	case resistance.Value > in.Thresholds.GroundingBorderlineOhms:
		return []model.Finding{finding(rule, model.SeverityWarning,
			fmt.Sprintf("grounding resistance %g ohms is borderline (review threshold %g ohms, maximum %g ohms)",
				resistance.Value, in.Thresholds.GroundingBorderlineOhms, maxOhms),
			model.EvidenceFromField(grounding.ResistanceValue, "grounding_resistance",
				fmt.Sprintf("%g ohms", resistance.Value), fmt.Sprintf("<= %g ohms", in.Thresholds.GroundingBorderlineOhms)),
		)}
	}
	return []model.Finding{finding(rule, model.SeverityInfo,
		fmt.Sprintf("grounding resistance %g ohms within acceptable range (<= %g ohms)",
			resistance.Value, in.Thresholds.GroundingBorderlineOhms),
		model.EvidenceFromField(grounding.ResistanceValue, "grounding_resistance",
			fmt.Sprintf("%g ohms", resistance.Value), ""),
	)}
}
