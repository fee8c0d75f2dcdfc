package verdict

import "github.com/auditeng/verdict/internal/model"

// Bind enforces the evidence policy over a finding set:
//
//   - warnings may carry evidence with a null page, or none at all;
//   - an error finding without evidence is never emitted as an
//     unverifiable rejection - it is replaced by a review finding
//     carrying a missing-evidence annotation.
//
// Findings are immutable, so a downgrade produces a new finding rather
// than mutating the original.
func Bind(findings []model.Finding) []model.Finding {
	bound := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Severity == model.SeverityError && f.Evidence == nil {
			bound = append(bound, model.NewFinding(
				f.RuleID,
				f.RuleName,
				model.SeverityWarning,
				f.Message+" [missing evidence - downgraded to review]",
				nil,
			))
			continue
		}
		bound = append(bound, f)
	}
	return bound
}
