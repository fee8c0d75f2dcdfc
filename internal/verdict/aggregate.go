// Package verdict derives the final tri-state status from the rule
// engine's findings and the advisory reasoning judgment.
//
// The precedence is structural, not conventional: only error-severity
// findings can reject, and the ReasoningJudgment type cannot carry a
// severity at all, so probabilistic reasoning can request review but
// can never cause or cancel a rejection.
package verdict

import "github.com/auditeng/verdict/internal/model"

// Aggregate computes the document status from the finding set and the
// optional reasoning judgment. It is a pure function of the severities
// present, independent of finding order, and therefore idempotent.
func Aggregate(findings []model.Finding, judgment *model.ReasoningJudgment) model.Status {
	hasError := false
	hasWarning := false
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityError:
			hasError = true
		case model.SeverityWarning:
			hasWarning = true
		}
	}

	switch {
	case hasError:
		return model.StatusRejected
	case hasWarning || judgment.HasUnresolvedFlags():
		return model.StatusReviewNeeded
	}
	return model.StatusApproved
}
