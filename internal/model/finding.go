package model

import "time"

// Severity is the weight of a finding. It determines how the finding
// contributes to the overall validation status.
type Severity string

const (
	SeverityError   Severity = "error"   // Contributes REJECTED
	SeverityWarning Severity = "warning" // Contributes REVIEW_NEEDED
	SeverityInfo    Severity = "info"    // Logged only, never affects status
)

// Status is the tri-state verdict plus the two lifecycle states the
// history dashboard depends on. The string values are part of the API
// contract and must never change.
type Status string

const (
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
	StatusReviewNeeded Status = "REVIEW_NEEDED"
	StatusPending      Status = "PENDING"
	StatusFailed       Status = "FAILED"
)

// Evidence is the page/field pointer that justifies a non-approval
type Evidence struct {
	Page          *int         `json:"page"` // nil when no location could be resolved
	BBox          *BoundingBox `json:"bbox,omitempty"`
	FieldName     string       `json:"field_name"`
	FoundValue    string       `json:"found_value,omitempty"`
	ExpectedValue string       `json:"expected_value,omitempty"`
}

// Finding is one rule's evaluated outcome. Findings are immutable once
// emitted; the aggregator may suppress findings but never mutates one.
type Finding struct {
	RuleID   string    `json:"rule_id"`
	RuleName string    `json:"rule_name"`
	Status   Status    `json:"status"` // This finding's own status contribution
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Evidence *Evidence `json:"evidence,omitempty"`
}

// StatusForSeverity maps a finding severity to its status contribution
func StatusForSeverity(sev Severity) Status {
	switch sev {
	case SeverityError:
		return StatusRejected
	case SeverityWarning:
		return StatusReviewNeeded
	default:
		return StatusApproved
	}
}

// NewFinding builds a finding with its status derived from severity
func NewFinding(ruleID, ruleName string, sev Severity, message string, evidence *Evidence) Finding {
	return Finding{
		RuleID:   ruleID,
		RuleName: ruleName,
		Status:   StatusForSeverity(sev),
		Severity: sev,
		Message:  message,
		Evidence: evidence,
	}
}

// EvidenceFromField derives evidence from a field's own recorded location.
// Returns evidence with a nil page when the field carries no location.
func EvidenceFromField(field *ExtractedField, fieldName, found, expected string) *Evidence {
	ev := &Evidence{
		FieldName:     fieldName,
		FoundValue:    found,
		ExpectedValue: expected,
	}
	if field != nil && field.Location != nil {
		page := field.Location.Page
		ev.Page = &page
		bbox := field.Location.BBox
		ev.BBox = &bbox
	}
	return ev
}

// ValidationResult is the engine's final, serializable verdict for one
// document. Status is always recomputable from Findings alone.
type ValidationResult struct {
	DocumentID       string    `json:"document_id"`
	Status           Status    `json:"status"`
	Findings         []Finding `json:"findings"`
	ValidatedAt      time.Time `json:"validated_at"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
	RulesVersion     string    `json:"rules_version"`
}
