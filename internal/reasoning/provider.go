// Package reasoning is the client for the external reasoning service.
// Its output is advisory by construction: a judgment carries narrative
// and review flags only, so nothing produced here can reject a
// document or override a deterministic finding. The validation engine
// never calls this package - only the hosting layer does, with a
// timeout, degrading to a rules-only verdict when the service is
// unavailable.
package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/auditeng/verdict/internal/model"
)

// Provider is one reasoning backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Judge reviews a document's extraction output and returns an
	// advisory judgment
	Judge(ctx context.Context, req JudgeRequest) (*model.ReasoningJudgment, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// JudgeRequest is the input handed to the reasoning service
type JudgeRequest struct {
	Extraction *model.ExtractionResult

	// Prompt overrides the default prompt when non-empty
	Prompt string
}

// BuildPrompt constructs the default judgment prompt. The contract is
// spelled out to the model: flags request review, nothing more.
func BuildPrompt(extraction *model.ExtractionResult) string {
	var b strings.Builder

	b.WriteString(`You are reviewing structured data extracted from an electrical commissioning report.

RULES:
1. You CANNOT approve or reject the report. Deterministic rules decide that.
2. You may only raise review flags for things a human reviewer should look at:
   inconsistencies, implausible values, signs of tampering or sloppy reporting.
3. Respond with a single JSON object:
   {"narrative": "...", "flags": [{"code": "short_tag", "detail": "..."}]}
4. An empty "flags" array is a perfectly good answer.

`)
	fmt.Fprintf(&b, "Document: %s (%s test, %d pages, extraction status %s)\n",
		extraction.DocumentID, extraction.TestType, extraction.PageCount, extraction.Status)
	fmt.Fprintf(&b, "Calibration certificates: %d\n", len(extraction.Calibrations))
	fmt.Fprintf(&b, "Measurements: %d\n", len(extraction.Measurements))

	for _, cal := range extraction.Calibrations {
		fmt.Fprintf(&b, "- calibration %s: serial=%s expiration=%s lab=%s\n",
			cal.InstrumentType, rawOrDash(cal.SerialNumber), rawOrDash(cal.ExpirationDate), rawOrDash(cal.CalibratingLab))
	}
	for _, m := range extraction.Measurements {
		fmt.Fprintf(&b, "- measurement %s: %s %s\n", m.LocationLabel, rawOrDash(m.Value), m.Unit)
	}
	return b.String()
}

func rawOrDash(field *model.ExtractedField) string {
	if !field.Present() {
		return "-"
	}
	return field.RawValue
}
