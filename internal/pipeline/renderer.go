package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/auditeng/verdict/internal/model"
)

// Renderer writes validation results as JSON and Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON
func (r *Renderer) RenderJSON(result *model.ValidationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(result *model.ValidationResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report: %s\n\n", result.DocumentID)
	fmt.Fprintf(&b, "**Status:** %s\n\n", result.Status)
	fmt.Fprintf(&b, "- Validated at: %s\n", result.ValidatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Rules version: %s\n", result.RulesVersion)
	fmt.Fprintf(&b, "- Processing time: %d ms\n\n", result.ProcessingTimeMS)

	if len(result.Findings) == 0 {
		b.WriteString("No findings.\n")
	} else {
		b.WriteString("## Findings\n\n")
		b.WriteString("| Severity | Rule | Message | Evidence |\n")
		b.WriteString("|----------|------|---------|----------|\n")
		for _, f := range result.Findings {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				f.Severity, f.RuleID, escapeCell(f.Message), escapeCell(evidenceCell(f.Evidence)))
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Generated by verdict - deterministic rules decide, reasoning only advises.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short verdict summary to stdout
func (r *Renderer) RenderSummary(result *model.ValidationResult) {
	errors, warnings, infos := 0, 0, 0
	for _, f := range result.Findings {
		switch f.Severity {
		case model.SeverityError:
			errors++
		case model.SeverityWarning:
			warnings++
		default:
			infos++
		}
	}

	fmt.Printf("\nDocument: %s\n", result.DocumentID)
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Findings: %d error(s), %d warning(s), %d info\n", errors, warnings, infos)

	for _, f := range result.Findings {
		if f.Severity == model.SeverityInfo {
			continue
		}
		loc := "no location"
		if f.Evidence != nil && f.Evidence.Page != nil {
			loc = fmt.Sprintf("page %d", *f.Evidence.Page+1)
		}
		fmt.Printf("  [%s] %s: %s (%s)\n", f.Severity, f.RuleID, f.Message, loc)
	}
}

// evidenceCell formats evidence for the Markdown table
func evidenceCell(ev *model.Evidence) string {
	if ev == nil {
		return "-"
	}
	parts := []string{}
	if ev.Page != nil {
		parts = append(parts, fmt.Sprintf("page %d", *ev.Page+1))
	}
	if ev.FieldName != "" {
		parts = append(parts, "field "+ev.FieldName)
	}
	if ev.FoundValue != "" {
		parts = append(parts, "found "+ev.FoundValue)
	}
	if ev.ExpectedValue != "" {
		parts = append(parts, "expected "+ev.ExpectedValue)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// escapeCell keeps pipes from breaking the table
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
