package resolve

import (
	"strings"

	"github.com/auditeng/verdict/internal/model"
)

// Source is one independent occurrence of an identity-bearing field
// (a serial number in the report header, on an instrument photo, on the
// calibration certificate)
type Source struct {
	Name  string // Where this value came from, e.g. "header", "photo", "certificate"
	Field *model.ExtractedField
}

// Mismatch records one pair of sources that disagree after normalization
type Mismatch struct {
	SourceA string
	SourceB string
	ValueA  string // Normalized values, so the disagreement is the real one
	ValueB  string
	FieldA  *model.ExtractedField
	FieldB  *model.ExtractedField
}

// ResolvedIdentity is the outcome of matching one logical identifier
// across its evidence sources
type ResolvedIdentity struct {
	Consistent bool
	Value      string // The agreed normalized value when Consistent
	Compared   int    // Sources that carried a usable value
	Missing    []string
	Mismatches []Mismatch
}

// Identity compares the same logical identifier across independent
// sources. Values are normalized (trim, casefold, separator strip) and
// compared pairwise. A missing source is reported separately from a
// mismatch: absence of proof is not proof of failure.
func Identity(sources []Source) ResolvedIdentity {
	resolved := ResolvedIdentity{Consistent: true}

	type present struct {
		source Source
		norm   string
	}
	var found []present

	for _, src := range sources {
		if !src.Field.Present() {
			resolved.Missing = append(resolved.Missing, src.Name)
			continue
		}
		found = append(found, present{source: src, norm: Normalize(src.Field.RawValue)})
	}
	resolved.Compared = len(found)

	for i := 0; i < len(found); i++ {
		for j := i + 1; j < len(found); j++ {
			if found[i].norm == found[j].norm {
				continue
			}
			resolved.Consistent = false
			resolved.Mismatches = append(resolved.Mismatches, Mismatch{
				SourceA: found[i].source.Name,
				SourceB: found[j].source.Name,
				ValueA:  found[i].norm,
				ValueB:  found[j].norm,
				FieldA:  found[i].source.Field,
				FieldB:  found[j].source.Field,
			})
		}
	}

	if resolved.Consistent && len(found) > 0 {
		resolved.Value = found[0].norm
	}
	return resolved
}

// Normalize canonicalizes an identifier for comparison: trim, uppercase,
// strip separator characters. Visually confusable characters (letter O
// vs zero) are deliberately NOT folded together - that confusion is
// exactly the copy-paste error this check exists to catch.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '\t', '-', '_', '.', '/', ':':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
