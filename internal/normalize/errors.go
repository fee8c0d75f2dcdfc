package normalize

import "fmt"

// ErrorKind classifies why a raw value could not be normalized
type ErrorKind string

const (
	// KindAmbiguousDate means the value failed the client's declared date
	// dialect but parses under another known dialect. Guessing here would
	// silently change the date, so the caller must surface it for review.
	KindAmbiguousDate ErrorKind = "ambiguous_date"

	// KindMalformedValue means the value cannot be interpreted at all
	KindMalformedValue ErrorKind = "malformed_value"
)

// Error is a recoverable per-field normalization failure. It never
// aborts document validation; rules convert it into a review finding.
type Error struct {
	Kind   ErrorKind
	Field  string // Field name, for evidence
	Raw    string // The offending raw value
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: field %q value %q: %s", e.Kind, e.Field, e.Raw, e.Detail)
}
