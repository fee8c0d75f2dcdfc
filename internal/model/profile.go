package model

import "fmt"

// DateFormat is a client's declared date dialect. It is supplied per
// document and never inferred from content.
type DateFormat string

const (
	DateFormatISO      DateFormat = "ISO"        // YYYY-MM-DD, unambiguous
	DateFormatDDMMYYYY DateFormat = "DD/MM/YYYY" // Brazilian standard
	DateFormatMMDDYY   DateFormat = "MM/DD/YY"   // American 2-digit year
)

// ParseDateFormat validates a date-format string from config or flags
func ParseDateFormat(s string) (DateFormat, error) {
	switch DateFormat(s) {
	case DateFormatISO, DateFormatDDMMYYYY, DateFormatMMDDYY:
		return DateFormat(s), nil
	}
	return "", fmt.Errorf("unknown date format %q (supported: ISO, DD/MM/YYYY, MM/DD/YY)", s)
}

// ClientProfile carries the per-customer formatting conventions needed
// to normalize a document's raw fields
type ClientProfile struct {
	ClientID   string     `json:"client_id" yaml:"client_id"`
	DateFormat DateFormat `json:"date_format" yaml:"date_format"`
}
