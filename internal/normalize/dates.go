package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/auditeng/verdict/internal/model"
)

// Date string patterns for the three supported dialects
var (
	isoPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ddmmYYYYPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	mmddYYPattern   = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`)
)

// DateValue is a normalized calendar date, or the reason it isn't one
type DateValue struct {
	Field *model.ExtractedField
	Time  time.Time
	Err   *Error
}

// Valid reports whether a usable date was produced
func (v DateValue) Valid() bool {
	return v.Err == nil && !v.Time.IsZero()
}

// Date parses a raw date string under the client's declared dialect.
//
// The declared dialect is authoritative. A value that fails it but
// parses under one of the other known dialects is NOT silently
// reparsed: that situation means the document and the profile disagree
// about the calendar convention, and a guessed date could flip an
// expiry check. It comes back as KindAmbiguousDate for human review.
func Date(field *model.ExtractedField, fieldName string, profile model.ClientProfile) DateValue {
	if !field.Present() {
		return DateValue{Field: field, Err: &Error{
			Kind:   KindMalformedValue,
			Field:  fieldName,
			Detail: "value missing",
		}}
	}

	raw := strings.TrimSpace(field.RawValue)

	if t, ok := parseUnder(raw, profile.DateFormat); ok {
		return DateValue{Field: field, Time: t}
	}

	// Declared dialect failed; probe the other two to distinguish
	// "wrong dialect" from "not a date at all"
	for _, alt := range []model.DateFormat{model.DateFormatISO, model.DateFormatDDMMYYYY, model.DateFormatMMDDYY} {
		if alt == profile.DateFormat {
			continue
		}
		if _, ok := parseUnder(raw, alt); ok {
			return DateValue{Field: field, Err: &Error{
				Kind:   KindAmbiguousDate,
				Field:  fieldName,
				Raw:    raw,
				Detail: fmt.Sprintf("not a valid %s date but parses as %s", profile.DateFormat, alt),
			}}
		}
	}

	return DateValue{Field: field, Err: &Error{
		Kind:   KindMalformedValue,
		Field:  fieldName,
		Raw:    raw,
		Detail: fmt.Sprintf("not a valid %s date", profile.DateFormat),
	}}
}

// parseUnder parses raw strictly under one dialect, including calendar
// validity (Feb 31 fails)
func parseUnder(raw string, format model.DateFormat) (time.Time, bool) {
	switch format {
	case model.DateFormatISO:
		if !isoPattern.MatchString(raw) {
			return time.Time{}, false
		}
		parts := strings.Split(raw, "-")
		return calendarDate(parts[0], parts[1], parts[2])

	case model.DateFormatDDMMYYYY:
		if !ddmmYYYYPattern.MatchString(raw) {
			return time.Time{}, false
		}
		parts := strings.Split(raw, "/")
		return calendarDate(parts[2], parts[1], parts[0])

	case model.DateFormatMMDDYY:
		if !mmddYYPattern.MatchString(raw) {
			return time.Time{}, false
		}
		parts := strings.Split(raw, "/")
		// 2-digit years are 2000s (00-99 -> 2000-2099)
		return calendarDate("20"+parts[2], parts[0], parts[1])
	}
	return time.Time{}, false
}

// calendarDate builds a UTC date and rejects values time.Date would
// normalize away (month 13, Feb 31)
func calendarDate(ys, ms, ds string) (time.Time, bool) {
	year, err := strconv.Atoi(ys)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(ms)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(ds)
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// SameDay reports whether two timestamps fall on the same calendar day (UTC)
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
