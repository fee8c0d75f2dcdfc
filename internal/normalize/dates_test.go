package normalize

import (
	"testing"
	"time"

	"github.com/auditeng/verdict/internal/model"
)

func dateField(raw string) *model.ExtractedField {
	return &model.ExtractedField{Name: "expiration_date", RawValue: raw}
}

func profileWith(format model.DateFormat) model.ClientProfile {
	return model.ClientProfile{ClientID: "test", DateFormat: format}
}

func TestDate_ISO(t *testing.T) {
	val := Date(dateField("2026-03-04"), "expiration_date", profileWith(model.DateFormatISO))
	if !val.Valid() {
		t.Fatalf("Expected valid date, got error %v", val.Err)
	}
	want := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	if !val.Time.Equal(want) {
		t.Errorf("Expected %v, got %v", want, val.Time)
	}
}

func TestDate_DDMMYYYY(t *testing.T) {
	// 03/04/2024 under DD/MM/YYYY is April 3rd, not March 4th
	val := Date(dateField("03/04/2024"), "expiration_date", profileWith(model.DateFormatDDMMYYYY))
	if !val.Valid() {
		t.Fatalf("Expected valid date, got error %v", val.Err)
	}
	if val.Time.Month() != time.April || val.Time.Day() != 3 {
		t.Errorf("Expected April 3, got %v", val.Time)
	}
}

func TestDate_MMDDYY(t *testing.T) {
	// 03/04/24 under MM/DD/YY is March 4th 2024
	val := Date(dateField("03/04/24"), "expiration_date", profileWith(model.DateFormatMMDDYY))
	if !val.Valid() {
		t.Fatalf("Expected valid date, got error %v", val.Err)
	}
	if val.Time.Year() != 2024 || val.Time.Month() != time.March || val.Time.Day() != 4 {
		t.Errorf("Expected 2024-03-04, got %v", val.Time)
	}
}

func TestDate_FourDigitYearNotValidUnderTwoDigitDialect(t *testing.T) {
	// 03/04/2024 cannot be a MM/DD/YY date (there is no day 2024);
	// it must surface as a dialect disagreement, not be reparsed
	val := Date(dateField("03/04/2024"), "expiration_date", profileWith(model.DateFormatMMDDYY))
	if val.Valid() {
		t.Fatalf("Expected rejection under MM/DD/YY, got %v", val.Time)
	}
	if val.Err.Kind != KindAmbiguousDate {
		t.Errorf("Expected KindAmbiguousDate, got %v", val.Err.Kind)
	}
}

func TestDate_DeclaredDialectIsAuthoritative(t *testing.T) {
	// 25/12/2024 only makes sense as DD/MM/YYYY. Under a MM/DD/YY
	// profile it must not be silently reparsed: that is the ambiguity
	// the review queue exists for.
	val := Date(dateField("25/12/2024"), "expiration_date", profileWith(model.DateFormatMMDDYY))
	if val.Valid() {
		t.Fatal("Expected ambiguity error, got valid date")
	}
	if val.Err.Kind != KindAmbiguousDate {
		t.Errorf("Expected KindAmbiguousDate, got %v", val.Err.Kind)
	}
}

func TestDate_ISOUnderSlashProfile(t *testing.T) {
	// An ISO value on a DD/MM/YYYY profile is a dialect disagreement
	val := Date(dateField("2024-12-25"), "expiration_date", profileWith(model.DateFormatDDMMYYYY))
	if val.Valid() {
		t.Fatal("Expected ambiguity error, got valid date")
	}
	if val.Err.Kind != KindAmbiguousDate {
		t.Errorf("Expected KindAmbiguousDate, got %v", val.Err.Kind)
	}
}

func TestDate_NotADate(t *testing.T) {
	val := Date(dateField("next tuesday"), "expiration_date", profileWith(model.DateFormatISO))
	if val.Valid() {
		t.Fatal("Expected malformed error, got valid date")
	}
	if val.Err.Kind != KindMalformedValue {
		t.Errorf("Expected KindMalformedValue, got %v", val.Err.Kind)
	}
}

func TestDate_RejectsImpossibleCalendarDates(t *testing.T) {
	cases := []string{"2024-02-31", "2024-13-01", "2024-00-10"}
	for _, raw := range cases {
		val := Date(dateField(raw), "expiration_date", profileWith(model.DateFormatISO))
		if val.Valid() {
			t.Errorf("Expected %q to be rejected, got %v", raw, val.Time)
		}
	}
}

func TestDate_MissingField(t *testing.T) {
	val := Date(nil, "expiration_date", profileWith(model.DateFormatISO))
	if val.Valid() {
		t.Fatal("Expected error for nil field")
	}
	if val.Err.Kind != KindMalformedValue {
		t.Errorf("Expected KindMalformedValue, got %v", val.Err.Kind)
	}

	val = Date(dateField(""), "expiration_date", profileWith(model.DateFormatISO))
	if val.Valid() {
		t.Fatal("Expected error for empty field")
	}
}

func TestDate_TrimsWhitespace(t *testing.T) {
	val := Date(dateField("  2026-01-15 "), "expiration_date", profileWith(model.DateFormatISO))
	if !val.Valid() {
		t.Fatalf("Expected valid date, got error %v", val.Err)
	}
}

func TestDate_TwoDigitYearsAre2000s(t *testing.T) {
	val := Date(dateField("12/31/99"), "expiration_date", profileWith(model.DateFormatMMDDYY))
	if !val.Valid() {
		t.Fatalf("Expected valid date, got error %v", val.Err)
	}
	if val.Time.Year() != 2099 {
		t.Errorf("Expected year 2099, got %d", val.Time.Year())
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 8, 1, 0, 1, 0, 0, time.UTC)
	c := time.Date(2026, 8, 2, 0, 1, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("Expected same day for same calendar date")
	}
	if SameDay(a, c) {
		t.Error("Expected different days")
	}
}
