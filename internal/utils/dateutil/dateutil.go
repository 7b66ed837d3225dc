// Package dateutil owns every piece of report-day arithmetic. All other
// packages treat the day key as opaque: the 00:00:00.000 UTC instant of the
// calendar day as read in UTC.
package dateutil

import (
	"fmt"
	"time"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
)

// dayLayouts are the accepted textual date representations, tried in order.
var dayLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDay collapses any instant to the canonical key of its UTC calendar
// day. It is idempotent: normalizing an already-normalized value returns an
// equal value. Two instants that fall on the same UTC date normalize to the
// same key regardless of time-of-day or zone offset.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// PrevDay returns the canonical key of the calendar day before day.
// day must already be a canonical day key.
func PrevDay(day time.Time) time.Time {
	return day.AddDate(0, 0, -1)
}

// NextDay returns the canonical key of the calendar day after day, i.e. the
// exclusive upper bound of the half-open interval [day, NextDay(day)).
func NextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// ParseDay parses a date or datetime string and returns the canonical day
// key. Plain dates are read as UTC midnight; datetimes are converted to UTC
// first, so "2024-03-01T23:00:00Z" and "2024-03-01T00:01:00Z" yield the same
// key. Unparsable input returns apperrors.ErrInvalidDate.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", apperrors.ErrInvalidDate)
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, s)
}

// FormatDay renders a day key as its date-only form, used in filenames and
// route parameters.
func FormatDay(day time.Time) string {
	return day.UTC().Format("2006-01-02")
}
