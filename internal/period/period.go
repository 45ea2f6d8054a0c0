package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Periodicity is the cadence that defines what counts as one tracking period.
type Periodicity string

const (
	Daily  Periodicity = "daily"
	Weekly Periodicity = "weekly"
)

// ErrInvalidPeriodicity is returned when a string does not name a known periodicity.
var ErrInvalidPeriodicity = errors.New("invalid periodicity (use daily or weekly)")

// Normalize maps user input to a canonical Periodicity. Matching is
// case-insensitive and accepts the synonyms "day" and "week".
func Normalize(value string) (Periodicity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriodicity, value)
	}
}

// Key returns the canonical identifier of the period t falls into, computed
// in the observer's location. Daily keys are local calendar dates
// (YYYY-MM-DD); weekly keys are ISO-8601 week identifiers (YYYY-Www, weeks
// start Monday, week 1 contains the year's first Thursday). Two timestamps
// are in the same period iff their keys are equal.
func Key(t time.Time, p Periodicity, loc *time.Location) string {
	local := t.In(loc)
	if p == Weekly {
		year, week := local.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	}
	return local.Format("2006-01-02")
}

// Same reports whether a and b fall in the same period.
func Same(a, b time.Time, p Periodicity, loc *time.Location) bool {
	return Key(a, p, loc) == Key(b, p, loc)
}

// Next reports whether curr falls in the period immediately following prev's.
//
// Daily compares curr's local date against prev's local date advanced by one
// calendar day. Weekly advances prev by seven wall-clock days and compares
// ISO week identities, not day counts, so week-year boundaries (where week 1
// can contain days of the previous Gregorian year) resolve correctly.
func Next(prev, curr time.Time, p Periodicity, loc *time.Location) bool {
	prevLocal := prev.In(loc)
	currLocal := curr.In(loc)

	if p == Weekly {
		ny, nw := prevLocal.AddDate(0, 0, 7).ISOWeek()
		cy, cw := currLocal.ISOWeek()
		return cy == ny && cw == nw
	}

	next := prevLocal.AddDate(0, 0, 1)
	return currLocal.Format("2006-01-02") == next.Format("2006-01-02")
}

// IsDue reports whether a habit with the given last completion needs a
// completion in the current period. A habit with no completion yet is
// always due.
func IsDue(lastCompletedAt *time.Time, now time.Time, p Periodicity, loc *time.Location) bool {
	if lastCompletedAt == nil {
		return true
	}
	return Key(*lastCompletedAt, p, loc) != Key(now, p, loc)
}
