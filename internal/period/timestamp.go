package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingZone is returned when a timestamp string carries no UTC offset.
// Completion timestamps must be unambiguous; only legacy stored data may
// omit the offset (DecodeStored assumes UTC for those).
var ErrMissingZone = errors.New("timestamp must include a UTC offset")

// layouts accepted for stored timestamps that lack zone information.
// Data written before offsets were enforced used these forms.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an RFC 3339 timestamp supplied by a caller. Strings
// without an explicit offset are rejected with ErrMissingZone rather than
// silently localized.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if _, naiveErr := time.Parse(layout, s); naiveErr == nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMissingZone, s)
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
}

// EncodeStored renders a timestamp for persistence. Stored values always
// carry an offset.
func EncodeStored(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// DecodeStored parses a timestamp read back from storage. Values written by
// older versions of the schema have no offset; those are interpreted as UTC.
func DecodeStored(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, naiveErr := time.Parse(layout, s); naiveErr == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("decode stored timestamp %q: %w", s, err)
}
