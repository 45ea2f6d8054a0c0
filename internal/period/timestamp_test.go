package period

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestampWithOffset(t *testing.T) {
	got, err := ParseTimestamp("2026-01-02T10:00:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 1, 2, 10, 0, 0, 0, time.FixedZone("", 2*3600))
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseTimestamp("2026-01-02T10:00:00Z"); err != nil {
		t.Errorf("Z suffix should parse: %v", err)
	}
}

func TestParseTimestampRejectsMissingZone(t *testing.T) {
	for _, s := range []string{
		"2026-01-02T10:00:00",
		"2026-01-02 10:00:00",
		"2026-01-02",
	} {
		if _, err := ParseTimestamp(s); !errors.Is(err, ErrMissingZone) {
			t.Errorf("ParseTimestamp(%q): error = %v, want ErrMissingZone", s, err)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("not-a-time")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMissingZone) {
		t.Error("garbage input should not be reported as a missing zone")
	}
}

func TestStoredRoundTrip(t *testing.T) {
	orig := time.Date(2026, 1, 2, 10, 30, 0, 0, time.FixedZone("", -5*3600))
	got, err := DecodeStored(EncodeStored(orig))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("round trip changed instant: got %v, want %v", got, orig)
	}
}

func TestDecodeStoredLegacyNaiveAssumesUTC(t *testing.T) {
	got, err := DecodeStored("2024-06-15T09:30:00")
	if err != nil {
		t.Fatalf("decode legacy value: %v", err)
	}
	want := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = DecodeStored("2024-06-15")
	if err != nil {
		t.Fatalf("decode legacy date: %v", err)
	}
	want = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
