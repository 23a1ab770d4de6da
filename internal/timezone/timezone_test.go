package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	if loc == nil {
		t.Fatal("expected a location")
	}
	if Location("").String() != loc.String() {
		t.Fatal("empty and invalid zones should resolve to the same default")
	}
}

func TestMonthBounds(t *testing.T) {
	ref := time.Date(2026, 2, 17, 15, 30, 0, 0, time.UTC)
	start, end := MonthBounds(ref)

	if !start.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", start)
	}
	if !end.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %s", end)
	}
}

func TestParseDateTimeUsesZone(t *testing.T) {
	got, err := ParseDateTime("2026-03-10", "14:00", "UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 14 || got.Location() != time.UTC {
		t.Fatalf("unexpected time %s", got)
	}

	if _, err := ParseDate("10/03/2026", "UTC"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}
