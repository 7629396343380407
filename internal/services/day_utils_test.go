package services

import (
	"testing"
	"time"
)

func TestDayRangeNormalizesToLocationMidnight(t *testing.T) {
	location, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 2, 1, 22, 35, 10, 0, time.UTC)
	start, end := DayRange(raw, location)

	if start.Format("2006-01-02") != "2026-02-02" {
		t.Fatalf("expected local day 2026-02-02, got %s", start.Format("2006-01-02"))
	}
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("expected midnight start, got %s", start.Format(time.RFC3339))
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("expected next day end, got %s", end.Format(time.RFC3339))
	}
}

func TestDateAtLocationDefaultsToUTC(t *testing.T) {
	raw := time.Date(2026, 5, 3, 23, 59, 0, 0, time.UTC)
	if got := DateAtLocation(raw, nil); got.Location() != time.UTC || got.Day() != 3 {
		t.Fatalf("expected UTC midnight of May 3, got %s", got.Format(time.RFC3339))
	}
}
