package model

import (
	"testing"
	"time"
)

func TestBuildHorizon(t *testing.T) {
	days, err := BuildHorizon("2026-03-02", "2026-03-08")
	if err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	if days[0].Weekday != time.Monday {
		t.Errorf("first day weekday = %v, want Monday", days[0].Weekday)
	}
	if !days[5].IsWeekend() || !days[6].IsWeekend() {
		t.Error("Saturday and Sunday should be weekend")
	}

	if _, err := BuildHorizon("2026-03-08", "2026-03-02"); err == nil {
		t.Error("expected error for end before start")
	}
	if _, err := BuildHorizon("03/02/2026", "2026-03-08"); err == nil {
		t.Error("expected error for bad date format")
	}
}

func TestParseCalendarDay(t *testing.T) {
	d, err := ParseCalendarDay("2026-03-03")
	if err != nil {
		t.Fatalf("ParseCalendarDay: %v", err)
	}
	if d.Weekday != time.Tuesday {
		t.Errorf("weekday = %v, want Tuesday", d.Weekday)
	}
	if _, err := ParseCalendarDay("not-a-date"); err == nil {
		t.Error("expected parse error")
	}
}

func TestGroupByISOWeek(t *testing.T) {
	// Wednesday through the following Tuesday spans two ISO weeks.
	days, err := BuildHorizon("2026-03-04", "2026-03-10")
	if err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	weeks := GroupByISOWeek(days)
	if len(weeks) != 2 {
		t.Fatalf("got %d weeks, want 2", len(weeks))
	}
	first := days[0].ISOWeek()
	if got := len(weeks[first]); got != 5 {
		t.Errorf("first week has %d days, want 5 (Wed-Sun)", got)
	}
}

func TestIsCompleteWorkWeek(t *testing.T) {
	full, _ := BuildHorizon("2026-03-02", "2026-03-06") // Mon-Fri
	if !IsCompleteWorkWeek(full) {
		t.Error("Mon-Fri should be a complete work week")
	}

	withWeekend, _ := BuildHorizon("2026-03-02", "2026-03-08")
	if !IsCompleteWorkWeek(withWeekend) {
		t.Error("a full calendar week should be a complete work week")
	}

	partial, _ := BuildHorizon("2026-03-04", "2026-03-06") // Wed-Fri
	if IsCompleteWorkWeek(partial) {
		t.Error("Wed-Fri should not be a complete work week")
	}
}

func TestWeekKeyString(t *testing.T) {
	d, _ := ParseCalendarDay("2026-03-02")
	if got := d.ISOWeek().String(); got != "2026-W10" {
		t.Errorf("week key = %q, want 2026-W10", got)
	}
}
