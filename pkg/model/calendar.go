package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date format used throughout the scheduler.
const DateLayout = "2006-01-02"

// HalfDayPeriod partitions a calendar day into its two scheduling quanta.
type HalfDayPeriod string

const (
	Morning   HalfDayPeriod = "morning"
	Afternoon HalfDayPeriod = "afternoon"
)

// Periods returns both half-day periods in chronological order.
func Periods() []HalfDayPeriod {
	return []HalfDayPeriod{Morning, Afternoon}
}

// CalendarDay is a single date within the planning horizon.
type CalendarDay struct {
	Date    string       `json:"date"` // YYYY-MM-DD
	Weekday time.Weekday `json:"weekday"`
}

// NewCalendarDay creates a calendar day from a time value.
func NewCalendarDay(t time.Time) CalendarDay {
	return CalendarDay{Date: t.Format(DateLayout), Weekday: t.Weekday()}
}

// ParseCalendarDay creates a calendar day from a YYYY-MM-DD string.
func ParseCalendarDay(date string) (CalendarDay, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return CalendarDay{}, fmt.Errorf("parse calendar day %q: %w", date, err)
	}
	return NewCalendarDay(t), nil
}

// Time returns the day as a time value at midnight UTC.
func (d CalendarDay) Time() time.Time {
	t, _ := time.Parse(DateLayout, d.Date)
	return t
}

// IsWeekend reports whether the day falls on Saturday or Sunday.
func (d CalendarDay) IsWeekend() bool {
	return d.Weekday == time.Saturday || d.Weekday == time.Sunday
}

// ISOWeek identifies the ISO-8601 week the day belongs to.
func (d CalendarDay) ISOWeek() WeekKey {
	year, week := d.Time().ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// WeekKey identifies an ISO-8601 week.
type WeekKey struct {
	Year int
	Week int
}

// String formats the week key as e.g. "2026-W09".
func (w WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// BuildHorizon returns the ordered, inclusive list of calendar days between
// start and end.
func BuildHorizon(start, end string) ([]CalendarDay, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse horizon start %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse horizon end %q: %w", end, err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("horizon end %s before start %s", end, start)
	}

	var days []CalendarDay
	for t := s; !t.After(e); t = t.AddDate(0, 0, 1) {
		days = append(days, NewCalendarDay(t))
	}
	return days, nil
}

// GroupByISOWeek partitions horizon days into ISO weeks, preserving day order
// within each week.
func GroupByISOWeek(days []CalendarDay) map[WeekKey][]CalendarDay {
	weeks := make(map[WeekKey][]CalendarDay)
	for _, d := range days {
		key := d.ISOWeek()
		weeks[key] = append(weeks[key], d)
	}
	return weeks
}

// IsCompleteWorkWeek reports whether the given week days include all five
// weekdays Monday through Friday. Weekly floors only bind on complete weeks so
// a horizon starting midweek does not produce an artificially infeasible week.
func IsCompleteWorkWeek(days []CalendarDay) bool {
	seen := make(map[time.Weekday]bool, 5)
	for _, d := range days {
		if !d.IsWeekend() {
			seen[d.Weekday] = true
		}
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		if !seen[wd] {
			return false
		}
	}
	return true
}
