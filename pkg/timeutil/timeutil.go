// Package timeutil provides timezone and calendar utilities for the Warsaw timezone.
// All residency programs tracked by the hub run in Poland, so date-of-record
// semantics (day boundaries, weeks, months) follow Europe/Warsaw local time.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// WarsawTZ is the Warsaw timezone. Poland observes DST, so the IANA zone is
// loaded when available; the CET fixed offset is the fallback for stripped
// environments without tzdata.
var WarsawTZ = loadWarsaw()

func loadWarsaw() *time.Location {
	loc, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

// Now returns the current time in Warsaw timezone.
func Now() time.Time {
	return time.Now().In(WarsawTZ)
}

// ToWarsaw converts a time to Warsaw timezone.
func ToWarsaw(t time.Time) time.Time {
	return t.In(WarsawTZ)
}

// Date creates a time in Warsaw timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, WarsawTZ)
}

// DateTime creates a time in Warsaw timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, WarsawTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Warsaw timezone.
func StartOfDay(t time.Time) time.Time {
	w := ToWarsaw(t)
	return time.Date(w.Year(), w.Month(), w.Day(), 0, 0, 0, 0, WarsawTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Warsaw timezone.
func EndOfDay(t time.Time) time.Time {
	w := ToWarsaw(t)
	return time.Date(w.Year(), w.Month(), w.Day(), 23, 59, 59, 999999999, WarsawTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in Warsaw timezone.
func StartOfWeek(t time.Time) time.Time {
	w := ToWarsaw(t)
	weekday := int(w.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return StartOfDay(w.AddDate(0, 0, -(weekday - 1)))
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in Warsaw timezone.
func EndOfWeek(t time.Time) time.Time {
	return EndOfDay(StartOfWeek(t).AddDate(0, 0, 6))
}

// StartOfMonth returns the start of the month in Warsaw timezone.
func StartOfMonth(t time.Time) time.Time {
	w := ToWarsaw(t)
	return time.Date(w.Year(), w.Month(), 1, 0, 0, 0, 0, WarsawTZ)
}

// EndOfMonth returns the end of the month in Warsaw timezone.
func EndOfMonth(t time.Time) time.Time {
	return EndOfDay(StartOfMonth(t).AddDate(0, 1, -1))
}

// MonthWindow returns the [start, end] boundaries of the given calendar month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, WarsawTZ)
	return start, EndOfDay(start.AddDate(0, 1, -1))
}

// SameDay checks if two times fall on the same Warsaw calendar day.
func SameDay(a, b time.Time) bool {
	wa, wb := ToWarsaw(a), ToWarsaw(b)
	return wa.Year() == wb.Year() && wa.Month() == wb.Month() && wa.Day() == wb.Day()
}

// IsWeekend checks if the given time is on a weekend.
func IsWeekend(t time.Time) bool {
	weekday := ToWarsaw(t).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsWorkday checks if the given time is on a workday (Mon-Fri).
func IsWorkday(t time.Time) bool {
	return !IsWeekend(t)
}

// DaysBetween returns the number of calendar days in [start, end], inclusive
// of both endpoints. Returns 0 when end is before start.
func DaysBetween(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	days := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// WorkingDaysBetween returns the number of weekdays in [start, end], inclusive
// of both endpoints. Saturdays and Sundays are excluded.
func WorkingDaysBetween(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	days := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d) {
			days++
		}
	}
	return days
}

// IsNightHour reports whether the hour component falls into the night window
// [22:00, 06:00) used for night-shift classification.
func IsNightHour(t time.Time) bool {
	hour := ToWarsaw(t).Hour()
	return hour >= 22 || hour < 6
}

// ISOWeekKey returns the ISO week identifier of a date, e.g. "2024-W07".
func ISOWeekKey(t time.Time) string {
	year, week := ToWarsaw(t).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthsBetween returns the number of whole months from start to end,
// rounded down. Returns 0 when end is before start.
func MonthsBetween(start, end time.Time) int {
	s := ToWarsaw(start)
	e := ToWarsaw(end)
	if e.Before(s) {
		return 0
	}
	months := (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month())
	if e.Day() < s.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatPolishDate is the Polish date format (DD.MM.YYYY).
	FormatPolishDate = "02.01.2006"
)

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Warsaw timezone.
func FormatDateStr(t time.Time) string {
	return ToWarsaw(t).Format(FormatDate)
}

// FormatPolish formats a time in Polish format (DD.MM.YYYY).
func FormatPolish(t time.Time) string {
	return ToWarsaw(t).Format(FormatPolishDate)
}
