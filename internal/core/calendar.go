package core

import (
	"fmt"
	"time"
)

var czechMonths = [12]string{
	"leden", "únor", "březen", "duben", "květen", "červen",
	"červenec", "srpen", "září", "říjen", "listopad", "prosinec",
}

var czechMonthsShort = [12]string{
	"led", "úno", "bře", "dub", "kvě", "čvn",
	"čvc", "srp", "zář", "říj", "lis", "pro",
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// WeekBounds returns Sunday 00:00 through Saturday end-of-day of t's week.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	return start, EndOfDay(start.AddDate(0, 0, 6))
}

// MonthBounds returns the first day 00:00 through the last day end-of-day of t's month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, EndOfDay(start.AddDate(0, 1, -1))
}

// FormatCzechDate renders t as "17. 10. 2026".
func FormatCzechDate(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d", t.Day(), int(t.Month()), t.Year())
}

// CzechMonthName returns the nominative month name, e.g. "říjen".
func CzechMonthName(m time.Month) string {
	return czechMonths[m-1]
}

// FormatCzechMonthYear renders t as "říj 2026".
func FormatCzechMonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", czechMonthsShort[t.Month()-1], t.Year())
}
