// Package calendar holds the pure date math behind schedule resolution:
// semester boundaries, 0-based week numbering, weekday naming and the
// month/day heuristic that classifies a date into an academic period.
// Every function takes its reference date explicitly, nothing in this
// package reads the system clock.
package calendar

import (
	"time"

	"tt-service/internal/models"
)

var weekdayNames = [7]string{
	"Воскресенье",
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
}

// WeekdayName returns the localized day name for 0=Sunday..6=Saturday.
// It is used both to label days and to match scraped weekday headers
// case-insensitively.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return weekdayNames[weekday]
}

// Monday returns the Monday of the week containing date, at 00:00:00.
// Sunday belongs to the week that started the previous Monday.
func Monday(date time.Time) time.Time {
	diff := 0
	switch wd := date.Weekday(); wd {
	case time.Sunday:
		diff = -6
	default:
		diff = int(time.Monday - wd)
	}
	d := date.AddDate(0, 0, diff)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// SemesterStart returns the start date of a semester in the given year.
// Fall starts September 1; spring starts on the first Monday on or after
// February 1. Session periods start with their adjacent semester.
func SemesterStart(period models.Period, year int) time.Time {
	switch period {
	case models.FallSemester:
		return time.Date(year, time.September, 1, 0, 0, 0, 0, time.Local)
	case models.WinterSession, models.SummerSession:
		return SemesterStart(AdjacentSemester(period), year)
	}

	feb1 := time.Date(year, time.February, 1, 0, 0, 0, 0, time.Local)
	daysToAdd := 0
	switch wd := feb1.Weekday(); wd {
	case time.Monday:
		daysToAdd = 0
	case time.Sunday:
		daysToAdd = 1
	default:
		daysToAdd = 8 - int(wd)
	}
	return feb1.AddDate(0, 0, daysToAdd)
}

// DefaultWeekCount is the nominal length of a teaching semester in weeks.
const DefaultWeekCount = 17

// SemesterWeeks returns weekCount+1 consecutive weeks starting at the
// Monday of the semester start, each spanning Monday 00:00 to Sunday
// 23:59:59.999.
func SemesterWeeks(period models.Period, year, weekCount int) []models.SemesterWeek {
	startMonday := Monday(SemesterStart(period, year))

	weeks := make([]models.SemesterWeek, 0, weekCount+1)
	for i := 0; i <= weekCount; i++ {
		start := startMonday.AddDate(0, 0, i*7)
		endDay := start.AddDate(0, 0, 6)
		end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(),
			23, 59, 59, int(999*time.Millisecond), endDay.Location())
		weeks = append(weeks, models.SemesterWeek{Week: i, Start: start, End: end})
	}
	return weeks
}

// WeekNumber returns the 0-based count of whole weeks between the Monday of
// the semester start (taken in the target date's year) and the Monday of
// date. Negative values and values above the semester length are valid and
// mean the date is outside the normal semester range.
func WeekNumber(period models.Period, date time.Time) int {
	startMonday := Monday(SemesterStart(period, date.Year()))
	targetMonday := Monday(date)

	diff := targetMonday.Sub(startMonday)
	week := int(diff / (7 * 24 * time.Hour))
	if diff < 0 && diff%(7*24*time.Hour) != 0 {
		week--
	}
	return week
}

// CurrentPeriod classifies a date into an academic period by fixed
// month/day thresholds:
//
//	Dec 25 – Jan 31  winter session
//	Feb 1 – May 31   spring semester
//	Jun 1 – Aug 31   summer session
//	Sep 1 – Dec 24   fall semester
//
// Callers holding an explicit period from the remote source should prefer
// it over this heuristic.
func CurrentPeriod(date time.Time) models.Period {
	month, day := date.Month(), date.Day()
	switch {
	case month == time.January || (month == time.December && day >= 25):
		return models.WinterSession
	case month >= time.February && month <= time.May:
		return models.SpringSemester
	case month >= time.June && month <= time.August:
		return models.SummerSession
	}
	return models.FallSemester
}

// IsSessionPeriod reports whether the period publishes a date-keyed grid.
func IsSessionPeriod(period models.Period) bool {
	return period == models.WinterSession || period == models.SummerSession
}

// AdjacentSemester maps a session to the semester that logically precedes
// it: winter session to fall, summer session to spring. Semesters map to
// themselves.
func AdjacentSemester(period models.Period) models.Period {
	switch period {
	case models.WinterSession:
		return models.FallSemester
	case models.SummerSession:
		return models.SpringSemester
	}
	return period
}
