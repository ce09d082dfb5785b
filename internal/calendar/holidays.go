package calendar

import (
	"time"

	"tt-service/internal/models"
)

// DefaultHolidays lists the fixed non-working public holidays
// (Статья 112 ТК РФ). Pass an empty slice to disable holiday suppression.
var DefaultHolidays = []models.Holiday{
	{Month: 1, Day: 1, Name: "Новый год"},
	{Month: 1, Day: 2, Name: "Новогодние каникулы"},
	{Month: 1, Day: 3, Name: "Новогодние каникулы"},
	{Month: 1, Day: 4, Name: "Новогодние каникулы"},
	{Month: 1, Day: 5, Name: "Новогодние каникулы"},
	{Month: 1, Day: 6, Name: "Новогодние каникулы"},
	{Month: 1, Day: 7, Name: "Рождество Христово"},
	{Month: 1, Day: 8, Name: "Новогодние каникулы"},
	{Month: 2, Day: 23, Name: "День защитника Отечества"},
	{Month: 3, Day: 8, Name: "Международный женский день"},
	{Month: 5, Day: 1, Name: "Праздник Весны и Труда"},
	{Month: 5, Day: 9, Name: "День Победы"},
	{Month: 6, Day: 12, Name: "День России"},
	{Month: 11, Day: 4, Name: "День народного единства"},
}

// IsHoliday reports whether date falls on one of the given holidays.
func IsHoliday(date time.Time, holidays []models.Holiday) bool {
	month, day := int(date.Month()), date.Day()
	for _, h := range holidays {
		if h.Month == month && h.Day == day {
			return true
		}
	}
	return false
}
