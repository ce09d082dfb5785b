package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tt-service/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday stays", date(2025, time.September, 1), date(2025, time.September, 1)},
		{"wednesday", date(2025, time.September, 3), date(2025, time.September, 1)},
		{"saturday", date(2025, time.September, 6), date(2025, time.September, 1)},
		{"sunday belongs to previous monday", date(2025, time.September, 7), date(2025, time.September, 1)},
		{"time of day stripped", time.Date(2025, time.September, 3, 18, 45, 12, 0, time.Local), date(2025, time.September, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Monday(tt.in))
		})
	}
}

func TestSemesterStart(t *testing.T) {
	tests := []struct {
		name   string
		period models.Period
		year   int
		want   time.Time
	}{
		{"fall is september 1", models.FallSemester, 2025, date(2025, time.September, 1)},
		{"spring 2025, feb 1 is saturday", models.SpringSemester, 2025, date(2025, time.February, 3)},
		{"spring 2026, feb 1 is sunday", models.SpringSemester, 2026, date(2026, time.February, 2)},
		{"spring 2027, feb 1 is monday", models.SpringSemester, 2027, date(2027, time.February, 1)},
		{"winter session follows fall", models.WinterSession, 2025, date(2025, time.September, 1)},
		{"summer session follows spring", models.SummerSession, 2025, date(2025, time.February, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SemesterStart(tt.period, tt.year))
		})
	}
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"first day of semester", date(2025, time.September, 1), 0},
		{"sunday of first week", date(2025, time.September, 7), 0},
		{"second monday", date(2025, time.September, 8), 1},
		{"mid semester", date(2025, time.October, 15), 6},
		{"before semester start", date(2025, time.August, 31), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekNumber(models.FallSemester, tt.in))
		})
	}
}

func TestSemesterWeeks(t *testing.T) {
	weeks := SemesterWeeks(models.FallSemester, 2025, DefaultWeekCount)

	require.Len(t, weeks, DefaultWeekCount+1)

	assert.Equal(t, 0, weeks[0].Week)
	assert.Equal(t, date(2025, time.September, 1), weeks[0].Start)
	assert.Equal(t, time.Date(2025, time.September, 7, 23, 59, 59, int(999*time.Millisecond), time.Local), weeks[0].End)

	assert.Equal(t, 1, weeks[1].Week)
	assert.Equal(t, date(2025, time.September, 8), weeks[1].Start)

	// Each week starts right after the previous one ends.
	for i := 1; i < len(weeks); i++ {
		assert.Equal(t, weeks[i-1].Start.AddDate(0, 0, 7), weeks[i].Start)
	}
}

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want models.Period
	}{
		{"december 24 is still fall", date(2025, time.December, 24), models.FallSemester},
		{"december 25 opens winter session", date(2025, time.December, 25), models.WinterSession},
		{"mid january", date(2026, time.January, 15), models.WinterSession},
		{"january 31", date(2026, time.January, 31), models.WinterSession},
		{"february 1 opens spring", date(2026, time.February, 1), models.SpringSemester},
		{"may 31", date(2026, time.May, 31), models.SpringSemester},
		{"june 1 opens summer session", date(2026, time.June, 1), models.SummerSession},
		{"august 31", date(2026, time.August, 31), models.SummerSession},
		{"september 1 opens fall", date(2026, time.September, 1), models.FallSemester},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentPeriod(tt.in))
		})
	}
}

func TestAdjacentSemester(t *testing.T) {
	assert.Equal(t, models.FallSemester, AdjacentSemester(models.WinterSession))
	assert.Equal(t, models.SpringSemester, AdjacentSemester(models.SummerSession))
	assert.Equal(t, models.FallSemester, AdjacentSemester(models.FallSemester))
	assert.Equal(t, models.SpringSemester, AdjacentSemester(models.SpringSemester))
}

func TestIsSessionPeriod(t *testing.T) {
	assert.True(t, IsSessionPeriod(models.WinterSession))
	assert.True(t, IsSessionPeriod(models.SummerSession))
	assert.False(t, IsSessionPeriod(models.FallSemester))
	assert.False(t, IsSessionPeriod(models.SpringSemester))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Воскресенье", WeekdayName(0))
	assert.Equal(t, "Понедельник", WeekdayName(1))
	assert.Equal(t, "Суббота", WeekdayName(6))
	assert.Equal(t, "", WeekdayName(7))
	assert.Equal(t, "", WeekdayName(-1))
}

func TestTimeSlots(t *testing.T) {
	higher := TimeSlots(models.HigherEducation)
	require.Len(t, higher, 8)
	assert.Equal(t, models.Time{Hours: 8, Minutes: 20}, higher[0].Start)
	assert.Equal(t, models.Time{Hours: 21, Minutes: 0}, higher[7].End)

	vocational := TimeSlots(models.VocationalEducation)
	require.Len(t, vocational, 7)
	assert.Equal(t, models.Time{Hours: 8, Minutes: 10}, vocational[0].Start)
	assert.Equal(t, models.Time{Hours: 20, Minutes: 25}, vocational[6].End)
}

func TestLessonNumber(t *testing.T) {
	tests := []struct {
		name string
		in   models.Time
		want int
	}{
		{"exact slot start", models.Time{Hours: 9, Minutes: 50}, 2},
		{"slightly off start", models.Time{Hours: 11, Minutes: 45}, 3},
		{"early morning snaps to first", models.Time{Hours: 7, Minutes: 0}, 1},
		{"late evening snaps to last", models.Time{Hours: 22, Minutes: 0}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LessonNumber(tt.in, models.HigherEducation))
		})
	}
}

func TestIsHoliday(t *testing.T) {
	assert.True(t, IsHoliday(date(2026, time.January, 1), DefaultHolidays))
	assert.True(t, IsHoliday(date(2026, time.May, 9), DefaultHolidays))
	assert.False(t, IsHoliday(date(2026, time.September, 2), DefaultHolidays))

	// An empty table disables suppression entirely.
	assert.False(t, IsHoliday(date(2026, time.January, 1), []models.Holiday{}))
}
