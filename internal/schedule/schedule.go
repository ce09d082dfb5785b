// Package schedule turns per-period day records into concrete date-anchored
// lessons. It reconciles the two grid layouts the source publishes
// (weekday-recurring semester days and date-keyed session days) behind one
// query surface, applying subgroup, week-range and parity filters, holiday
// suppression, one-off substitutions and lesson transfers.
//
// Everything here is pure computation over resident data: queries never
// fetch, never fail, and resolve "not found" to empty results.
package schedule

import (
	"sort"
	"strings"
	"time"

	"tt-service/internal/calendar"
	"tt-service/internal/models"
)

// Filter narrows a query to one subgroup and/or one semester week.
// Subgroup 0 means no subgroup filter; a nil Week means no week filter
// (week 0 is a valid semester week).
type Filter struct {
	Subgroup int
	Week     *int
}

// Options configures a Schedule aggregate.
type Options struct {
	EducationType models.EducationType
	// Holidays overrides the default holiday table. Leave nil for the
	// default list; pass an empty non-nil slice to disable holiday
	// suppression.
	Holidays []models.Holiday
	// Period pins the active period. When nil, the current period is
	// recomputed from "now" on every access.
	Period *models.Period
	// Now supplies the clock for the convenience wrappers. Defaults to
	// time.Now.
	Now func() time.Time
}

// Schedule owns one day-record list per academic period for a single group.
// The per-period lists are immutable once populated; refreshing data means
// building a new aggregate, so concurrent queries always observe a whole
// snapshot.
type Schedule struct {
	groupID       int64
	days          map[models.Period][]models.FullScheduleDay
	educationType models.EducationType
	holidays      []models.Holiday
	period        *models.Period
	now           func() time.Time
}

// New builds an aggregate over the given per-period day records.
func New(groupID int64, days map[models.Period][]models.FullScheduleDay, opts Options) *Schedule {
	owned := make(map[models.Period][]models.FullScheduleDay, len(days))
	for period, list := range days {
		owned[period] = list
	}

	holidays := opts.Holidays
	if holidays == nil {
		holidays = calendar.DefaultHolidays
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	educationType := opts.EducationType
	if educationType == 0 {
		educationType = models.HigherEducation
	}

	return &Schedule{
		groupID:       groupID,
		days:          owned,
		educationType: educationType,
		holidays:      holidays,
		period:        opts.Period,
		now:           now,
	}
}

// GroupID returns the group this aggregate was built for.
func (s *Schedule) GroupID() int64 { return s.groupID }

// EducationType returns the configured education type.
func (s *Schedule) EducationType() models.EducationType { return s.educationType }

func (s *Schedule) activePeriod(asOf time.Time) models.Period {
	if s.period != nil {
		return *s.period
	}
	return calendar.CurrentPeriod(asOf)
}

// ActivePeriod returns the pinned period, or the period classified from the
// current clock when none is pinned.
func (s *Schedule) ActivePeriod() models.Period {
	return s.activePeriod(s.now())
}

// ForDay returns the lessons for one weekday (0=Sunday..6=Saturday) of the
// active period.
//
// For a session period every dated day whose weekday label matches is
// collected. For a semester the single recurring day record is filtered and
// materialized against a target date: the Monday of filter.Week plus the
// weekday offset when a week is given, otherwise the nearest real-world
// occurrence of that weekday.
func (s *Schedule) ForDay(weekday int, filter Filter) []models.Lesson {
	asOf := s.now()
	period := s.activePeriod(asOf)
	dayName := calendar.WeekdayName(weekday)

	var lessons []models.Lesson
	if calendar.IsSessionPeriod(period) {
		for _, day := range s.days[period] {
			if day.Kind != models.DayDated || !strings.EqualFold(day.Weekday, dayName) {
				continue
			}
			slots := filterSlots(day.Slots, Filter{Subgroup: filter.Subgroup})
			lessons = append(lessons, s.materializeSlots(slots, day.Date)...)
		}
		sortLessons(lessons)
		return lessons
	}

	day, ok := findRecurringDay(s.days[period], dayName)
	if !ok {
		return nil
	}

	slots := filterSlots(day.Slots, filter)
	date := s.dateForWeekday(weekday, period, filter.Week, asOf)
	lessons = s.materializeSlots(slots, date)
	sortLessons(lessons)
	return lessons
}

// ForDate returns the authoritative lesson set for one exact date: dated
// session days matching the date (wherever they were stored), plus the
// recurring semester day for its weekday when the date falls inside the
// semester's week range, minus lessons transferred away from this date.
func (s *Schedule) ForDate(date time.Time, subgroup int) []models.Lesson {
	if calendar.IsHoliday(date, s.holidays) {
		return nil
	}

	var lessons []models.Lesson

	// Dated session days are matched by exact date regardless of which
	// period key they were stored under; session grids are irregular.
	for _, days := range s.days {
		for _, day := range days {
			if day.Kind != models.DayDated || !sameDate(day.Date, date) {
				continue
			}
			slots := filterSlots(day.Slots, Filter{Subgroup: subgroup})
			lessons = append(lessons, s.materializeSlots(slots, date)...)
		}
	}

	semester := calendar.AdjacentSemester(s.activePeriod(date))
	week := calendar.WeekNumber(semester, date)
	if week >= 0 && week <= calendar.DefaultWeekCount {
		dayName := calendar.WeekdayName(int(date.Weekday()))
		if day, ok := findRecurringDay(s.days[semester], dayName); ok {
			slots := filterSlots(day.Slots, Filter{Subgroup: subgroup, Week: &week})
			lessons = append(lessons, s.materializeSlots(slots, date)...)
		}
	}

	lessons = suppressTransferred(lessons, s.collectTransfers(), date)
	sortLessons(lessons)
	return lessons
}

// ForWeek unions ForDate over the seven days of the target week. With an
// explicit week and a semester as the active period the target is that
// semester week; otherwise it is the current real-world week.
func (s *Schedule) ForWeek(week *int, subgroup int) []models.Lesson {
	asOf := s.now()
	period := s.activePeriod(asOf)

	var monday time.Time
	if week != nil && !calendar.IsSessionPeriod(period) {
		start := calendar.Monday(calendar.SemesterStart(period, asOf.Year()))
		monday = start.AddDate(0, 0, *week*7)
	} else {
		monday = calendar.Monday(asOf)
	}

	var lessons []models.Lesson
	for i := 0; i < 7; i++ {
		lessons = append(lessons, s.ForDate(monday.AddDate(0, 0, i), subgroup)...)
	}
	sortLessons(lessons)
	return lessons
}

// Today returns the lessons for the current date.
func (s *Schedule) Today(subgroup int) []models.Lesson {
	return s.ForDate(s.now(), subgroup)
}

// Tomorrow returns the lessons for the next date.
func (s *Schedule) Tomorrow(subgroup int) []models.Lesson {
	return s.ForDate(s.now().AddDate(0, 0, 1), subgroup)
}

// ThisWeek returns the lessons for the current real-world week.
func (s *Schedule) ThisWeek(subgroup int) []models.Lesson {
	return s.ForWeek(nil, subgroup)
}

// CurrentLesson returns the first of today's lessons whose time interval
// contains the current minute, end minute inclusive, or nil when no lesson
// is in progress.
func (s *Schedule) CurrentLesson(subgroup int) *models.Lesson {
	now := s.now()
	minute := now.Hour()*60 + now.Minute()

	for _, lesson := range s.ForDate(now, subgroup) {
		start := lesson.Start.Hours*60 + lesson.Start.Minutes
		end := lesson.End.Hours*60 + lesson.End.Minutes
		if minute >= start && minute <= end {
			found := lesson
			return &found
		}
	}
	return nil
}

// WeekNumber returns the 0-based semester week of date, or of the current
// date when date is the zero time.
func (s *Schedule) WeekNumber(date time.Time) int {
	if date.IsZero() {
		date = s.now()
	}
	return calendar.WeekNumber(s.activePeriod(date), date)
}

// SemesterWeeks returns the week table of the active period. weekCount 0
// means the default semester length.
func (s *Schedule) SemesterWeeks(weekCount int) []models.SemesterWeek {
	if weekCount == 0 {
		weekCount = calendar.DefaultWeekCount
	}
	asOf := s.now()
	return calendar.SemesterWeeks(s.activePeriod(asOf), asOf.Year(), weekCount)
}

// SemesterStart returns the start date of the active period's semester.
func (s *Schedule) SemesterStart() time.Time {
	asOf := s.now()
	return calendar.SemesterStart(s.activePeriod(asOf), asOf.Year())
}

// dateForWeekday resolves the concrete date a recurring weekday maps to:
// the weekday inside the given semester week, or the occurrence closest to
// asOf when no week is given.
func (s *Schedule) dateForWeekday(weekday int, period models.Period, week *int, asOf time.Time) time.Time {
	if week != nil {
		start := calendar.Monday(calendar.SemesterStart(period, asOf.Year()))
		offset := weekday - 1
		if weekday == 0 {
			offset = 6
		}
		return start.AddDate(0, 0, *week*7+offset)
	}
	diff := weekday - int(asOf.Weekday())
	d := asOf.AddDate(0, 0, diff)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// --- filtering ---

func matchesFilter(entry models.ScheduleEntry, filter Filter) bool {
	if filter.Subgroup > 0 && entry.Subgroup > 0 && entry.Subgroup != filter.Subgroup {
		return false
	}
	if filter.Week != nil {
		if !entry.Weeks.Contains(*filter.Week) {
			return false
		}
		if entry.WeekParity != "" && !entry.WeekParity.Matches(*filter.Week) {
			return false
		}
	}
	return true
}

// filterSlots returns new slot records holding only the entries the filter
// keeps; slots left empty are dropped. Input slices are never mutated.
func filterSlots(slots []models.FullScheduleSlot, filter Filter) []models.FullScheduleSlot {
	if filter.Subgroup == 0 && filter.Week == nil {
		return slots
	}

	filtered := make([]models.FullScheduleSlot, 0, len(slots))
	for _, slot := range slots {
		entries := make([]models.ScheduleEntry, 0, len(slot.Entries))
		for _, entry := range slot.Entries {
			if matchesFilter(entry, filter) {
				entries = append(entries, entry)
			}
		}
		if len(entries) == 0 {
			continue
		}
		slot.Entries = entries
		filtered = append(filtered, slot)
	}
	return filtered
}

// --- materialization ---

func lessonTime(date time.Time, t models.Time) models.LessonTime {
	return models.LessonTime{
		Date:    time.Date(date.Year(), date.Month(), date.Day(), t.Hours, t.Minutes, 0, 0, date.Location()),
		Hours:   t.Hours,
		Minutes: t.Minutes,
	}
}

func (s *Schedule) materializeSlots(slots []models.FullScheduleSlot, date time.Time) []models.Lesson {
	var lessons []models.Lesson
	for _, slot := range slots {
		for _, entry := range slot.Entries {
			lessons = append(lessons, materializeEntry(slot, entry, date))
		}
	}
	return lessons
}

func materializeEntry(slot models.FullScheduleSlot, entry models.ScheduleEntry, date time.Time) models.Lesson {
	lesson := models.Lesson{
		Number:          slot.Number,
		Start:           lessonTime(date, slot.TimeStart),
		End:             lessonTime(date, slot.TimeEnd),
		Subject:         entry.Subject,
		Type:            entry.Type,
		Room:            entry.Room,
		Teacher:         entry.Teacher,
		Weeks:           entry.Weeks,
		Subgroup:        entry.Subgroup,
		WeekParity:      entry.WeekParity,
		Transfer:        entry.Transfer,
		PossibleChanges: entry.PossibleChanges,
	}

	for _, sub := range entry.Substitutions {
		if !sameDate(sub.Date, date) {
			continue
		}
		if sub.Room != "" {
			lesson.OriginalRoom = entry.Room
			lesson.Room = sub.Room
		}
		if sub.Teacher != nil {
			original := entry.Teacher
			lesson.OriginalTeacher = &original
			lesson.Teacher = *sub.Teacher
		}
		break
	}

	return lesson
}

// --- transfers ---

// collectTransfers gathers transfer records from every period's day list;
// a transfer may be declared on the relocated (dated) entry while the
// phantom occurrence it suppresses sits in the recurring grid.
func (s *Schedule) collectTransfers() []models.TransferInfo {
	var transfers []models.TransferInfo
	for _, days := range s.days {
		for _, day := range days {
			for _, slot := range day.Slots {
				for _, entry := range slot.Entries {
					if entry.Transfer != nil {
						transfers = append(transfers, *entry.Transfer)
					}
				}
			}
		}
	}
	return transfers
}

// suppressTransferred drops lessons whose origin (date, slot, subject)
// matches a transfer record: they occur at the transfer target instead.
func suppressTransferred(lessons []models.Lesson, transfers []models.TransferInfo, date time.Time) []models.Lesson {
	if len(transfers) == 0 {
		return lessons
	}

	kept := lessons[:0]
	for _, lesson := range lessons {
		moved := false
		for _, t := range transfers {
			if sameDate(t.FromDate, date) && t.FromSlot == lesson.Number && t.Subject == lesson.Subject {
				moved = true
				break
			}
		}
		if !moved {
			kept = append(kept, lesson)
		}
	}
	return kept
}

// --- helpers ---

func findRecurringDay(days []models.FullScheduleDay, dayName string) (models.FullScheduleDay, bool) {
	for _, day := range days {
		if day.Kind == models.DayRecurring && strings.EqualFold(day.Weekday, dayName) {
			return day, true
		}
	}
	return models.FullScheduleDay{}, false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sortLessons(lessons []models.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Start.Date.Before(lessons[j].Start.Date)
	})
}
