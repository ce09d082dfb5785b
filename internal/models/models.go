package models

import "time"

// Period is one of the four phases of the academic year. Winter and summer
// sessions publish date-keyed exam grids; the two semesters publish
// weekday-recurring grids.
type Period int

const (
	FallSemester Period = iota + 1
	WinterSession
	SpringSemester
	SummerSession
)

func (p Period) String() string {
	switch p {
	case FallSemester:
		return "fall_semester"
	case WinterSession:
		return "winter_session"
	case SpringSemester:
		return "spring_semester"
	case SummerSession:
		return "summer_session"
	}
	return "unknown"
}

// EducationType selects which fixed lesson-time-slot table applies.
type EducationType int

const (
	HigherEducation EducationType = iota + 1
	VocationalEducation
)

// Time is an institution-local wall-clock time of day.
type Time struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// MinuteOfDay returns the minute-of-day value.
func (t Time) MinuteOfDay() int {
	return t.Hours*60 + t.Minutes
}

// WeekRange is an inclusive 1-based validity window for an entry.
// From == 0 means the entry is valid every week.
type WeekRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Unrestricted reports whether the range imposes no week restriction.
func (w WeekRange) Unrestricted() bool {
	return w.From == 0
}

// Contains reports whether the week falls inside the range. An unrestricted
// range contains every week.
func (w WeekRange) Contains(week int) bool {
	return w.Unrestricted() || (week >= w.From && week <= w.To)
}

// WeekParity restricts an entry to odd or even weeks.
type WeekParity string

const (
	ParityOdd  WeekParity = "odd"
	ParityEven WeekParity = "even"
)

// Matches reports whether the given week satisfies the parity rule.
func (p WeekParity) Matches(week int) bool {
	switch p {
	case ParityEven:
		return week%2 == 0
	case ParityOdd:
		return week%2 != 0
	}
	return true
}

// Teacher is an instructor name with the academic title and degree prefixes
// split off the raw string.
type Teacher struct {
	Position string `json:"position,omitempty"`
	Degree   string `json:"degree,omitempty"`
	Name     string `json:"name"`
}

// Substitution is a one-off room and/or teacher override for a single date.
type Substitution struct {
	Date    time.Time `json:"date"`
	Room    string    `json:"room,omitempty"`
	Teacher *Teacher  `json:"teacher,omitempty"`
}

// TransferInfo declares that the subject normally held at (FromDate,
// FromSlot) takes place at TargetDate instead. The recurring occurrence at
// the origin must not be materialized.
type TransferInfo struct {
	TargetDate time.Time `json:"target_date"`
	FromDate   time.Time `json:"from_date"`
	FromSlot   int       `json:"from_slot"`
	Subject    string    `json:"subject"`
}

// ScheduleEntry is one subject occurrence within a slot. Several entries in
// the same slot represent parallel subgroup offerings.
type ScheduleEntry struct {
	Room            string         `json:"room"`
	Subject         string         `json:"subject"`
	Type            string         `json:"type"`
	Weeks           WeekRange      `json:"weeks"`
	Teacher         Teacher        `json:"teacher"`
	Subgroup        int            `json:"subgroup,omitempty"`
	WeekParity      WeekParity     `json:"week_parity,omitempty"`
	Substitutions   []Substitution `json:"substitutions,omitempty"`
	Transfer        *TransferInfo  `json:"transfer,omitempty"`
	PossibleChanges bool           `json:"possible_changes,omitempty"`
}

// FullScheduleSlot is a numbered time window within a day.
type FullScheduleSlot struct {
	Number    int             `json:"number"`
	TimeStart Time            `json:"time_start"`
	TimeEnd   Time            `json:"time_end"`
	Entries   []ScheduleEntry `json:"entries"`
}

// DayKind tags the two day-record layouts the source publishes.
type DayKind int

const (
	// DayRecurring repeats every week of the semester on its weekday.
	DayRecurring DayKind = iota + 1
	// DayDated is a one-off session day pinned to an explicit date.
	DayDated
)

// FullScheduleDay is one day of a published grid. Recurring days carry only
// a weekday label; dated days additionally carry the calendar date.
type FullScheduleDay struct {
	Kind    DayKind            `json:"kind"`
	Weekday string             `json:"weekday"`
	Date    time.Time          `json:"date,omitempty"`
	Slots   []FullScheduleSlot `json:"slots"`
}

// RecurringDay builds a weekday-recurring day record.
func RecurringDay(weekday string, slots []FullScheduleSlot) FullScheduleDay {
	return FullScheduleDay{Kind: DayRecurring, Weekday: weekday, Slots: slots}
}

// DatedDay builds a one-off day record pinned to date.
func DatedDay(weekday string, date time.Time, slots []FullScheduleSlot) FullScheduleDay {
	return FullScheduleDay{Kind: DayDated, Weekday: weekday, Date: date, Slots: slots}
}

// LessonTime is a concrete date-anchored moment of a lesson boundary.
type LessonTime struct {
	Date    time.Time `json:"date"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
}

// Lesson is the materialized, date-bound projection of one entry within one
// slot. Lessons are computed on query and never persisted.
type Lesson struct {
	Number          int           `json:"number"`
	Start           LessonTime    `json:"start"`
	End             LessonTime    `json:"end"`
	Subject         string        `json:"subject"`
	Type            string        `json:"type"`
	Room            string        `json:"room"`
	Teacher         Teacher       `json:"teacher"`
	Weeks           WeekRange     `json:"weeks"`
	Subgroup        int           `json:"subgroup,omitempty"`
	WeekParity      WeekParity    `json:"week_parity,omitempty"`
	OriginalRoom    string        `json:"original_room,omitempty"`
	OriginalTeacher *Teacher      `json:"original_teacher,omitempty"`
	Transfer        *TransferInfo `json:"transfer,omitempty"`
	PossibleChanges bool          `json:"possible_changes,omitempty"`
}

// SemesterWeek is one week of a semester, Monday 00:00 through Sunday
// 23:59:59.999. Week indexes are 0-based.
type SemesterWeek struct {
	Week  int       `json:"week"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LessonTimeSlot is a row of the fixed per-institution slot timetable.
type LessonTimeSlot struct {
	Number int  `json:"number"`
	Start  Time `json:"start"`
	End    Time `json:"end"`
}

// Holiday is a fixed non-working calendar date.
type Holiday struct {
	Month int    `json:"month"`
	Day   int    `json:"day"`
	Name  string `json:"name"`
}

type Faculty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Profile   string `json:"profile,omitempty"`
}
