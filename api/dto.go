package api

import (
	"fmt"

	"tt-service/internal/models"
)

type TeacherDTO struct {
	Position string `json:"position,omitempty"`
	Degree   string `json:"degree,omitempty"`
	Name     string `json:"name"`
}

type TransferDTO struct {
	TargetDate string `json:"target_date"`
	FromDate   string `json:"from_date"`
	FromSlot   int    `json:"from_slot"`
	Subject    string `json:"subject"`
}

type LessonResponse struct {
	Number          int          `json:"number"`
	Date            string       `json:"date"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
	Subject         string       `json:"subject"`
	Type            string       `json:"type"`
	Room            string       `json:"room"`
	Teacher         TeacherDTO   `json:"teacher"`
	WeekFrom        int          `json:"week_from"`
	WeekTo          int          `json:"week_to"`
	Subgroup        int          `json:"subgroup,omitempty"`
	WeekParity      string       `json:"week_parity,omitempty"`
	OriginalRoom    string       `json:"original_room,omitempty"`
	OriginalTeacher *TeacherDTO  `json:"original_teacher,omitempty"`
	Transfer        *TransferDTO `json:"transfer,omitempty"`
	PossibleChanges bool         `json:"possible_changes,omitempty"`
}

type FacultyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GroupResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Profile   string `json:"profile,omitempty"`
}

type CacheExportResponse struct {
	Entries int `json:"entries"`
}

type CacheRestoreResponse struct {
	Restored int `json:"restored"`
}

const dateLayout = "2006-01-02"

func teacherDTO(t models.Teacher) TeacherDTO {
	return TeacherDTO{Position: t.Position, Degree: t.Degree, Name: t.Name}
}

// NewLesson flattens a materialized lesson into its transport shape.
func NewLesson(l models.Lesson) LessonResponse {
	resp := LessonResponse{
		Number:          l.Number,
		Date:            l.Start.Date.Format(dateLayout),
		Start:           fmt.Sprintf("%02d:%02d", l.Start.Hours, l.Start.Minutes),
		End:             fmt.Sprintf("%02d:%02d", l.End.Hours, l.End.Minutes),
		Subject:         l.Subject,
		Type:            l.Type,
		Room:            l.Room,
		Teacher:         teacherDTO(l.Teacher),
		WeekFrom:        l.Weeks.From,
		WeekTo:          l.Weeks.To,
		Subgroup:        l.Subgroup,
		WeekParity:      string(l.WeekParity),
		OriginalRoom:    l.OriginalRoom,
		PossibleChanges: l.PossibleChanges,
	}
	if l.OriginalTeacher != nil {
		t := teacherDTO(*l.OriginalTeacher)
		resp.OriginalTeacher = &t
	}
	if l.Transfer != nil {
		resp.Transfer = &TransferDTO{
			TargetDate: l.Transfer.TargetDate.Format(dateLayout),
			FromDate:   l.Transfer.FromDate.Format(dateLayout),
			FromSlot:   l.Transfer.FromSlot,
			Subject:    l.Transfer.Subject,
		}
	}
	return resp
}

// NewLessons maps a lesson list, yielding an empty (non-nil) slice for "no
// classes" so the JSON stays an array.
func NewLessons(lessons []models.Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, NewLesson(l))
	}
	return out
}
