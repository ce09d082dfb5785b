package calendar

import "tt-service/internal/models"

// Fixed bell schedules. Session grids publish only start times, so slot
// numbers are reconstructed by nearest start.
var higherEducationSlots = []models.LessonTimeSlot{
	{Number: 1, Start: models.Time{Hours: 8, Minutes: 20}, End: models.Time{Hours: 9, Minutes: 40}},
	{Number: 2, Start: models.Time{Hours: 9, Minutes: 50}, End: models.Time{Hours: 11, Minutes: 10}},
	{Number: 3, Start: models.Time{Hours: 11, Minutes: 40}, End: models.Time{Hours: 13, Minutes: 0}},
	{Number: 4, Start: models.Time{Hours: 13, Minutes: 30}, End: models.Time{Hours: 14, Minutes: 50}},
	{Number: 5, Start: models.Time{Hours: 15, Minutes: 0}, End: models.Time{Hours: 16, Minutes: 20}},
	{Number: 6, Start: models.Time{Hours: 16, Minutes: 40}, End: models.Time{Hours: 18, Minutes: 0}},
	{Number: 7, Start: models.Time{Hours: 18, Minutes: 10}, End: models.Time{Hours: 19, Minutes: 30}},
	{Number: 8, Start: models.Time{Hours: 19, Minutes: 40}, End: models.Time{Hours: 21, Minutes: 0}},
}

var vocationalEducationSlots = []models.LessonTimeSlot{
	{Number: 1, Start: models.Time{Hours: 8, Minutes: 10}, End: models.Time{Hours: 9, Minutes: 40}},
	{Number: 2, Start: models.Time{Hours: 9, Minutes: 55}, End: models.Time{Hours: 11, Minutes: 25}},
	{Number: 3, Start: models.Time{Hours: 11, Minutes: 55}, End: models.Time{Hours: 13, Minutes: 25}},
	{Number: 4, Start: models.Time{Hours: 13, Minutes: 40}, End: models.Time{Hours: 15, Minutes: 10}},
	{Number: 5, Start: models.Time{Hours: 15, Minutes: 25}, End: models.Time{Hours: 16, Minutes: 55}},
	{Number: 6, Start: models.Time{Hours: 17, Minutes: 10}, End: models.Time{Hours: 18, Minutes: 40}},
	{Number: 7, Start: models.Time{Hours: 18, Minutes: 55}, End: models.Time{Hours: 20, Minutes: 25}},
}

// TimeSlots returns the fixed bell schedule for the education type.
func TimeSlots(educationType models.EducationType) []models.LessonTimeSlot {
	if educationType == models.VocationalEducation {
		return vocationalEducationSlots
	}
	return higherEducationSlots
}

// LessonNumber resolves a wall-clock start time to the slot whose start is
// closest to it.
func LessonNumber(t models.Time, educationType models.EducationType) int {
	slots := TimeSlots(educationType)
	target := t.MinuteOfDay()

	closest := slots[0]
	minDiff := absInt(closest.Start.MinuteOfDay() - target)
	for _, slot := range slots[1:] {
		if diff := absInt(slot.Start.MinuteOfDay() - target); diff < minDiff {
			minDiff = diff
			closest = slot
		}
	}
	return closest.Number
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
