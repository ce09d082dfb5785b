// Package source defines the contract with the scraping/transport
// collaborator that produces raw day records from the remote timetable
// pages. The implementation (HTTP session, login, HTML extraction) lives
// outside this repository; the interface and the failure taxonomy are what
// this service depends on.
package source

import (
	"context"
	"errors"

	"tt-service/internal/models"
)

// Upstream failures stay typed so "no classes today" is never confused with
// "could not retrieve the schedule".
var (
	// ErrAuth means the remote rejected the session (login required or
	// expired).
	ErrAuth = errors.New("source: authentication failed")
	// ErrParse means the page was fetched but its markup did not match the
	// expected layout.
	ErrParse = errors.New("source: page parse failed")
	// ErrUnavailable means the remote could not be reached.
	ErrUnavailable = errors.New("source: upstream unavailable")
)

// Provider fetches raw, semi-structured timetable data. Implementations may
// block on network I/O and must honor ctx.
type Provider interface {
	// GroupSchedule returns the day-record list for a group in the given
	// period: weekday-labeled recurring days for semesters, date-labeled
	// one-off days for sessions. Period 0 requests whatever period the
	// remote currently serves.
	GroupSchedule(ctx context.Context, groupID int64, period models.Period) ([]models.FullScheduleDay, error)

	// CurrentPeriod returns the period the remote reports as active for
	// the group. It takes precedence over the date heuristic.
	CurrentPeriod(ctx context.Context, groupID int64) (models.Period, error)

	// Faculties returns the faculty list.
	Faculties(ctx context.Context) ([]models.Faculty, error)

	// GroupsForFaculty returns the groups of one faculty.
	GroupsForFaculty(ctx context.Context, facultyID int64) ([]models.Group, error)
}
