// Package filesource is a Provider over raw day-record files dropped by the
// scraping collaborator (or written by hand for local runs). Missing files
// map to ErrUnavailable and malformed ones to ErrParse, the same taxonomy a
// remote provider reports.
package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tt-service/internal/models"
	"tt-service/internal/source"
)

type Storage struct {
	dir string
}

func New(dir string) *Storage {
	return &Storage{dir: dir}
}

func (s *Storage) readJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, source.ErrUnavailable)
		}
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%s: %w: %v", path, source.ErrParse, err)
	}
	return nil
}

func (s *Storage) GroupSchedule(_ context.Context, groupID int64, period models.Period) ([]models.FullScheduleDay, error) {
	var days []models.FullScheduleDay
	path := filepath.Join(s.dir, fmt.Sprintf("schedule_%d_%d.json", groupID, period))
	if err := s.readJSON(path, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (s *Storage) CurrentPeriod(_ context.Context, groupID int64) (models.Period, error) {
	var period models.Period
	path := filepath.Join(s.dir, fmt.Sprintf("current_period_%d.json", groupID))
	if err := s.readJSON(path, &period); err != nil {
		return 0, err
	}
	return period, nil
}

func (s *Storage) Faculties(_ context.Context) ([]models.Faculty, error) {
	var faculties []models.Faculty
	if err := s.readJSON(filepath.Join(s.dir, "faculties.json"), &faculties); err != nil {
		return nil, err
	}
	return faculties, nil
}

func (s *Storage) GroupsForFaculty(_ context.Context, facultyID int64) ([]models.Group, error) {
	var groups []models.Group
	path := filepath.Join(s.dir, fmt.Sprintf("groups_%d.json", facultyID))
	if err := s.readJSON(path, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
