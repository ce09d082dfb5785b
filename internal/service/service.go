package service

import (
	"context"
	"fmt"
	"time"

	"tt-service/internal/cache"
	"tt-service/internal/calendar"
	"tt-service/internal/lock"
	"tt-service/internal/models"
	"tt-service/internal/schedule"
	"tt-service/internal/source"
	"tt-service/pkg/response"
)

// Cache categories. A category missing from the cache config disables
// caching for the calls that use it.
const (
	CategorySchedule      = "schedule"
	CategoryFaculties     = "faculties"
	CategoryGroups        = "groups"
	CategoryCurrentPeriod = "current_period"
)

const fetchLockTTL = 10 * time.Second

// SnapshotStore persists cache snapshots across process runs.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot cache.Snapshot) error
	LoadSnapshot(ctx context.Context) (cache.Snapshot, error)
}

// Options tune schedule resolution for every request the service builds.
type Options struct {
	EducationType models.EducationType
	// Holidays: nil = default table, empty non-nil = suppression disabled.
	Holidays []models.Holiday
	// Now supplies the clock; defaults to time.Now.
	Now func() time.Time
}

// Service glues the fetch collaborator, the result cache, the fetch lock
// and the snapshot store together and hands out Schedule aggregates.
type Service struct {
	provider  source.Provider
	cache     *cache.Cache
	locker    lock.Locker
	snapshots SnapshotStore

	educationType models.EducationType
	holidays      []models.Holiday
	now           func() time.Time
}

func NewService(provider source.Provider, c *cache.Cache, locker lock.Locker, snapshots SnapshotStore, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	educationType := opts.EducationType
	if educationType == 0 {
		educationType = models.HigherEducation
	}

	return &Service{
		provider:      provider,
		cache:         c,
		locker:        locker,
		snapshots:     snapshots,
		educationType: educationType,
		holidays:      opts.Holidays,
		now:           now,
	}
}

// GroupSchedule returns the raw day records for a group and period, serving
// from the result cache when possible. A cache miss takes the per-key fetch
// lock so concurrent misses do not stampede the remote.
func (s *Service) GroupSchedule(ctx context.Context, groupID int64, period models.Period) ([]models.FullScheduleDay, error) {
	const op = "service.GroupSchedule"

	cacheKey := fmt.Sprintf("%d:%d", groupID, period)

	var days []models.FullScheduleDay
	if s.cache.Get(CategorySchedule, cacheKey, &days) {
		return days, nil
	}

	locked, err := s.locker.Lock(ctx, CategorySchedule+":"+cacheKey, fetchLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, CategorySchedule+":"+cacheKey)
	}()

	// Another process may have filled the cache while we waited for the lock.
	if s.cache.Get(CategorySchedule, cacheKey, &days) {
		return days, nil
	}

	days, err = s.provider.GroupSchedule(ctx, groupID, period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(CategorySchedule, cacheKey, days); err != nil {
		return nil, fmt.Errorf("%s: cache: %w", op, err)
	}
	return days, nil
}

// CurrentPeriod returns the period the remote reports as active for the
// group, cached per group.
func (s *Service) CurrentPeriod(ctx context.Context, groupID int64) (models.Period, error) {
	const op = "service.CurrentPeriod"

	cacheKey := fmt.Sprintf("%d", groupID)

	var period models.Period
	if s.cache.Get(CategoryCurrentPeriod, cacheKey, &period) {
		return period, nil
	}

	period, err := s.provider.CurrentPeriod(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(CategoryCurrentPeriod, cacheKey, period); err != nil {
		return 0, fmt.Errorf("%s: cache: %w", op, err)
	}
	return period, nil
}

// BuildSchedule assembles a Schedule aggregate for the group. An explicit
// period wins; otherwise the remote-reported period is used, falling back
// to the date heuristic when the remote cannot say. For a session the
// adjacent semester's recurring grid is fetched too, so date queries can
// merge both layouts.
func (s *Service) BuildSchedule(ctx context.Context, groupID int64, explicit *models.Period) (*schedule.Schedule, error) {
	const op = "service.BuildSchedule"

	var period models.Period
	switch {
	case explicit != nil:
		period = *explicit
	default:
		remote, err := s.CurrentPeriod(ctx, groupID)
		if err != nil {
			period = calendar.CurrentPeriod(s.now())
		} else {
			period = remote
		}
	}

	days := make(map[models.Period][]models.FullScheduleDay, 2)

	periodDays, err := s.GroupSchedule(ctx, groupID, period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	days[period] = periodDays

	if calendar.IsSessionPeriod(period) {
		semester := calendar.AdjacentSemester(period)
		semesterDays, err := s.GroupSchedule(ctx, groupID, semester)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		days[semester] = semesterDays
	}

	return schedule.New(groupID, days, schedule.Options{
		EducationType: s.educationType,
		Holidays:      s.holidays,
		Period:        &period,
		Now:           s.now,
	}), nil
}

func (s *Service) ScheduleForDate(ctx context.Context, groupID int64, date time.Time, subgroup int, period *models.Period) ([]models.Lesson, error) {
	sched, err := s.BuildSchedule(ctx, groupID, period)
	if err != nil {
		return nil, err
	}
	return sched.ForDate(date, subgroup), nil
}

func (s *Service) ScheduleForDay(ctx context.Context, groupID int64, weekday int, filter schedule.Filter, period *models.Period) ([]models.Lesson, error) {
	sched, err := s.BuildSchedule(ctx, groupID, period)
	if err != nil {
		return nil, err
	}
	return sched.ForDay(weekday, filter), nil
}

func (s *Service) ScheduleForWeek(ctx context.Context, groupID int64, week *int, subgroup int, period *models.Period) ([]models.Lesson, error) {
	sched, err := s.BuildSchedule(ctx, groupID, period)
	if err != nil {
		return nil, err
	}
	return sched.ForWeek(week, subgroup), nil
}

func (s *Service) CurrentLesson(ctx context.Context, groupID int64, subgroup int) (*models.Lesson, error) {
	sched, err := s.BuildSchedule(ctx, groupID, nil)
	if err != nil {
		return nil, err
	}
	return sched.CurrentLesson(subgroup), nil
}

// Faculties returns the faculty list, cached under a single key.
func (s *Service) Faculties(ctx context.Context) ([]models.Faculty, error) {
	const op = "service.Faculties"

	var faculties []models.Faculty
	if s.cache.Get(CategoryFaculties, "all", &faculties) {
		return faculties, nil
	}

	faculties, err := s.provider.Faculties(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(CategoryFaculties, "all", faculties); err != nil {
		return nil, fmt.Errorf("%s: cache: %w", op, err)
	}
	return faculties, nil
}

// GroupsForFaculty returns one faculty's groups, cached per faculty.
func (s *Service) GroupsForFaculty(ctx context.Context, facultyID int64) ([]models.Group, error) {
	const op = "service.GroupsForFaculty"

	cacheKey := fmt.Sprintf("%d", facultyID)

	var groups []models.Group
	if s.cache.Get(CategoryGroups, cacheKey, &groups) {
		return groups, nil
	}

	groups, err := s.provider.GroupsForFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(CategoryGroups, cacheKey, groups); err != nil {
		return nil, fmt.Errorf("%s: cache: %w", op, err)
	}
	return groups, nil
}

// ExportCache persists the current cache snapshot and returns it.
func (s *Service) ExportCache(ctx context.Context) (cache.Snapshot, error) {
	const op = "service.ExportCache"

	snapshot := s.cache.Export()
	if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return snapshot, nil
}

// RestoreCache rehydrates the cache from the persisted snapshot and returns
// the number of restored entries.
func (s *Service) RestoreCache(ctx context.Context) (int, error) {
	const op = "service.RestoreCache"

	if s.snapshots == nil {
		return 0, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	snapshot, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Import(snapshot)
	return len(snapshot), nil
}

// ClearCache clears one cache category, or everything when category is
// empty.
func (s *Service) ClearCache(category string) {
	s.cache.Clear(category)
}
