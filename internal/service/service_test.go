package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tt-service/internal/cache"
	"tt-service/internal/lock"
	"tt-service/internal/models"
	"tt-service/internal/source"
	"tt-service/pkg/response"
)

var testNow = time.Date(2025, time.October, 15, 12, 0, 0, 0, time.Local)

type fakeProvider struct {
	days          map[models.Period][]models.FullScheduleDay
	currentPeriod models.Period
	err           error
	periodErr     error

	scheduleCalls []models.Period
}

func (f *fakeProvider) GroupSchedule(_ context.Context, _ int64, period models.Period) ([]models.FullScheduleDay, error) {
	f.scheduleCalls = append(f.scheduleCalls, period)
	if f.err != nil {
		return nil, f.err
	}
	return f.days[period], nil
}

func (f *fakeProvider) CurrentPeriod(_ context.Context, _ int64) (models.Period, error) {
	if f.periodErr != nil {
		return 0, f.periodErr
	}
	return f.currentPeriod, nil
}

func (f *fakeProvider) Faculties(_ context.Context) ([]models.Faculty, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Faculty{{ID: 1, Name: "ФИВТ"}}, nil
}

func (f *fakeProvider) GroupsForFaculty(_ context.Context, _ int64) ([]models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Group{{ID: 42, Name: "ИВТ-21"}}, nil
}

type fakeSnapshots struct {
	saved  cache.Snapshot
	stored cache.Snapshot
}

func (f *fakeSnapshots) SaveSnapshot(_ context.Context, snapshot cache.Snapshot) error {
	f.saved = snapshot
	return nil
}

func (f *fakeSnapshots) LoadSnapshot(_ context.Context) (cache.Snapshot, error) {
	return f.stored, nil
}

// deniedLocker refuses every acquisition, as a held remote lock would.
type deniedLocker struct{}

func (deniedLocker) Lock(context.Context, string, time.Duration) (bool, error) { return false, nil }
func (deniedLocker) Unlock(context.Context, string) error                      { return nil }

func fallFixture() []models.FullScheduleDay {
	return []models.FullScheduleDay{
		models.RecurringDay("Среда", []models.FullScheduleSlot{
			{
				Number:    1,
				TimeStart: models.Time{Hours: 8, Minutes: 20},
				TimeEnd:   models.Time{Hours: 9, Minutes: 40},
				Entries:   []models.ScheduleEntry{{Subject: "Математический анализ", Room: "401"}},
			},
		}),
	}
}

func testTTLs() cache.Config {
	return cache.Config{
		CategorySchedule:      time.Hour,
		CategoryFaculties:     cache.Forever,
		CategoryGroups:        cache.Forever,
		CategoryCurrentPeriod: time.Hour,
	}
}

func newTestService(provider source.Provider, snapshots SnapshotStore) *Service {
	return NewService(provider, cache.New(testTTLs()), lock.NewMemory(), snapshots, Options{
		Now: func() time.Time { return testNow },
	})
}

func TestGroupScheduleCaches(t *testing.T) {
	provider := &fakeProvider{days: map[models.Period][]models.FullScheduleDay{
		models.FallSemester: fallFixture(),
	}}
	s := newTestService(provider, nil)
	ctx := context.Background()

	first, err := s.GroupSchedule(ctx, 42, models.FallSemester)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.GroupSchedule(ctx, 42, models.FallSemester)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The second call was served from the cache.
	assert.Len(t, provider.scheduleCalls, 1)
}

func TestGroupScheduleHeldLock(t *testing.T) {
	provider := &fakeProvider{}
	s := NewService(provider, cache.New(testTTLs()), deniedLocker{}, nil, Options{
		Now: func() time.Time { return testNow },
	})

	_, err := s.GroupSchedule(context.Background(), 42, models.FallSemester)
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrLocked)
	assert.Empty(t, provider.scheduleCalls)
}

func TestGroupScheduleTypedErrorPassThrough(t *testing.T) {
	provider := &fakeProvider{err: source.ErrUnavailable}
	s := newTestService(provider, nil)

	_, err := s.GroupSchedule(context.Background(), 42, models.FallSemester)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrUnavailable)
}

func TestBuildScheduleSessionFetchesAdjacentSemester(t *testing.T) {
	provider := &fakeProvider{
		currentPeriod: models.WinterSession,
		days: map[models.Period][]models.FullScheduleDay{
			models.WinterSession: {},
			models.FallSemester:  fallFixture(),
		},
	}
	s := newTestService(provider, nil)

	_, err := s.BuildSchedule(context.Background(), 42, nil)
	require.NoError(t, err)

	assert.Equal(t, []models.Period{models.WinterSession, models.FallSemester}, provider.scheduleCalls)
}

func TestBuildScheduleFallsBackToDateHeuristic(t *testing.T) {
	provider := &fakeProvider{
		periodErr: source.ErrUnavailable,
		days: map[models.Period][]models.FullScheduleDay{
			models.FallSemester: fallFixture(),
		},
	}
	s := newTestService(provider, nil)

	// testNow is mid-October: the heuristic picks the fall semester.
	_, err := s.BuildSchedule(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.Period{models.FallSemester}, provider.scheduleCalls)
}

func TestBuildScheduleExplicitPeriodWins(t *testing.T) {
	provider := &fakeProvider{
		currentPeriod: models.FallSemester,
		days: map[models.Period][]models.FullScheduleDay{
			models.SpringSemester: {},
		},
	}
	s := newTestService(provider, nil)

	period := models.SpringSemester
	_, err := s.BuildSchedule(context.Background(), 42, &period)
	require.NoError(t, err)
	assert.Equal(t, []models.Period{models.SpringSemester}, provider.scheduleCalls)
}

func TestScheduleForDate(t *testing.T) {
	provider := &fakeProvider{
		currentPeriod: models.FallSemester,
		days: map[models.Period][]models.FullScheduleDay{
			models.FallSemester: fallFixture(),
		},
	}
	s := newTestService(provider, nil)

	// Wednesday, October 15 resolves through the recurring grid.
	lessons, err := s.ScheduleForDate(context.Background(), 42, testNow, 0, nil)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Математический анализ", lessons[0].Subject)
}

func TestFacultiesCached(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestService(provider, nil)
	ctx := context.Background()

	first, err := s.Faculties(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Poison the provider: the cached copy must still be served.
	provider.err = source.ErrUnavailable
	second, err := s.Faculties(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportRestoreRoundTrip(t *testing.T) {
	provider := &fakeProvider{
		currentPeriod: models.FallSemester,
		days: map[models.Period][]models.FullScheduleDay{
			models.FallSemester: fallFixture(),
		},
	}
	snapshots := &fakeSnapshots{}
	s := newTestService(provider, snapshots)
	ctx := context.Background()

	_, err := s.GroupSchedule(ctx, 42, models.FallSemester)
	require.NoError(t, err)

	snapshot, err := s.ExportCache(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot)
	assert.Equal(t, snapshot, snapshots.saved)

	// A fresh service restores the snapshot and serves from it without
	// touching the provider.
	fresh := newTestService(&fakeProvider{}, &fakeSnapshots{stored: snapshot})
	restored, err := fresh.RestoreCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(snapshot), restored)

	days, err := fresh.GroupSchedule(ctx, 42, models.FallSemester)
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestRestoreWithoutStore(t *testing.T) {
	s := newTestService(&fakeProvider{}, nil)

	_, err := s.RestoreCache(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestClearCache(t *testing.T) {
	provider := &fakeProvider{days: map[models.Period][]models.FullScheduleDay{
		models.FallSemester: fallFixture(),
	}}
	s := newTestService(provider, nil)
	ctx := context.Background()

	_, err := s.GroupSchedule(ctx, 42, models.FallSemester)
	require.NoError(t, err)

	s.ClearCache(CategorySchedule)

	_, err = s.GroupSchedule(ctx, 42, models.FallSemester)
	require.NoError(t, err)
	assert.Len(t, provider.scheduleCalls, 2)
}
