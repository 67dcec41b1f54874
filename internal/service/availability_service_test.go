package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

type scheduleRepoStub struct {
	schedule *models.StudentSchedule
	err      error
	calls    int
}

func (s *scheduleRepoStub) Load(ctx context.Context, studentID string, start, end time.Time) (*models.StudentSchedule, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.schedule, nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func newAvailabilityServiceForTest(repo studentScheduleReader, cacheRepo CacheRepository) *AvailabilityService {
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, zap.NewNop(), cacheRepo != nil)
	return NewAvailabilityService(repo, cache, metrics, DefaultPlannerDefaults(), time.Minute, nil, zap.NewNop())
}

func assertAppCode(t *testing.T, err error, expected *appErrors.Error) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	assert.Equal(t, expected.Code, appErr.Code)
}

func TestAvailabilityServiceCyclicWeek(t *testing.T) {
	svc := newAvailabilityServiceForTest(nil, nil)

	resp, err := svc.Calculate(context.Background(), dto.CalculateAvailabilityRequest{
		PeriodStart: "2024-01-01",
		PeriodEnd:   "2024-01-07",
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	for _, day := range resp.Days[:6] {
		assert.Equal(t, models.DayTypeStudy, day.DayType)
	}
	assert.Equal(t, models.DayTypeReview, resp.Days[6].DayType)
	assert.Equal(t, 6, resp.Summary.DayTypeCounts[models.DayTypeStudy])
	assert.Equal(t, 1, resp.Summary.DayTypeCounts[models.DayTypeReview])
	assert.Equal(t, "2024-01-01", resp.PeriodStart)
	assert.Equal(t, "2024-01-07", resp.PeriodEnd)
	assert.NotEmpty(t, resp.CalculationID)
	assert.Empty(t, resp.Diagnostics)
	assert.False(t, resp.Cached)
}

func TestAvailabilityServiceBlocksLunchAndAcademy(t *testing.T) {
	svc := newAvailabilityServiceForTest(nil, nil)
	monday := 1
	travel := 30

	resp, err := svc.Calculate(context.Background(), dto.CalculateAvailabilityRequest{
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-01-01",
		WeeklyBlocks: []dto.WeeklyBlockInput{{DayOfWeek: &monday, Start: "09:00", End: "18:00"}},
		Academies: []dto.AcademyInput{
			{DayOfWeek: &monday, Start: "16:00", End: "18:00", Name: "Math Academy", Subject: "Math", TravelMinutes: &travel},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, []timerange.Range{
		timerange.MustParse("09:00", "12:00"),
		timerange.MustParse("13:00", "15:30"),
	}, resp.Days[0].AvailableRanges)
	assert.InDelta(t, 5.5, resp.Days[0].TotalHours, 1e-9)
	assert.Empty(t, resp.Diagnostics)
	require.Len(t, resp.Summary.Academy.Groups, 1)
	assert.Equal(t, 1, resp.Summary.Academy.TotalOccurrences)
	assert.InDelta(t, 60, resp.Summary.Academy.AverageTravelMinutes, 1e-9)
}

func TestAvailabilityServiceInvalidDatesBecomeDiagnostics(t *testing.T) {
	svc := newAvailabilityServiceForTest(nil, nil)

	resp, err := svc.Calculate(context.Background(), dto.CalculateAvailabilityRequest{
		PeriodStart: "2024-01-03",
		PeriodEnd:   "not-a-date",
		Exclusions:  []dto.ExclusionInput{{Date: "03/01/2024", Kind: "VACATION"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	codes := make([]models.DiagnosticCode, 0, len(resp.Diagnostics))
	for _, d := range resp.Diagnostics {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []models.DiagnosticCode{models.DiagnosticInvalidDate, models.DiagnosticInvalidDate}, codes)
}

func TestAvailabilityServiceWithoutPeriod(t *testing.T) {
	svc := newAvailabilityServiceForTest(nil, nil)

	resp, err := svc.Calculate(context.Background(), dto.CalculateAvailabilityRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
	assert.Equal(t, 0, resp.Summary.TotalDays)
	assert.Len(t, resp.Diagnostics, 2)
}

func TestAvailabilityServiceRejectsMalformedInput(t *testing.T) {
	svc := newAvailabilityServiceForTest(nil, nil)
	day := 9

	_, err := svc.Calculate(context.Background(), dto.CalculateAvailabilityRequest{
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-01-02",
		WeeklyBlocks: []dto.WeeklyBlockInput{{DayOfWeek: &day, Start: "09:00", End: "10:00"}},
	})
	assertAppCode(t, err, appErrors.ErrValidation)

	monday := 1
	_, err = svc.Calculate(context.Background(), dto.CalculateAvailabilityRequest{
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-01-02",
		WeeklyBlocks: []dto.WeeklyBlockInput{{DayOfWeek: &monday, Start: "18:00", End: "09:00"}},
	})
	assertAppCode(t, err, appErrors.ErrValidation)
}

func TestAvailabilityServiceCachesResults(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	svc := newAvailabilityServiceForTest(nil, cacheRepo)
	req := dto.CalculateAvailabilityRequest{PeriodStart: "2024-01-01", PeriodEnd: "2024-01-03"}

	first, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, cacheRepo.entries, 1)

	second, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.CalculationID, second.CalculationID)
	assert.Len(t, second.Days, 3)
}

func TestAvailabilityServiceForStudent(t *testing.T) {
	repo := &scheduleRepoStub{schedule: &models.StudentSchedule{
		Student: models.Student{ID: "stu-1", Active: true, SchedulerMode: "exclusions_only"},
		Blocks: []models.WeeklyBlockRow{
			{ID: "b1", DayOfWeek: 1, StartTime: "09:00:00", EndTime: "12:00:00"},
			{ID: "b2", DayOfWeek: 1, StartTime: "bad", EndTime: "12:00"},
		},
		Exclusions: []models.ExclusionRow{
			{ID: "x1", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Kind: "vacation"},
			{ID: "x2", Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Kind: "SABBATICAL"},
		},
		Academies: []models.AcademyRow{
			{ID: "a1", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Name: sql.NullString{String: "Eng", Valid: true}},
		},
	}}
	cacheRepo := newMemoryCacheRepo()
	svc := newAvailabilityServiceForTest(repo, cacheRepo)

	resp, err := svc.CalculateForStudent(context.Background(), "stu-1", dto.StudentAvailabilityQuery{Start: "2024-01-01", End: "2024-01-03"})
	require.NoError(t, err)
	require.Len(t, resp.Days, 3)
	assert.Equal(t, models.DayTypeStudy, resp.Days[0].DayType)
	assert.Nil(t, resp.Days[0].WeekNumber)
	assert.Equal(t, models.DayTypeVacation, resp.Days[1].DayType)
	assert.Equal(t, models.DayTypeStudy, resp.Days[2].DayType)

	// 10:00-11:00 class with the default one-hour travel blocks 09:00-12:00 entirely.
	assert.Empty(t, resp.Days[0].AvailableRanges)

	invalid := 0
	for _, d := range resp.Diagnostics {
		if d.Code == models.DiagnosticInvalidEntry {
			invalid++
		}
	}
	assert.Equal(t, 2, invalid)

	cached, err := svc.CalculateForStudent(context.Background(), "stu-1", dto.StudentAvailabilityQuery{Start: "2024-01-01", End: "2024-01-03"})
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Equal(t, 1, repo.calls)

	require.NoError(t, svc.InvalidateStudent(context.Background(), "stu-1"))
	assert.Empty(t, cacheRepo.entries)
}

func TestAvailabilityServiceForStudentErrors(t *testing.T) {
	query := dto.StudentAvailabilityQuery{Start: "2024-01-01", End: "2024-01-03"}

	_, err := newAvailabilityServiceForTest(nil, nil).CalculateForStudent(context.Background(), "stu-1", query)
	assertAppCode(t, err, appErrors.ErrUnavailable)

	missing := &scheduleRepoStub{err: sql.ErrNoRows}
	_, err = newAvailabilityServiceForTest(missing, nil).CalculateForStudent(context.Background(), "stu-1", query)
	assertAppCode(t, err, appErrors.ErrNotFound)

	inactive := &scheduleRepoStub{schedule: &models.StudentSchedule{Student: models.Student{ID: "stu-1"}}}
	_, err = newAvailabilityServiceForTest(inactive, nil).CalculateForStudent(context.Background(), "stu-1", query)
	assertAppCode(t, err, appErrors.ErrNotFound)

	broken := &scheduleRepoStub{err: errors.New("connection reset")}
	_, err = newAvailabilityServiceForTest(broken, nil).CalculateForStudent(context.Background(), "stu-1", query)
	assertAppCode(t, err, appErrors.ErrInternal)

	_, err = newAvailabilityServiceForTest(missing, nil).CalculateForStudent(context.Background(), "stu-1",
		dto.StudentAvailabilityQuery{Start: "2024-01-05", End: "2024-01-01"})
	assertAppCode(t, err, appErrors.ErrValidation)

	_, err = newAvailabilityServiceForTest(missing, nil).CalculateForStudent(context.Background(), "stu-1",
		dto.StudentAvailabilityQuery{Start: "yesterday", End: "2024-01-01"})
	assertAppCode(t, err, appErrors.ErrValidation)
}
