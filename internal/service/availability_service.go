package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/planner"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

const (
	availabilityCacheNamespace = "availability"
	tracerName                 = "github.com/noah-isme/study-planner-api/internal/service"
)

type studentScheduleReader interface {
	Load(ctx context.Context, studentID string, start, end time.Time) (*models.StudentSchedule, error)
}

// AvailabilityService computes study availability for inline requests and stored students.
type AvailabilityService struct {
	students  studentScheduleReader
	cache     *CacheService
	metrics   *MetricsService
	defaults  PlannerDefaults
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService. students may be nil when no
// database is configured; stored-student lookups then fail with ErrUnavailable.
func NewAvailabilityService(students studentScheduleReader, cache *CacheService, metrics *MetricsService, defaults PlannerDefaults, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		students:  students,
		cache:     cache,
		metrics:   metrics,
		defaults:  defaults,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Calculate runs the engine over an inline request.
func (s *AvailabilityService) Calculate(ctx context.Context, req dto.CalculateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	cacheKey, keyErr := s.cache.Key(availabilityCacheNamespace, req)
	if keyErr == nil {
		var cached dto.AvailabilityResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	in, diags, err := inputFromRequest(req, s.defaults)
	if err != nil {
		return nil, err
	}
	start, end, ok, dateDiags := periodBounds(req.PeriodStart, req.PeriodEnd)
	diags = append(dateDiags, diags...)

	resp := s.run(ctx, in, start, end, ok, diags)
	if keyErr == nil {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	}
	return resp, nil
}

// CalculateForStudent loads a student's stored configuration and computes the requested period.
func (s *AvailabilityService) CalculateForStudent(ctx context.Context, studentID string, query dto.StudentAvailabilityQuery) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period")
	}
	if s.students == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "student storage is not configured")
	}

	start, end, _, _ := periodBounds(query.Start, query.End)
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start must not be after end")
	}

	cacheKey, keyErr := s.cache.Key(studentCacheNamespace(studentID), query)
	if keyErr == nil {
		var cached dto.AvailabilityResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	loadStart := time.Now()
	schedule, err := s.students.Load(ctx, studentID, start, end)
	s.metrics.ObserveDBQuery("load_student_schedule", time.Since(loadStart))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}
	if !schedule.Student.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	in, diags := inputFromSchedule(schedule, s.defaults)
	resp := s.run(ctx, in, start, end, true, diags)
	if keyErr == nil {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	}
	return resp, nil
}

// InvalidateStudent drops cached periods of a student after their stored data changed.
func (s *AvailabilityService) InvalidateStudent(ctx context.Context, studentID string) error {
	if err := s.cache.Invalidate(ctx, studentCacheNamespace(studentID)+":*"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate cache")
	}
	return nil
}

func studentCacheNamespace(studentID string) string {
	return availabilityCacheNamespace + ":student:" + studentID
}

func (s *AvailabilityService) run(ctx context.Context, in planner.Input, start, end time.Time, hasPeriod bool, diags []models.Diagnostic) *dto.AvailabilityResponse {
	_, span := otel.Tracer(tracerName).Start(ctx, "planner.Calculate")
	defer span.End()

	resp := &dto.AvailabilityResponse{CalculationID: uuid.NewString()}
	if !hasPeriod {
		resp.Summary = planner.Summarize(nil, nil)
		resp.Days = []models.DailyResult{}
		resp.Diagnostics = diags
		s.logger.Debug("availability skipped without a period", zap.Int("diagnostics", len(diags)))
		return resp
	}

	in.PeriodStart, in.PeriodEnd = start, end
	began := time.Now()
	result := planner.Calculate(in)
	elapsed := time.Since(began)

	resp.PeriodStart = planner.DateKey(planner.CivilDate(start))
	resp.PeriodEnd = planner.DateKey(planner.CivilDate(end))
	if start.After(end) {
		resp.PeriodStart, resp.PeriodEnd = resp.PeriodEnd, resp.PeriodStart
	}
	resp.Summary = result.Summary
	resp.Days = result.Days
	resp.Diagnostics = append(diags, result.Diagnostics...)
	if resp.Diagnostics == nil {
		resp.Diagnostics = []models.Diagnostic{}
	}

	span.SetAttributes(
		attribute.Int("planner.days", len(result.Days)),
		attribute.Int("planner.diagnostics", len(resp.Diagnostics)),
	)
	s.metrics.ObserveCalculation(result.Days, resp.Diagnostics, elapsed)

	for _, d := range resp.Diagnostics {
		if d.Code == models.DiagnosticTimelineDivergence {
			s.logger.Warn("timeline diverges from availability", zap.String("date", d.Date), zap.String("detail", d.Message))
		}
	}
	s.logger.Debug("availability calculated",
		zap.String("calculation_id", resp.CalculationID),
		zap.Int("days", len(result.Days)),
		zap.Int("diagnostics", len(resp.Diagnostics)),
		zap.Duration("elapsed", elapsed),
	)
	return resp
}
