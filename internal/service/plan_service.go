package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/allocator"
	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/overlap"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

// PlanService places study items into slots and keeps planned items free of time conflicts.
type PlanService struct {
	metrics   *MetricsService
	maxEnd    int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs a PlanService. maxEnd is the default latest minute an adjusted
// item may end at; zero falls back to 23:59.
func NewPlanService(metrics *MetricsService, maxEnd int, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxEnd <= 0 {
		maxEnd = overlap.DefaultMaxEnd
	}
	return &PlanService{metrics: metrics, maxEnd: maxEnd, validator: validate, logger: logger}
}

// Allocate assigns items to slots best-fit in the given item order.
func (s *PlanService) Allocate(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}

	_, span := otel.Tracer(tracerName).Start(ctx, "allocator.BestFit")
	defer span.End()

	slots := make([]allocator.Slot, 0, len(req.Slots))
	seen := make(map[int]struct{}, len(req.Slots))
	for _, in := range req.Slots {
		if _, dup := seen[*in.Index]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate slot index")
		}
		seen[*in.Index] = struct{}{}
		slots = append(slots, allocator.Slot{Index: *in.Index, Capacity: *in.CapacityMinutes})
	}
	items := make([]allocator.Item, 0, len(req.Items))
	for _, in := range req.Items {
		items = append(items, allocator.Item{ID: in.ID, Duration: in.DurationMinutes})
	}

	result := allocator.BestFit(slots, items)
	span.SetAttributes(
		attribute.Int("allocator.slots", len(slots)),
		attribute.Int("allocator.placed", len(result.Assignments)),
		attribute.Int("allocator.unplaced", len(result.Unplaced)),
	)
	s.metrics.ObserveAllocation(len(result.Assignments), len(result.Unplaced))
	if len(result.Unplaced) > 0 {
		s.logger.Debug("items left unplaced", zap.Strings("items", result.Unplaced))
	}

	return &dto.AllocateResponse{
		Assignments: result.Assignments,
		Unplaced:    result.Unplaced,
		Slots:       result.Slots,
	}, nil
}

// ValidateOverlaps reports overlaps of new items against existing ones and among themselves.
func (s *PlanService) ValidateOverlaps(ctx context.Context, req dto.ValidateOverlapsRequest) (*dto.ValidateOverlapsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid overlap payload")
	}
	newItems, err := toEntries("newItems", req.NewItems)
	if err != nil {
		return nil, err
	}
	existing, err := toEntries("existing", req.Existing)
	if err != nil {
		return nil, err
	}

	against := toOverlapViews(overlap.ValidateAgainstExisting(newItems, existing))
	internal := toOverlapViews(overlap.ValidateInternal(newItems))
	return &dto.ValidateOverlapsResponse{
		AgainstExisting: against,
		Internal:        internal,
		HasConflicts:    len(against) > 0 || len(internal) > 0,
	}, nil
}

// AdjustOverlaps shifts new items past existing ones on the same date.
func (s *PlanService) AdjustOverlaps(ctx context.Context, req dto.AdjustOverlapsRequest) (*dto.AdjustOverlapsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid adjustment payload")
	}
	maxEnd := s.maxEnd
	if raw := strings.TrimSpace(req.MaxEndTime); raw != "" {
		parsed, err := timerange.ParseClock(raw)
		if err != nil {
			return nil, validationError(err, "maxEndTime %q is not a HH:mm clock", raw)
		}
		maxEnd = parsed
	}
	newItems, err := toEntries("newItems", req.NewItems)
	if err != nil {
		return nil, err
	}
	existing, err := toEntries("existing", req.Existing)
	if err != nil {
		return nil, err
	}
	if req.SortCandidates {
		newItems = overlap.SortCandidates(newItems)
	}

	_, span := otel.Tracer(tracerName).Start(ctx, "overlap.Adjust")
	defer span.End()

	adjustment := overlap.AdjustOverlaps(newItems, existing, maxEnd)
	span.SetAttributes(
		attribute.Int("overlap.adjusted", adjustment.AdjustedCount),
		attribute.Int("overlap.unadjustable", len(adjustment.Unadjustable)),
	)
	s.metrics.ObserveAdjustment(adjustment.AdjustedCount, len(adjustment.Unadjustable))

	resp := &dto.AdjustOverlapsResponse{
		Items:         make([]dto.PlanEntryView, 0, len(adjustment.Items)),
		AdjustedCount: adjustment.AdjustedCount,
		Unadjustable:  make([]dto.UnadjustableView, 0, len(adjustment.Unadjustable)),
	}
	for _, item := range adjustment.Items {
		resp.Items = append(resp.Items, toEntryView(item))
	}
	for _, u := range adjustment.Unadjustable {
		s.logger.Info("plan item could not be adjusted", zap.String("ref", u.Ref), zap.String("reason", u.Reason))
		resp.Unadjustable = append(resp.Unadjustable, dto.UnadjustableView{Ref: u.Ref, Reason: u.Reason})
	}
	return resp, nil
}

func toEntries(field string, inputs []dto.PlanEntryInput) ([]overlap.Entry, error) {
	entries := make([]overlap.Entry, 0, len(inputs))
	for i, in := range inputs {
		window, err := timerange.Parse(in.Start, in.End)
		if err != nil {
			return nil, validationError(err, "%s[%d] has an invalid time range %s-%s", field, i, in.Start, in.End)
		}
		entries = append(entries, overlap.Entry{
			Date:  strings.TrimSpace(in.Date),
			Start: window.Start,
			End:   window.End,
			Ref:   in.Ref,
		})
	}
	return entries, nil
}

func toEntryView(e overlap.Entry) dto.PlanEntryView {
	return dto.PlanEntryView{
		Date:  e.Date,
		Start: timerange.FormatMinutes(e.Start),
		End:   timerange.FormatMinutes(e.End),
		Ref:   e.Ref,
	}
}

func toOverlapViews(overlaps []overlap.Overlap) []dto.OverlapView {
	views := make([]dto.OverlapView, 0, len(overlaps))
	for _, o := range overlaps {
		views = append(views, dto.OverlapView{
			Date:           o.Date,
			A:              toEntryView(o.A),
			B:              toEntryView(o.B),
			OverlapMinutes: o.OverlapMinutes,
		})
	}
	return views
}
