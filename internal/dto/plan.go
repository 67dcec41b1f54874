package dto

import "github.com/noah-isme/study-planner-api/internal/allocator"

// SlotInput is a capacity-bearing slot.
type SlotInput struct {
	Index           *int `json:"index" validate:"required,min=0"`
	CapacityMinutes *int `json:"capacityMinutes" validate:"required,min=0"`
}

// ItemInput is a study item to place.
type ItemInput struct {
	ID              string `json:"id" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"min=1"`
}

// AllocateRequest asks for a best-fit placement of items into slots.
type AllocateRequest struct {
	Slots []SlotInput `json:"slots" validate:"required,min=1,dive"`
	Items []ItemInput `json:"items" validate:"omitempty,dive"`
}

// AllocateResponse reports where each item went.
type AllocateResponse struct {
	Assignments []allocator.Assignment `json:"assignments"`
	Unplaced    []string               `json:"unplaced"`
	Slots       []allocator.Slot       `json:"slots"`
}

// PlanEntryInput is a planned item on a date with clock bounds.
type PlanEntryInput struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Ref   string `json:"ref,omitempty"`
}

// PlanEntryView renders an entry with clock strings. End may read past 24:00 after a shift.
type PlanEntryView struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Ref   string `json:"ref,omitempty"`
}

// OverlapView is a detected conflict.
type OverlapView struct {
	Date           string        `json:"date"`
	A              PlanEntryView `json:"a"`
	B              PlanEntryView `json:"b"`
	OverlapMinutes int           `json:"overlapMinutes"`
}

// ValidateOverlapsRequest checks new items against committed ones and against each other.
type ValidateOverlapsRequest struct {
	NewItems []PlanEntryInput `json:"newItems" validate:"required,dive"`
	Existing []PlanEntryInput `json:"existing" validate:"omitempty,dive"`
}

// ValidateOverlapsResponse lists overlaps by source.
type ValidateOverlapsResponse struct {
	AgainstExisting []OverlapView `json:"againstExisting"`
	Internal        []OverlapView `json:"internal"`
	HasConflicts    bool          `json:"hasConflicts"`
}

// AdjustOverlapsRequest shifts new items past committed ones.
// SortCandidates orders new items by (date, start, position) before adjusting.
type AdjustOverlapsRequest struct {
	NewItems       []PlanEntryInput `json:"newItems" validate:"required,dive"`
	Existing       []PlanEntryInput `json:"existing" validate:"omitempty,dive"`
	MaxEndTime     string           `json:"maxEndTime,omitempty"`
	SortCandidates bool             `json:"sortCandidates,omitempty"`
}

// UnadjustableView names an item left overlapping or past the day bound.
type UnadjustableView struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// AdjustOverlapsResponse returns the adjusted items in processing order.
type AdjustOverlapsResponse struct {
	Items         []PlanEntryView    `json:"items"`
	AdjustedCount int                `json:"adjustedCount"`
	Unadjustable  []UnadjustableView `json:"unadjustable"`
}
