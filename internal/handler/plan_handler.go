package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-planner-api/internal/dto"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/response"
)

type planService interface {
	Allocate(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error)
	ValidateOverlaps(ctx context.Context, req dto.ValidateOverlapsRequest) (*dto.ValidateOverlapsResponse, error)
	AdjustOverlaps(ctx context.Context, req dto.AdjustOverlapsRequest) (*dto.AdjustOverlapsResponse, error)
}

// PlanHandler exposes slot allocation and overlap endpoints.
type PlanHandler struct {
	service planService
}

// NewPlanHandler constructs the handler.
func NewPlanHandler(service planService) *PlanHandler {
	return &PlanHandler{service: service}
}

// Allocate godoc
// @Summary Place study items into slots best-fit
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AllocateRequest true "Slots and items"
// @Success 200 {object} response.Envelope
// @Router /plans/allocate [post]
func (h *PlanHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	result, err := h.service.Allocate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ValidateOverlaps godoc
// @Summary Detect overlapping plan items
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.ValidateOverlapsRequest true "New and existing items"
// @Success 200 {object} response.Envelope
// @Router /plans/overlaps/validate [post]
func (h *PlanHandler) ValidateOverlaps(c *gin.Context) {
	var req dto.ValidateOverlapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid overlap payload"))
		return
	}
	result, err := h.service.ValidateOverlaps(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// AdjustOverlaps godoc
// @Summary Shift new plan items past existing ones
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AdjustOverlapsRequest true "New and existing items"
// @Success 200 {object} response.Envelope
// @Router /plans/overlaps/adjust [post]
func (h *PlanHandler) AdjustOverlaps(c *gin.Context) {
	var req dto.AdjustOverlapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid adjustment payload"))
		return
	}
	result, err := h.service.AdjustOverlaps(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
