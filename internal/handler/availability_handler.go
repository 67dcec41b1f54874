package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/middleware"
	"github.com/noah-isme/study-planner-api/internal/service"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/response"
)

type availabilityService interface {
	Calculate(ctx context.Context, req dto.CalculateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	CalculateForStudent(ctx context.Context, studentID string, query dto.StudentAvailabilityQuery) (*dto.AvailabilityResponse, error)
	InvalidateStudent(ctx context.Context, studentID string) error
}

type availabilityExporter interface {
	RenderAvailability(resp *dto.AvailabilityResponse, format string) (*service.ExportFile, error)
}

// AvailabilityHandler exposes study availability endpoints.
type AvailabilityHandler struct {
	service  availabilityService
	exporter availabilityExporter
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(service availabilityService, exporter availabilityExporter) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, exporter: exporter}
}

// Calculate godoc
// @Summary Calculate study availability for a period
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.CalculateAvailabilityRequest true "Period, weekly blocks, exclusions and academies"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/calculate [post]
func (h *AvailabilityHandler) Calculate(c *gin.Context) {
	var req dto.CalculateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	result, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export study availability as CSV or PDF
// @Tags Availability
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param payload body dto.CalculateAvailabilityRequest true "Period, weekly blocks, exclusions and academies"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /availability/export [post]
func (h *AvailabilityHandler) Export(c *gin.Context) {
	var req dto.CalculateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	result, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.attach(c, result)
}

// ForStudent godoc
// @Summary Calculate study availability from a student's stored configuration
// @Tags Availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/availability [get]
func (h *AvailabilityHandler) ForStudent(c *gin.Context) {
	result, ok := h.forStudent(c)
	if !ok {
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// ExportForStudent godoc
// @Summary Export a student's study availability as CSV or PDF
// @Tags Availability
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/{id}/availability/export [get]
func (h *AvailabilityHandler) ExportForStudent(c *gin.Context) {
	result, ok := h.forStudent(c)
	if !ok {
		return
	}
	h.attach(c, result)
}

// InvalidateStudent godoc
// @Summary Drop cached availability of a student
// @Tags Availability
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id}/availability/cache [delete]
func (h *AvailabilityHandler) InvalidateStudent(c *gin.Context) {
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return
	}
	if err := h.service.InvalidateStudent(c.Request.Context(), studentID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AvailabilityHandler) forStudent(c *gin.Context) (*dto.AvailabilityResponse, bool) {
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return nil, false
	}
	var query dto.StudentAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid period query"))
		return nil, false
	}
	result, err := h.service.CalculateForStudent(c.Request.Context(), studentID, query)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return result, true
}

func (h *AvailabilityHandler) attach(c *gin.Context, result *dto.AvailabilityResponse) {
	file, err := h.exporter.RenderAvailability(result, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Body)
}
