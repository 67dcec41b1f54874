package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/middleware"
	"github.com/noah-isme/study-planner-api/internal/service"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type availabilityServiceMock struct {
	resp        *dto.AvailabilityResponse
	err         error
	lastReq     dto.CalculateAvailabilityRequest
	lastStudent string
	lastQuery   dto.StudentAvailabilityQuery
	invalidated string
}

func (m *availabilityServiceMock) Calculate(ctx context.Context, req dto.CalculateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

func (m *availabilityServiceMock) CalculateForStudent(ctx context.Context, studentID string, query dto.StudentAvailabilityQuery) (*dto.AvailabilityResponse, error) {
	m.lastStudent = studentID
	m.lastQuery = query
	return m.resp, m.err
}

func (m *availabilityServiceMock) InvalidateStudent(ctx context.Context, studentID string) error {
	m.invalidated = studentID
	return m.err
}

func newJSONContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAvailabilityHandlerCalculate(t *testing.T) {
	mockSvc := &availabilityServiceMock{resp: &dto.AvailabilityResponse{CalculationID: "calc-1", Cached: true}}
	handler := NewAvailabilityHandler(mockSvc, nil)
	c, w := newJSONContext(http.MethodPost, "/availability/calculate", []byte(`{"periodStart":"2024-01-01","periodEnd":"2024-01-07"}`))

	handler.Calculate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-01-01", mockSvc.lastReq.PeriodStart)
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheHeader))

	var body struct {
		Data dto.AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "calc-1", body.Data.CalculationID)
}

func TestAvailabilityHandlerCalculateBadJSON(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{}, nil)
	c, w := newJSONContext(http.MethodPost, "/availability/calculate", []byte(`{"periodStart":`))

	handler.Calculate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerForStudent(t *testing.T) {
	mockSvc := &availabilityServiceMock{resp: &dto.AvailabilityResponse{CalculationID: "calc-2"}}
	handler := NewAvailabilityHandler(mockSvc, nil)
	c, w := newJSONContext(http.MethodGet, "/students/stu-1/availability?start=2024-01-01&end=2024-01-31", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}

	handler.ForStudent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", mockSvc.lastStudent)
	assert.Equal(t, "2024-01-31", mockSvc.lastQuery.End)
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
}

func TestAvailabilityHandlerForStudentNotFound(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}, nil)
	c, w := newJSONContext(http.MethodGet, "/students/ghost/availability?start=2024-01-01&end=2024-01-31", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.ForStudent(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityHandlerExport(t *testing.T) {
	mockSvc := &availabilityServiceMock{resp: &dto.AvailabilityResponse{PeriodStart: "2024-01-01", PeriodEnd: "2024-01-02"}}
	handler := NewAvailabilityHandler(mockSvc, service.NewExportService(zap.NewNop(), nil, nil))
	c, w := newJSONContext(http.MethodPost, "/availability/export?format=csv", []byte(`{"periodStart":"2024-01-01","periodEnd":"2024-01-02"}`))

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "availability_2024-01-01_2024-01-02.csv")
	assert.Contains(t, w.Body.String(), "Date,Weekday")
}

func TestAvailabilityHandlerExportUnknownFormat(t *testing.T) {
	mockSvc := &availabilityServiceMock{resp: &dto.AvailabilityResponse{}}
	handler := NewAvailabilityHandler(mockSvc, service.NewExportService(zap.NewNop(), nil, nil))
	c, w := newJSONContext(http.MethodGet, "/students/stu-1/availability/export?start=2024-01-01&end=2024-01-02&format=docx", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}

	handler.ExportForStudent(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerInvalidateStudent(t *testing.T) {
	mockSvc := &availabilityServiceMock{}
	handler := NewAvailabilityHandler(mockSvc, nil)
	c, w := newJSONContext(http.MethodDelete, "/students/stu-1/availability/cache", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}

	handler.InvalidateStudent(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "stu-1", mockSvc.invalidated)
}
