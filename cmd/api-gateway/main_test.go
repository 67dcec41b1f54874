package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/service"
	"github.com/noah-isme/study-planner-api/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "secret"},
		Planner: config.PlannerConfig{
			CampStudyHours:         "09:00-12:00",
			CampSelfStudyHours:     "13:00-18:00",
			LunchTime:              "12:00-13:00",
			DesignatedHolidayHours: "13:00-18:00",
			StudyDays:              6,
			ReviewDays:             1,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := newRouter(dependencies{cfg: testConfig(), logger: zap.NewNop(), metrics: service.NewMetricsService()})
	require.NoError(t, err)
	return r
}

func TestRouterServesCalculation(t *testing.T) {
	r := newTestRouter(t)
	body := []byte(`{"periodStart":"2024-01-01","periodEnd":"2024-01-07"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"REVIEW_DAY"`)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterStudentRoutesRequireStorage(t *testing.T) {
	r := newTestRouter(t)
	token, err := service.NewTokenService("secret", tokenIssuer).Issue("stu-1", models.RoleStudent, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/stu-1/availability?start=2024-01-01&end=2024-01-07", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/students/stu-2/availability?start=2024-01-01&end=2024-01-07", nil)
	other.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
