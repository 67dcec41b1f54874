package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/pkg/config"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

func TestPlannerDefaultsFromConfig(t *testing.T) {
	d, err := PlannerDefaultsFromConfig(config.PlannerConfig{
		CampStudyHours:       "08:30-12:00",
		CampSelfStudyHours:   "",
		LunchTime:            "12:00-12:45",
		StudyDays:            5,
		ReviewDays:           2,
		DefaultTravelMinutes: intPtr(20),
		AdjustMaxEndTime:     "22:00",
	})
	require.NoError(t, err)
	assert.Equal(t, timerange.MustParse("08:30", "12:00"), d.Options.CampStudyHours)
	assert.Nil(t, d.Options.CampSelfStudyHours)
	require.NotNil(t, d.Options.LunchTime)
	assert.Equal(t, 765, d.Options.LunchTime.End)
	assert.Equal(t, 5, d.Options.StudyDays)
	assert.Equal(t, 2, d.Options.ReviewDays)
	assert.Equal(t, 20, d.DefaultTravelMinutes)
	assert.Equal(t, 22*60, d.AdjustMaxEnd)
}

func TestPlannerDefaultsFromConfigRejectsBadWindows(t *testing.T) {
	_, err := PlannerDefaultsFromConfig(config.PlannerConfig{CampStudyHours: "noon"})
	assert.Error(t, err)

	_, err = PlannerDefaultsFromConfig(config.PlannerConfig{LunchTime: "13:00-12:00"})
	assert.Error(t, err)

	_, err = PlannerDefaultsFromConfig(config.PlannerConfig{AdjustMaxEndTime: "25:00"})
	assert.Error(t, err)

	_, err = PlannerDefaultsFromConfig(config.PlannerConfig{DefaultTravelMinutes: intPtr(-5)})
	assert.Error(t, err)
}

func TestPlannerDefaultsFromConfigTravelMinutes(t *testing.T) {
	d, err := PlannerDefaultsFromConfig(config.PlannerConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPlannerDefaults().DefaultTravelMinutes, d.DefaultTravelMinutes)

	d, err = PlannerDefaultsFromConfig(config.PlannerConfig{DefaultTravelMinutes: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, d.DefaultTravelMinutes)
}

func TestApplyOptionOverrides(t *testing.T) {
	base := DefaultPlannerDefaults().Options
	tolerance := 0
	reviewDays := 0
	studyDays := 4
	selfStudyOnHolidays := true

	opts, err := applyOptionOverrides(base, dto.CalculateAvailabilityRequest{
		SchedulerMode: "EXCLUSIONS_ONLY",
		StudyDays:     &studyDays,
		ReviewDays:    &reviewDays,
		Options: &dto.PlannerOptionsInput{
			DisableLunch:               true,
			SelfStudyOnHolidays:        &selfStudyOnHolidays,
			CrossCheckToleranceMinutes: &tolerance,
			CampStudyHours:             &dto.TimeWindow{Start: "10:00", End: "12:00"},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, "EXCLUSIONS_ONLY", opts.Mode)
	assert.Equal(t, 4, opts.StudyDays)
	assert.Equal(t, 0, opts.ReviewDays)
	assert.Nil(t, opts.LunchTime)
	assert.True(t, opts.SelfStudyOnHolidays)
	assert.Equal(t, 0, opts.CrossCheckToleranceMinutes)
	assert.Equal(t, 600, opts.CampStudyHours.Start)

	_, err = applyOptionOverrides(base, dto.CalculateAvailabilityRequest{
		Options: &dto.PlannerOptionsInput{LunchTime: &dto.TimeWindow{Start: "13:00", End: "12:00"}},
	})
	assert.Error(t, err)
}
