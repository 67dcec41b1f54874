package models

import (
	"database/sql"
	"time"
)

// Student is a learner with a stored study configuration.
type Student struct {
	ID               string         `db:"id" json:"id"`
	FullName         string         `db:"full_name" json:"full_name"`
	Active           bool           `db:"active" json:"active"`
	ActiveBlockSetID sql.NullString `db:"active_block_set_id" json:"-"`
	SchedulerMode    string         `db:"scheduler_mode" json:"scheduler_mode"`
	StudyDays        int            `db:"study_days" json:"study_days"`
	ReviewDays       int            `db:"review_days" json:"review_days"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// WeeklyBlockRow is a weekly block as stored. Times are "HH:mm" or "HH:mm:ss" text.
type WeeklyBlockRow struct {
	ID        string `db:"id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

// ExclusionRow is a dated exception as stored.
type ExclusionRow struct {
	ID     string         `db:"id"`
	Date   time.Time      `db:"exclusion_date"`
	Kind   string         `db:"kind"`
	Reason sql.NullString `db:"reason"`
}

// AcademyRow is a recurring academy commitment as stored. A NULL travel time takes the default.
type AcademyRow struct {
	ID            string         `db:"id"`
	DayOfWeek     int            `db:"day_of_week"`
	StartTime     string         `db:"start_time"`
	EndTime       string         `db:"end_time"`
	Name          sql.NullString `db:"name"`
	Subject       sql.NullString `db:"subject"`
	TravelMinutes sql.NullInt64  `db:"travel_minutes"`
}

// StudentSchedule bundles everything the planner needs about one student.
type StudentSchedule struct {
	Student    Student
	Blocks     []WeeklyBlockRow
	Exclusions []ExclusionRow
	Academies  []AcademyRow
}
