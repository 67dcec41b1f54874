package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-planner-api/internal/models"
)

// StudentScheduleRepository reads the stored study configuration of a student. It never writes.
type StudentScheduleRepository struct {
	db *sqlx.DB
}

// NewStudentScheduleRepository constructs a StudentScheduleRepository.
func NewStudentScheduleRepository(db *sqlx.DB) *StudentScheduleRepository {
	return &StudentScheduleRepository{db: db}
}

// FindStudent returns the student by id. sql.ErrNoRows is wrapped when the student does not exist.
func (r *StudentScheduleRepository) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, full_name, active, active_block_set_id, scheduler_mode, study_days, review_days, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, fmt.Errorf("find student %s: %w", id, err)
	}
	return &student, nil
}

// ListWeeklyBlocks returns the blocks of a block set ordered by weekday and start.
func (r *StudentScheduleRepository) ListWeeklyBlocks(ctx context.Context, blockSetID string) ([]models.WeeklyBlockRow, error) {
	const query = `SELECT id, day_of_week, start_time::text AS start_time, end_time::text AS end_time
        FROM weekly_blocks WHERE block_set_id = $1 ORDER BY day_of_week, start_time`
	var rows []models.WeeklyBlockRow
	if err := r.db.SelectContext(ctx, &rows, query, blockSetID); err != nil {
		return nil, fmt.Errorf("list weekly blocks: %w", err)
	}
	return rows, nil
}

// ListExclusions returns the student's exclusions within [start, end].
func (r *StudentScheduleRepository) ListExclusions(ctx context.Context, studentID string, start, end time.Time) ([]models.ExclusionRow, error) {
	const query = `SELECT id, exclusion_date, kind, reason
        FROM schedule_exclusions WHERE student_id = $1 AND exclusion_date BETWEEN $2 AND $3 ORDER BY exclusion_date, created_at`
	var rows []models.ExclusionRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, start, end); err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	return rows, nil
}

// ListAcademies returns the student's active academy commitments.
func (r *StudentScheduleRepository) ListAcademies(ctx context.Context, studentID string) ([]models.AcademyRow, error) {
	const query = `SELECT id, day_of_week, start_time::text AS start_time, end_time::text AS end_time, name, subject, travel_minutes
        FROM academy_commitments WHERE student_id = $1 AND active = TRUE ORDER BY day_of_week, start_time`
	var rows []models.AcademyRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list academy commitments: %w", err)
	}
	return rows, nil
}

// Load gathers everything needed to compute a period for the student.
func (r *StudentScheduleRepository) Load(ctx context.Context, studentID string, start, end time.Time) (*models.StudentSchedule, error) {
	student, err := r.FindStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	schedule := &models.StudentSchedule{Student: *student}
	if student.ActiveBlockSetID.Valid {
		if schedule.Blocks, err = r.ListWeeklyBlocks(ctx, student.ActiveBlockSetID.String); err != nil {
			return nil, err
		}
	}
	if schedule.Exclusions, err = r.ListExclusions(ctx, studentID, start, end); err != nil {
		return nil, err
	}
	if schedule.Academies, err = r.ListAcademies(ctx, studentID); err != nil {
		return nil, err
	}
	return schedule, nil
}
