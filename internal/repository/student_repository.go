package repository

import (
	"context"
	"strconv"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StudentRepository is the data access contract for the students table.
type StudentRepository interface {
	ListPaginated(ctx context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int64, error)
	Create(ctx context.Context, s *model.Student) error
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a StudentRepository backed by PostgreSQL.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

// ListPaginated returns one page of students joined with their user rows,
// optionally narrowed to one school.
func (r *studentRepository) ListPaginated(ctx context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int64, error) {
	where := ""
	var args []any
	if filter.SchoolID != nil {
		where = ` WHERE s.school_id = $1`
		args = append(args, *filter.SchoolID)
	}

	countSQL := `SELECT COUNT(*) FROM students s` + where

	argIdx := len(args) + 1
	listSQL := `SELECT s.id, s.user_id, s.school_id, s.student_number, s.grade_level, s.enrolled_at, s.created_at,
		        u.email, u.first_name, u.last_name, u.enabled
		 FROM students s
		 JOIN users u ON u.id = s.user_id` + where +
		` ORDER BY s.created_at DESC, s.id LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	listArgs := append(append([]any{}, args...), limit, offset)

	return queryPage[model.Student](ctx, r.pool, countSQL, args, listSQL, listArgs, scanStudent)
}

// Create inserts s; s.UserID must reference an existing user.
func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (user_id, school_id, student_number, grade_level, enrolled_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.UserID, s.SchoolID, s.StudentNumber, s.GradeLevel, s.EnrolledAt,
	).Scan(&s.ID, &s.CreatedAt)
}

func scanStudent(row pgx.CollectableRow) (model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID, &s.UserID, &s.SchoolID, &s.StudentNumber, &s.GradeLevel, &s.EnrolledAt, &s.CreatedAt,
		&s.User.Email, &s.User.FirstName, &s.User.LastName, &s.User.Enabled,
	)
	return s, err
}
