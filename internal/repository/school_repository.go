package repository

import (
	"context"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchoolRepository is the data access contract for the schools table.
type SchoolRepository interface {
	ListPaginated(ctx context.Context, limit, offset int) ([]model.School, int64, error)
	Create(ctx context.Context, s *model.School) error
}

type schoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository creates a SchoolRepository backed by PostgreSQL.
func NewSchoolRepository(pool *pgxpool.Pool) SchoolRepository {
	return &schoolRepository{pool: pool}
}

// ListPaginated returns one page of schools, newest first, with the exact total.
func (r *schoolRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.School, int64, error) {
	return queryPage[model.School](ctx, r.pool,
		`SELECT COUNT(*) FROM schools`, nil,
		`SELECT id, name, code, address, city, phone, email, active, created_at, updated_at
		 FROM schools
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`, []any{limit, offset},
		scanSchool,
	)
}

// Create inserts s and fills in its generated id and timestamps.
func (r *schoolRepository) Create(ctx context.Context, s *model.School) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schools (name, code, address, city, phone, email, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Code, s.Address, s.City, s.Phone, s.Email, s.Active,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func scanSchool(row pgx.CollectableRow) (model.School, error) {
	var s model.School
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Address, &s.City, &s.Phone, &s.Email, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
