package repository

import (
	"context"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository runs the count-only queries behind the dashboards.
type DashboardRepository interface {
	GlobalCounts(ctx context.Context) (*model.SuperAdminStats, error)
	SchoolCounts(ctx context.Context, schoolID uuid.UUID) (*model.SchoolAdminStats, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a DashboardRepository backed by PostgreSQL.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

// GlobalCounts fills the platform-wide metrics. Revenue is not computed.
func (r *dashboardRepository) GlobalCounts(ctx context.Context) (*model.SuperAdminStats, error) {
	stats := &model.SuperAdminStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM schools),
			(SELECT COUNT(*) FROM schools WHERE active),
			(SELECT COUNT(*) FROM subscriptions WHERE status = $1),
			(SELECT COUNT(*) FROM users)`,
		model.SubscriptionActive,
	).Scan(&stats.TotalSchools, &stats.ActiveSchools, &stats.ActiveSubscriptions, &stats.TotalUsers)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SchoolCounts fills the metrics scoped to one school. Attendance and fees are not computed.
func (r *dashboardRepository) SchoolCounts(ctx context.Context, schoolID uuid.UUID) (*model.SchoolAdminStats, error) {
	stats := &model.SchoolAdminStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students WHERE school_id = $1),
			(SELECT COUNT(*) FROM students s JOIN users u ON u.id = s.user_id WHERE s.school_id = $1 AND u.enabled),
			(SELECT COUNT(*) FROM users WHERE school_id = $1 AND role = $2),
			(SELECT COUNT(*) FROM users WHERE school_id = $1 AND role = $3)`,
		schoolID, model.RoleTeacher, model.RoleParent,
	).Scan(&stats.TotalStudents, &stats.ActiveStudents, &stats.TotalTeachers, &stats.TotalParents)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
