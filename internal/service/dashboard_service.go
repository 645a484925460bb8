package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/google/uuid"
)

// ErrSchoolRequired is returned when a tenant dashboard is requested by a
// principal that belongs to no school.
var ErrSchoolRequired = errors.New("school id not found in user context")

// DashboardService assembles the dashboard aggregates.
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// SuperAdmin returns platform-wide counts.
func (s *DashboardService) SuperAdmin(ctx context.Context) (*model.SuperAdminStats, error) {
	stats, err := s.repo.GlobalCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("global counts: %w", err)
	}
	return stats, nil
}

// SchoolAdmin returns counts scoped to schoolID.
func (s *DashboardService) SchoolAdmin(ctx context.Context, schoolID *uuid.UUID) (*model.SchoolAdminStats, error) {
	if schoolID == nil || *schoolID == uuid.Nil {
		return nil, ErrSchoolRequired
	}
	stats, err := s.repo.SchoolCounts(ctx, *schoolID)
	if err != nil {
		return nil, fmt.Errorf("school counts: %w", err)
	}
	return stats, nil
}
