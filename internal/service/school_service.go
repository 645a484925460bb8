package service

import (
	"context"
	"fmt"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/pagination"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
)

// SchoolService handles school listing.
type SchoolService struct {
	repo repository.SchoolRepository
}

// NewSchoolService creates a new SchoolService.
func NewSchoolService(repo repository.SchoolRepository) *SchoolService {
	return &SchoolService{repo: repo}
}

// List returns one page of schools with the exact total.
func (s *SchoolService) List(ctx context.Context, p pagination.Params) (pagination.Page[model.School], error) {
	schools, total, err := s.repo.ListPaginated(ctx, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[model.School]{}, fmt.Errorf("list schools: %w", err)
	}
	return pagination.NewPage(schools, total, p), nil
}
