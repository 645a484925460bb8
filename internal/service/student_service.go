package service

import (
	"context"
	"fmt"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/pagination"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
)

// StudentService handles student listing.
type StudentService struct {
	repo repository.StudentRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo repository.StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

// List returns one page of students, optionally narrowed by filter.
func (s *StudentService) List(ctx context.Context, filter model.StudentFilter, p pagination.Params) (pagination.Page[model.Student], error) {
	students, total, err := s.repo.ListPaginated(ctx, filter, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[model.Student]{}, fmt.Errorf("list students: %w", err)
	}
	return pagination.NewPage(students, total, p), nil
}
