package model

import (
	"time"

	"github.com/google/uuid"
)

// Student is a student row joined with the owning user's identity fields.
type Student struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"userId"`
	SchoolID      uuid.UUID   `json:"schoolId"`
	StudentNumber string      `json:"studentNumber"`
	GradeLevel    *string     `json:"gradeLevel"`
	EnrolledAt    *time.Time  `json:"enrolledAt"`
	CreatedAt     time.Time   `json:"createdAt"`
	User          StudentUser `json:"user"`
}

// StudentUser is the subset of the users table embedded in a Student.
type StudentUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Enabled   bool   `json:"enabled"`
}

// StudentFilter narrows a student listing.
type StudentFilter struct {
	SchoolID *uuid.UUID
}
