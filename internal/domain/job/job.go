package job

import (
	"errors"
	"time"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Job struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Location            string    `json:"location"`
	Category            string    `json:"category"`
	JobType             string    `json:"jobType,omitempty"`
	Requirements        []string  `json:"requirements"`
	Salary              float64   `json:"salary"`
	Benefits            []string  `json:"benefits,omitempty"`
	ApplicationDeadline time.Time `json:"applicationDeadline"`
	Status              string    `json:"status"`
	EmployerID          string    `json:"employerId"`
	// Present in the schema but never written by any operation.
	Applicants []string `json:"applicants"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Joined from the owning employer on reads, like the source's
	// populate("employerId", "name email").
	EmployerName  string `json:"employerName,omitempty"`
	EmployerEmail string `json:"employerEmail,omitempty"`
}

var ErrNotFound = errors.New("job not found")

type CreateJobRequest struct {
	Title               string    `json:"title" binding:"required,min=3,max=120"`
	Description         string    `json:"description" binding:"required,max=5000"`
	Location            string    `json:"location" binding:"required,min=2,max=120"`
	Category            string    `json:"category" binding:"required,min=2,max=80"`
	JobType             string    `json:"jobType" binding:"omitempty,oneof=Full-time Part-time Contract Internship Remote"`
	Requirements        []string  `json:"requirements" binding:"required,min=1,dive,max=300"`
	Salary              *float64  `json:"salary" binding:"required,gte=0"`
	Benefits            []string  `json:"benefits" binding:"omitempty,dive,max=300"`
	ApplicationDeadline time.Time `json:"applicationDeadline" binding:"required"`
	Status              string    `json:"status" binding:"omitempty,oneof=open closed"`
	// Ignored on input: the caller's identity is the only source of truth.
	EmployerID string `json:"employerId" binding:"-"`
}

type UpdateJobRequest struct {
	Title               *string    `json:"title" binding:"omitempty,min=3,max=120"`
	Description         *string    `json:"description" binding:"omitempty,max=5000"`
	Location            *string    `json:"location" binding:"omitempty,min=2,max=120"`
	Category            *string    `json:"category" binding:"omitempty,min=2,max=80"`
	JobType             *string    `json:"jobType" binding:"omitempty,oneof=Full-time Part-time Contract Internship Remote"`
	Requirements        []string   `json:"requirements" binding:"omitempty,dive,max=300"`
	Salary              *float64   `json:"salary" binding:"omitempty,gte=0"`
	Benefits            []string   `json:"benefits" binding:"omitempty,dive,max=300"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	Status              *string    `json:"status" binding:"omitempty,oneof=open closed"`
}

// with pointers if optional, it will be nil
type ListJobsFilter struct {
	Title     *string
	Location  *string
	Category  *string
	JobType   *string
	Status    *string
	MinSalary *float64
	MaxSalary *float64
}

type SearchJobsFilter struct {
	Title    *string
	Location *string
	Category *string
}
