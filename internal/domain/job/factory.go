package job

import (
	"time"

	"github.com/google/uuid"
)

// A factory to build a Job from the incoming DTO. The employer id always
// comes from the authenticated caller, never from the payload.

func NewFromCreateRequest(req CreateJobRequest, employerID string) Job {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = StatusOpen
	}

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	benefits := req.Benefits
	if benefits == nil {
		benefits = []string{}
	}

	var salary float64
	if req.Salary != nil {
		salary = *req.Salary
	}

	return Job{
		ID:                  uuid.NewString(),
		Title:               req.Title,
		Description:         req.Description,
		Location:            req.Location,
		Category:            req.Category,
		JobType:             req.JobType,
		Requirements:        requirements,
		Salary:              salary,
		Benefits:            benefits,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              status,
		EmployerID:          employerID,
		Applicants:          []string{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
