package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	// The applicant's user id. The JSON key keeps the original wire name.
	ApplicantID string    `json:"applicationId"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
	CoverLetter string    `json:"coverLetter"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"appliedAt"`

	// Joined on employer-facing reads, like populate("applicationId", "name email").
	ApplicantName  string `json:"applicantName,omitempty"`
	ApplicantEmail string `json:"applicantEmail,omitempty"`

	// Joined on jobseeker-facing reads (job summary fields).
	JobTitle    string `json:"jobTitle,omitempty"`
	JobLocation string `json:"jobLocation,omitempty"`
	JobType     string `json:"jobType,omitempty"`
	JobStatus   string `json:"jobStatus,omitempty"`

	// Job owner, fetched alongside the application for authorization checks.
	// Not serialized.
	JobEmployerID string `json:"-"`
}

var ErrNotFound = errors.New("application not found")

// at most one application per (job, applicant) pair.
var ErrAlreadyApplied = errors.New("already applied for this job")

type CreateApplicationRequest struct {
	JobID       string `json:"-"`
	ApplicantID string `json:"-"`
	ResumeURL   string `json:"resumeUrl" binding:"omitempty,url"`
	CoverLetter string `json:"coverLetter" binding:"required,min=1,max=10000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed accepted rejected"`
}

func NewFromCreateRequest(req CreateApplicationRequest) Application {
	return Application{
		ID:          uuid.NewString(),
		JobID:       req.JobID,
		ApplicantID: req.ApplicantID,
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
		Status:      StatusPending,
		AppliedAt:   time.Now().UTC(),
	}
}
