package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashp387/Job-Board/internal/config"
	"github.com/yashp387/Job-Board/internal/domain/application"
	"github.com/yashp387/Job-Board/internal/domain/job"
	"github.com/yashp387/Job-Board/internal/domain/user"
	"github.com/yashp387/Job-Board/internal/http/middlewares"
	"github.com/yashp387/Job-Board/internal/utils"
)

type ApplicationsStore interface {
	Create(ctx context.Context, req application.CreateApplicationRequest) (application.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]application.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]application.Application, error)
	GetByID(ctx context.Context, id string) (application.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (application.Application, error)
	Delete(ctx context.Context, id string) error
}

type JobsGetter interface {
	GetByID(ctx context.Context, id string) (job.Job, error)
}

type ApplicationsHandler struct {
	repo ApplicationsStore
	jobs JobsGetter
}

func NewApplicationsHandler(repo ApplicationsStore, jobs JobsGetter) *ApplicationsHandler {
	return &ApplicationsHandler{
		repo: repo,
		jobs: jobs,
	}
}

// Apply submits a jobseeker's application to an open listing. The checks run
// in the source's order: id shape, job existence, role, duplicate.
func (h *ApplicationsHandler) Apply(ctx *gin.Context) {
	jobID := ctx.Param("id")

	if !utils.IsUUID(jobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if _, err := h.jobs.GetByID(cctx, jobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		RespondInternal(ctx, "Could not apply for job")
		return
	}

	callerRole, _ := middlewares.RoleFromContext(ctx)

	if callerRole != user.RoleJobseeker {
		RespondForbidden(ctx, "forbidden", "Only jobseekers can apply")
		return
	}

	var req application.CreateApplicationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)

	req.JobID = jobID
	req.ApplicantID = callerID

	app, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			RespondForbidden(ctx, "already_applied", "You have already applied for this job")
			return
		}
		RespondInternal(ctx, "Could not apply for job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"msg":         "Application submitted successfully",
		"application": app,
	})
}

// ListForJob returns every application for one of the caller's job postings.
func (h *ApplicationsHandler) ListForJob(ctx *gin.Context) {
	jobID := ctx.Param("id")

	if !utils.IsUUID(jobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	j, err := h.jobs.GetByID(cctx, jobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		RespondInternal(ctx, "Could not fetch applications")
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)

	if j.EmployerID != callerID {
		RespondForbidden(ctx, "forbidden", "You do not own this job posting")
		return
	}

	apps, err := h.repo.ListByJob(cctx, jobID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch applications")
		return
	}

	if len(apps) == 0 {
		RespondNotFound(ctx, "No applications found for this job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": apps})
}

// ListMine returns the authenticated jobseeker's applications with job
// summary fields joined in. The role gate lives on the route.
func (h *ApplicationsHandler) ListMine(ctx *gin.Context) {
	callerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || callerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	apps, err := h.repo.ListByApplicant(cctx, callerID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch applications")
		return
	}

	if len(apps) == 0 {
		RespondNotFound(ctx, "No job application found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": apps})
}

// UpdateStatus lets the employer owning the referenced job move an
// application through the lifecycle. Any of the four statuses is accepted as
// a target; there is no transition table.
func (h *ApplicationsHandler) UpdateStatus(ctx *gin.Context) {
	applicationID := ctx.Param("id")

	if !utils.IsUUID(applicationID) {
		RespondBadRequest(ctx, "application id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	app, err := h.repo.GetByID(cctx, applicationID)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not update application")
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)
	callerRole, _ := middlewares.RoleFromContext(ctx)

	if callerRole != user.RoleEmployer || app.JobEmployerID != callerID {
		RespondForbidden(ctx, "forbidden", "You do not own the job for this application")
		return
	}

	var req application.UpdateStatusRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.repo.UpdateStatus(cctx, applicationID, req.Status)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not update application")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": updated})
}

// DeleteApplication lets the applicant withdraw, unless the application has
// already been accepted.
func (h *ApplicationsHandler) DeleteApplication(ctx *gin.Context) {
	applicationID := ctx.Param("id")

	if !utils.IsUUID(applicationID) {
		RespondBadRequest(ctx, "application id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	app, err := h.repo.GetByID(cctx, applicationID)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not delete application")
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)

	if app.ApplicantID != callerID {
		RespondForbidden(ctx, "forbidden", "You did not submit this application")
		return
	}

	if app.Status == application.StatusAccepted {
		RespondError(ctx, http.StatusBadRequest, "invalid_state", "Cannot delete an accepted application", nil)
		return
	}

	err = h.repo.Delete(cctx, applicationID)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not delete application")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Application deleted successfully"})
}
