package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashp387/Job-Board/internal/config"
	"github.com/yashp387/Job-Board/internal/domain/job"
	"github.com/yashp387/Job-Board/internal/domain/user"
	"github.com/yashp387/Job-Board/internal/http/middlewares"
	"github.com/yashp387/Job-Board/internal/utils"
)

type JobsStore interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	List(ctx context.Context, filter job.ListJobsFilter) ([]job.Job, error)
	Search(ctx context.Context, filter job.SearchJobsFilter) ([]job.Job, error)
	GetByID(ctx context.Context, id string) (job.Job, error)
	Update(ctx context.Context, id string, req job.UpdateJobRequest) (job.Job, error)
	Delete(ctx context.Context, id string) error
}

type JobsHandler struct {
	repo JobsStore
}

func NewJobsHandler(repo JobsStore) *JobsHandler {
	return &JobsHandler{repo: repo}
}

// CreateJob persists a new listing for the authenticated employer. The
// employerId in the payload is ignored; the caller's identity wins.
func (h *JobsHandler) CreateJob(ctx *gin.Context) {
	var req job.CreateJobRequest

	if !BindJSON(ctx, &req) {
		return
	}

	employerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || employerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, job.NewFromCreateRequest(req, employerID))

	if err != nil {
		RespondInternal(ctx, "Could not create job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"msg": "Job posted successfully",
		"job": created,
	})
}

func (h *JobsHandler) ListJobs(ctx *gin.Context) {
	var filter job.ListJobsFilter

	strParam := func(name string) *string {
		if v := ctx.Query(name); v != "" {
			return &v
		}
		return nil
	}

	filter.Title = strParam("title")
	filter.Location = strParam("location")
	filter.Category = strParam("category")
	filter.JobType = strParam("jobType")
	filter.Status = strParam("status")

	for _, bound := range []struct {
		name string
		dest **float64
	}{
		{"minSalary", &filter.MinSalary},
		{"maxSalary", &filter.MaxSalary},
	} {
		raw := ctx.Query(bound.name)
		if raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondBadRequest(ctx, bound.name+" must be a number", nil)
			return
		}
		*bound.dest = &v
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	jobs, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list jobs")
		return
	}

	// an empty result set is a 404, per the product contract
	if len(jobs) == 0 {
		RespondNotFound(ctx, "No jobs found")
		return
	}

	ctx.JSON(http.StatusOK, jobs)
}

func (h *JobsHandler) SearchJobs(ctx *gin.Context) {
	var filter job.SearchJobsFilter

	strParam := func(name string) *string {
		if v := ctx.Query(name); v != "" {
			return &v
		}
		return nil
	}

	filter.Title = strParam("title")
	filter.Location = strParam("location")
	filter.Category = strParam("category")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	jobs, err := h.repo.Search(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not search jobs")
		return
	}

	if len(jobs) == 0 {
		RespondNotFound(ctx, "No jobs found")
		return
	}

	ctx.JSON(http.StatusOK, jobs)
}

func (h *JobsHandler) GetJobByID(ctx *gin.Context) {
	jobID := ctx.Param("id")

	if !utils.IsUUID(jobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.repo.GetByID(cctx, jobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		RespondInternal(ctx, "Could not fetch job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"job": j})
}

// loadOwnedJob fetches the job and enforces the owning-employer rule shared
// by update and delete.
func (h *JobsHandler) loadOwnedJob(ctx *gin.Context, cctx context.Context, jobID string) (job.Job, bool) {
	if !utils.IsUUID(jobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return job.Job{}, false
	}

	j, err := h.repo.GetByID(cctx, jobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return job.Job{}, false
		}
		RespondInternal(ctx, "Could not fetch job")
		return job.Job{}, false
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)
	callerRole, _ := middlewares.RoleFromContext(ctx)

	if callerRole != user.RoleEmployer || j.EmployerID != callerID {
		RespondForbidden(ctx, "forbidden", "You do not own this job posting")
		return job.Job{}, false
	}

	return j, true
}

func (h *JobsHandler) UpdateJob(ctx *gin.Context) {
	jobID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if _, ok := h.loadOwnedJob(ctx, cctx, jobID); !ok {
		return
	}

	var req job.UpdateJobRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.repo.Update(cctx, jobID, req)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		RespondInternal(ctx, "Could not update job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"job": updated})
}

func (h *JobsHandler) DeleteJob(ctx *gin.Context) {
	jobID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if _, ok := h.loadOwnedJob(ctx, cctx, jobID); !ok {
		return
	}

	err := h.repo.Delete(cctx, jobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		RespondInternal(ctx, "Could not delete job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Job deleted successfully"})
}
