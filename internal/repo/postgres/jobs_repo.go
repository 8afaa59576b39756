package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yashp387/Job-Board/internal/domain/job"
	"github.com/yashp387/Job-Board/internal/observability"
)

type JobsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewJobsRepo(pool *pgxpool.Pool, prom *observability.Prom) *JobsRepo {
	return &JobsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *JobsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const jobColumns = `j.id, j.title, j.description, j.location, j.category, j.job_type,
	j.requirements, j.salary, j.benefits, j.application_deadline, j.status,
	j.employer_id, j.applicants, j.created_at, j.updated_at`

func scanJob(row pgx.Row, j *job.Job, withEmployer bool) error {
	var jobType *string

	dest := []interface{}{
		&j.ID, &j.Title, &j.Description, &j.Location, &j.Category, &jobType,
		&j.Requirements, &j.Salary, &j.Benefits, &j.ApplicationDeadline, &j.Status,
		&j.EmployerID, &j.Applicants, &j.CreatedAt, &j.UpdatedAt,
	}

	if withEmployer {
		dest = append(dest, &j.EmployerName, &j.EmployerEmail)
	}

	if err := row.Scan(dest...); err != nil {
		return err
	}

	if jobType != nil {
		j.JobType = *jobType
	}

	return nil
}

func (r *JobsRepo) Create(ctx context.Context, j job.Job) (job.Job, error) {
	var jobType *string
	if j.JobType != "" {
		jobType = &j.JobType
	}

	err := r.observe("jobs.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO jobs (id, title, description, location, category, job_type,
				requirements, salary, benefits, application_deadline, status,
				employer_id, applicants, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			j.ID, j.Title, j.Description, j.Location, j.Category, jobType,
			j.Requirements, j.Salary, j.Benefits, j.ApplicationDeadline, j.Status,
			j.EmployerID, j.Applicants, j.CreatedAt, j.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return job.Job{}, err
	}

	return j, nil
}

// List returns jobs matching the filter, with the owning employer's
// name/email joined in. Title and location are case-insensitive substring
// matches; the salary bounds are inclusive on both ends.
func (r *JobsRepo) List(ctx context.Context, filter job.ListJobsFilter) (jobs []job.Job, err error) {
	baseQuery := `SELECT ` + jobColumns + `, u.name, u.email
	FROM jobs j
	JOIN users u ON u.id = j.employer_id`

	var conds []string
	var args []interface{}

	argsPosition := 1

	addCond := func(expr string, value interface{}) {
		conds = append(conds, fmt.Sprintf(expr, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if filter.Title != nil {
		addCond(`j.title ILIKE '%%' || $%d || '%%'`, *filter.Title)
	}
	if filter.Location != nil {
		addCond(`j.location ILIKE '%%' || $%d || '%%'`, *filter.Location)
	}
	if filter.Category != nil {
		addCond("j.category = $%d", *filter.Category)
	}
	if filter.JobType != nil {
		addCond("j.job_type = $%d", *filter.JobType)
	}
	if filter.Status != nil {
		addCond("j.status = $%d", *filter.Status)
	}
	if filter.MinSalary != nil {
		addCond("j.salary >= $%d", *filter.MinSalary)
	}
	if filter.MaxSalary != nil {
		addCond("j.salary <= $%d", *filter.MaxSalary)
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY j.created_at ASC, j.id ASC"

	var rows pgx.Rows

	err = r.observe("jobs.list", func() error {
		rows, err = r.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	jobs = make([]job.Job, 0)

	for rows.Next() {
		var j job.Job

		if e := scanJob(rows, &j, true); e != nil {
			err = e
			return
		}
		jobs = append(jobs, j)
	}

	err = rows.Err()

	return
}

// Search is the lighter public lookup: case-insensitive substring match on
// title, location and category, no employer join.
func (r *JobsRepo) Search(ctx context.Context, filter job.SearchJobsFilter) (jobs []job.Job, err error) {
	baseQuery := `SELECT ` + jobColumns + ` FROM jobs j`

	var conds []string
	var args []interface{}

	argsPosition := 1

	addCond := func(column string, value string) {
		conds = append(conds, fmt.Sprintf(`j.%s ILIKE '%%' || $%d || '%%'`, column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if filter.Title != nil {
		addCond("title", *filter.Title)
	}
	if filter.Location != nil {
		addCond("location", *filter.Location)
	}
	if filter.Category != nil {
		addCond("category", *filter.Category)
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY j.created_at ASC, j.id ASC"

	var rows pgx.Rows

	err = r.observe("jobs.search", func() error {
		rows, err = r.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	jobs = make([]job.Job, 0)

	for rows.Next() {
		var j job.Job

		if e := scanJob(rows, &j, false); e != nil {
			err = e
			return
		}
		jobs = append(jobs, j)
	}

	err = rows.Err()

	return
}

func (r *JobsRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	var j job.Job

	err := r.observe("jobs.get_by_id", func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT `+jobColumns+`, u.name, u.email
			 FROM jobs j
			 JOIN users u ON u.id = j.employer_id
			 WHERE j.id = $1`,
			id,
		)
		return scanJob(row, &j, true)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}

	return j, nil
}

// Update applies a partial patch. Ownership is the handler's concern; the
// employer_id column is never touched here.
func (r *JobsRepo) Update(ctx context.Context, id string, req job.UpdateJobRequest) (job.Job, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	argsPosition := 2

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Location != nil {
		addSet("location", *req.Location)
	}
	if req.Category != nil {
		addSet("category", *req.Category)
	}
	if req.JobType != nil {
		addSet("job_type", *req.JobType)
	}
	if req.Requirements != nil {
		addSet("requirements", req.Requirements)
	}
	if req.Salary != nil {
		addSet("salary", *req.Salary)
	}
	if req.Benefits != nil {
		addSet("benefits", req.Benefits)
	}
	if req.ApplicationDeadline != nil {
		addSet("application_deadline", *req.ApplicationDeadline)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}

	query := `UPDATE jobs j SET ` + strings.Join(sets, ", ") + `
		WHERE j.id = $1
		RETURNING ` + jobColumns

	var j job.Job

	err := r.observe("jobs.update", func() error {
		row := r.pool.QueryRow(ctx, query, args...)
		return scanJob(row, &j, false)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}

	return j, nil
}

func (r *JobsRepo) Delete(ctx context.Context, id string) (err error) {
	var tag pgconn.CommandTag

	err = r.observe("jobs.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = job.ErrNotFound
	}

	return
}
