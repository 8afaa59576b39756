package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yashp387/Job-Board/internal/domain/application"
	"github.com/yashp387/Job-Board/internal/observability"
)

type ApplicationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewApplicationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ApplicationsRepo {
	return &ApplicationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *ApplicationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create runs the duplicate check and the insert in one transaction; the
// unique index on (job_id, applicant_id) backstops the race between two
// concurrent applies for the same pair.
func (repo *ApplicationsRepo) Create(ctx context.Context, req application.CreateApplicationRequest) (app application.Application, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var exists bool

	err = repo.observe("applications.create.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE job_id = $1 AND applicant_id = $2
		)`, req.JobID, req.ApplicantID).Scan(&exists)
	})

	if err != nil {
		return
	}

	if exists {
		err = application.ErrAlreadyApplied
		return
	}

	app = application.NewFromCreateRequest(req)

	var resumeURL *string
	if app.ResumeURL != "" {
		resumeURL = &app.ResumeURL
	}

	err = repo.observe("applications.create.insert", func() error {
		_, e := tx.Exec(ctx, `
		INSERT INTO applications (id, job_id, applicant_id, resume_url, cover_letter, status, applied_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, app.ID, app.JobID, app.ApplicantID, resumeURL, app.CoverLetter, app.Status, app.AppliedAt)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "applications_job_applicant_uniq" {
			err = application.ErrAlreadyApplied
		}
		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		return
	}

	return
}

// ListByJob returns every application for a job with the applicant's
// name/email joined in. The job's existence is the handler's concern.
func (repo *ApplicationsRepo) ListByJob(ctx context.Context, jobID string) (apps []application.Application, err error) {
	var rows pgx.Rows

	err = repo.observe("applications.list_by_job", func() error {
		rows, err = repo.pool.Query(ctx,
			`SELECT a.id, a.job_id, a.applicant_id, COALESCE(a.resume_url, ''), a.cover_letter, a.status, a.applied_at,
				u.name, u.email
			 FROM applications a
			 JOIN users u ON u.id = a.applicant_id
			 WHERE a.job_id = $1
			 ORDER BY a.applied_at ASC, a.id ASC`,
			jobID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	apps = make([]application.Application, 0)

	for rows.Next() {
		var a application.Application

		e := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.ResumeURL, &a.CoverLetter, &a.Status, &a.AppliedAt,
			&a.ApplicantName, &a.ApplicantEmail)

		if e != nil {
			err = e
			return
		}
		apps = append(apps, a)
	}

	err = rows.Err()

	return
}

// ListByApplicant returns the caller's applications with job summary fields
// joined in.
func (repo *ApplicationsRepo) ListByApplicant(ctx context.Context, applicantID string) (apps []application.Application, err error) {
	var rows pgx.Rows

	err = repo.observe("applications.list_by_applicant", func() error {
		rows, err = repo.pool.Query(ctx,
			`SELECT a.id, a.job_id, a.applicant_id, COALESCE(a.resume_url, ''), a.cover_letter, a.status, a.applied_at,
				j.title, j.location, COALESCE(j.job_type, ''), j.status
			 FROM applications a
			 JOIN jobs j ON j.id = a.job_id
			 WHERE a.applicant_id = $1
			 ORDER BY a.applied_at ASC, a.id ASC`,
			applicantID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	apps = make([]application.Application, 0)

	for rows.Next() {
		var a application.Application

		e := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.ResumeURL, &a.CoverLetter, &a.Status, &a.AppliedAt,
			&a.JobTitle, &a.JobLocation, &a.JobType, &a.JobStatus)

		if e != nil {
			err = e
			return
		}
		apps = append(apps, a)
	}

	err = rows.Err()

	return
}

// GetByID fetches one application joined with its job's owner, so handlers
// can run ownership checks without a second query.
func (repo *ApplicationsRepo) GetByID(ctx context.Context, id string) (app application.Application, err error) {
	var a application.Application

	err = repo.observe("applications.get_by_id", func() error {
		return repo.pool.QueryRow(ctx,
			`SELECT a.id, a.job_id, a.applicant_id, COALESCE(a.resume_url, ''), a.cover_letter, a.status, a.applied_at,
				j.employer_id
			 FROM applications a
			 JOIN jobs j ON j.id = a.job_id
			 WHERE a.id = $1`,
			id,
		).Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.ResumeURL, &a.CoverLetter, &a.Status, &a.AppliedAt,
			&a.JobEmployerID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = application.ErrNotFound
			return
		}
		return
	}

	app = a
	return
}

func (repo *ApplicationsRepo) UpdateStatus(ctx context.Context, id, status string) (app application.Application, err error) {
	var a application.Application

	err = repo.observe("applications.update_status", func() error {
		return repo.pool.QueryRow(ctx,
			`UPDATE applications
			 SET status = $2
			 WHERE id = $1
			 RETURNING id, job_id, applicant_id, COALESCE(resume_url, ''), cover_letter, status, applied_at`,
			id, status,
		).Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.ResumeURL, &a.CoverLetter, &a.Status, &a.AppliedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = application.ErrNotFound
			return
		}
		return
	}

	app = a
	return
}

func (repo *ApplicationsRepo) Delete(ctx context.Context, id string) (err error) {
	var tag pgconn.CommandTag

	err = repo.observe("applications.delete", func() error {
		var e error
		tag, e = repo.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = application.ErrNotFound
	}

	return
}
