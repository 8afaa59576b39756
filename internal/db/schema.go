package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Idempotent DDL run at startup. The unique index on
// applications(job_id, applicant_id) backstops the duplicate-apply check.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('employer', 'jobseeker')),
		profile       JSONB,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_uniq ON users (email)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id                   UUID PRIMARY KEY,
		title                TEXT NOT NULL,
		description          TEXT NOT NULL,
		location             TEXT NOT NULL,
		category             TEXT NOT NULL,
		job_type             TEXT CHECK (job_type IN ('Full-time', 'Part-time', 'Contract', 'Internship', 'Remote')),
		requirements         TEXT[] NOT NULL DEFAULT '{}',
		salary               NUMERIC NOT NULL CHECK (salary >= 0),
		benefits             TEXT[] NOT NULL DEFAULT '{}',
		application_deadline TIMESTAMPTZ NOT NULL,
		status               TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
		employer_id          UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		applicants           UUID[] NOT NULL DEFAULT '{}',
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_employer_idx ON jobs (employer_id)`,

	`CREATE TABLE IF NOT EXISTS applications (
		id           UUID PRIMARY KEY,
		job_id       UUID NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
		applicant_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		resume_url   TEXT,
		cover_letter TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'reviewed', 'accepted', 'rejected')),
		applied_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_job_applicant_uniq ON applications (job_id, applicant_id)`,
	`CREATE INDEX IF NOT EXISTS applications_applicant_idx ON applications (applicant_id)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
