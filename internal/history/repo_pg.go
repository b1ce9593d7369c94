package history

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new search run.
func (r *PGRepo) Create(ctx context.Context, run SearchRun) error {
	const query = `
INSERT INTO search_runs (
	id, session_id, query, location, source, remote_only, jobs_found, jobs_matched, top_score, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		run.ID,
		run.SessionID,
		run.Query,
		run.Location,
		run.Source,
		run.RemoteOnly,
		run.JobsFound,
		run.JobsMatched,
		run.TopScore,
		run.CreatedAt,
	)
	return err
}

// UpdateLatestMatch records match statistics on the session's newest run.
func (r *PGRepo) UpdateLatestMatch(ctx context.Context, sessionID string, jobsMatched, topScore int) error {
	const query = `
UPDATE search_runs
SET jobs_matched = $2, top_score = $3
WHERE id = (
	SELECT id FROM search_runs
	WHERE session_id = $1
	ORDER BY created_at DESC
	LIMIT 1
)`
	res, err := r.DB.ExecContext(ctx, query, sessionID, jobsMatched, topScore)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySession returns runs for a session, newest first, with limit/offset.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]SearchRun, error) {
	const query = `
SELECT id, session_id, query, location, source, remote_only, jobs_found, jobs_matched, top_score, created_at
FROM search_runs
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []SearchRun{}
	for rows.Next() {
		var run SearchRun
		if err := rows.Scan(
			&run.ID,
			&run.SessionID,
			&run.Query,
			&run.Location,
			&run.Source,
			&run.RemoteOnly,
			&run.JobsFound,
			&run.JobsMatched,
			&run.TopScore,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
