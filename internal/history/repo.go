package history

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session has no runs to update.
var ErrNotFound = errors.New("search run not found")

// Repo persists search-run summaries.
type Repo interface {
	Create(ctx context.Context, run SearchRun) error
	// UpdateLatestMatch records match statistics on the session's most
	// recent run.
	UpdateLatestMatch(ctx context.Context, sessionID string, jobsMatched, topScore int) error
	// ListBySession returns runs for a session, newest first, with
	// limit/offset.
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]SearchRun, error)
}
