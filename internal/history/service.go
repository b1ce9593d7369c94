package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"jobmatch-backend/internal/shared/telemetry"
)

// Service records and lists per-session run summaries. Recording is
// best-effort: a storage failure is logged and never surfaces to the
// pipeline that triggered it.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RecordSearch stores a summary of one completed search.
func (s *Service) RecordSearch(ctx context.Context, sessionID, query, location, source string, remoteOnly bool, jobsFound int) {
	run := SearchRun{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Query:      query,
		Location:   location,
		Source:     source,
		RemoteOnly: remoteOnly,
		JobsFound:  jobsFound,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, run); err != nil {
		telemetry.Error("history.record_search_failed", map[string]any{
			"session_id": sessionID,
			"err":        err.Error(),
		})
	}
}

// RecordMatch attaches match statistics to the session's most recent run.
// Sessions that match without a recorded search are silently skipped.
func (s *Service) RecordMatch(ctx context.Context, sessionID string, jobsMatched, topScore int) {
	err := s.Repo.UpdateLatestMatch(ctx, sessionID, jobsMatched, topScore)
	if err != nil && !errors.Is(err, ErrNotFound) {
		telemetry.Error("history.record_match_failed", map[string]any{
			"session_id": sessionID,
			"err":        err.Error(),
		})
	}
}

// List returns the session's runs, newest first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]SearchRun, error) {
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}
