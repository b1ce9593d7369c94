package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores search runs in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	bySession map[string][]SearchRun
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySession: make(map[string][]SearchRun)}
}

// Create stores the run.
func (r *MemoryRepo) Create(ctx context.Context, run SearchRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySession[run.SessionID] = append(r.bySession[run.SessionID], run)
	return nil
}

// UpdateLatestMatch records match statistics on the session's newest run.
func (r *MemoryRepo) UpdateLatestMatch(ctx context.Context, sessionID string, jobsMatched, topScore int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	runs := r.bySession[sessionID]
	if len(runs) == 0 {
		return ErrNotFound
	}
	latest := 0
	for i := range runs {
		if runs[i].CreatedAt.After(runs[latest].CreatedAt) {
			latest = i
		}
	}
	runs[latest].JobsMatched = jobsMatched
	runs[latest].TopScore = topScore
	return nil
}

// ListBySession returns runs for a session, newest first, with limit/offset.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]SearchRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	sessionRuns := r.bySession[sessionID]
	r.mu.RUnlock()

	if len(sessionRuns) == 0 || offset >= len(sessionRuns) {
		return []SearchRun{}, nil
	}

	runs := make([]SearchRun, len(sessionRuns))
	copy(runs, sessionRuns)
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	end := len(runs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return runs[offset:end], nil
}
