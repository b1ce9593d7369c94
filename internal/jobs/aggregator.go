package jobs

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/telemetry"
)

// Aggregator fans a search out to the configured sources and merges the
// results into one deduplicated, recency-ordered list.
type Aggregator struct {
	client  *rapidClient
	sources map[string]Source
}

// NewAggregator builds the aggregator and its provider sources from one
// shared RapidAPI credential.
func NewAggregator(apiKey, jsearchHost string, timeout time.Duration, ratePerSecond float64) *Aggregator {
	client := newRapidClient(apiKey, timeout, ratePerSecond)
	return &Aggregator{
		client: client,
		sources: map[string]Source{
			SelectorGoogleJobs: NewJSearchSource(client, jsearchHost),
			SelectorLinkedIn:   NewLinkedInSource(client),
		},
	}
}

// ValidSelector reports whether the source selector names a known provider
// set.
func ValidSelector(selector string) bool {
	switch selector {
	case SelectorGoogleJobs, SelectorLinkedIn, SelectorAll:
		return true
	}
	return false
}

// Search runs the selected sources concurrently and merges their results.
// Source order is fixed so merging is deterministic regardless of which
// provider responds first.
func (a *Aggregator) Search(ctx context.Context, selector string, params SearchParams) ([]NormalizedJob, error) {
	if !a.client.configured() {
		return nil, ErrNotConfigured
	}

	selected := a.selected(selector)
	results := make([][]NormalizedJob, len(selected))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range selected {
		g.Go(func() error {
			jobs, err := src.Search(gctx, params)
			if err != nil {
				return err
			}
			results[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeResults(results)
	if params.RemoteOnly {
		merged = filterRemote(merged)
	}
	sortByDatePosted(merged)

	metrics.IncSearch()
	metrics.AddSearchJobsFound(len(merged))
	metrics.ObserveSearchDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("jobs.search.complete", map[string]any{
		"query":   params.Query,
		"source":  selector,
		"found":   len(merged),
		"took_ms": time.Since(start).Milliseconds(),
	})
	return merged, nil
}

func (a *Aggregator) selected(selector string) []Source {
	switch selector {
	case SelectorGoogleJobs:
		return []Source{a.sources[SelectorGoogleJobs]}
	case SelectorLinkedIn:
		return []Source{a.sources[SelectorLinkedIn]}
	default:
		return []Source{a.sources[SelectorGoogleJobs], a.sources[SelectorLinkedIn]}
	}
}

// mergeResults concatenates per-source slices and deduplicates by job ID.
// A later record with a repeated ID replaces the earlier one in place, so
// the freshest payload wins without reordering the list.
func mergeResults(results [][]NormalizedJob) []NormalizedJob {
	merged := make([]NormalizedJob, 0)
	index := make(map[string]int)
	for _, jobs := range results {
		for _, job := range jobs {
			if at, ok := index[job.ID]; ok {
				merged[at] = job
				continue
			}
			index[job.ID] = len(merged)
			merged = append(merged, job)
		}
	}
	return merged
}

func filterRemote(jobs []NormalizedJob) []NormalizedJob {
	out := make([]NormalizedJob, 0, len(jobs))
	for _, job := range jobs {
		if job.IsRemote || remoteByText(job) {
			out = append(out, job)
		}
	}
	return out
}

func remoteByText(job NormalizedJob) bool {
	return strings.Contains(strings.ToLower(job.Location), "remote") ||
		strings.Contains(strings.ToLower(job.Title), "remote")
}

// sortByDatePosted orders newest first. Records whose dates fail to parse
// compare equal, preserving their merged order.
func sortByDatePosted(jobs []NormalizedJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		ti, iok := parsePostedDate(jobs[i].DatePosted)
		tj, jok := parsePostedDate(jobs[j].DatePosted)
		if !iok || !jok {
			return false
		}
		return ti.After(tj)
	})
}

func parsePostedDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
