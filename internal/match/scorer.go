package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/telemetry"
)

const (
	// batchSize bounds how many postings go into one scoring prompt.
	batchSize = 5
	// descriptionLimit caps per-job description text inside the prompt.
	descriptionLimit = 500
	// maxMatchedSkills caps how many overlapping skills survive per match.
	maxMatchedSkills = 4
	// maxConcurrentBatches bounds parallel scoring calls to the model.
	maxConcurrentBatches = 3
)

const scoreSystem = "You are an expert recruiter evaluating how well job postings fit a candidate. Respond only with valid JSON."

const scoreTemplate = `Score each job below for this candidate.

Candidate profile:
- Primary role: %s
- Skills: %s
- Experience level: %s
- Keywords: %s

Scoring rubric (0-100 total):
- Alignment between the candidate's primary role and the job title/duties: up to 30 points
- Skills overlap with the job requirements: up to 40 points
- Experience level fit: up to 20 points
- Keyword relevance: up to 10 points

Jobs:
%s

Return a JSON object: {"matches": [{"id": "<job id>", "matchScore": <0-100 integer>, "matchedSkills": ["<skill>", ...]}]}. Include every job exactly once. matchedSkills lists 2-4 of the candidate's skills, or close synonyms, that overlap with the job.`

// Scorer ranks job postings against a parsed resume using the language model.
type Scorer struct {
	LLM llm.Client
}

// Score ranks the given jobs against the resume, highest score first. Batches
// that fail to score drop out rather than failing the run.
func (s *Scorer) Score(ctx context.Context, parsed resume.ParsedResume, postings []jobs.NormalizedJob) ([]MatchedJob, error) {
	batches := splitBatches(postings)
	perBatch := make([][]MatchedJob, len(batches))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for i, batch := range batches {
		g.Go(func() error {
			matched, err := s.scoreBatch(gctx, parsed, batch)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if errors.Is(err, llm.ErrNotConfigured) {
					return err
				}
				metrics.IncMatchBatchFailed()
				telemetry.Error("match.batch_failed", map[string]any{
					"batch": i,
					"size":  len(batch),
					"err":   err.Error(),
				})
				return nil
			}
			perBatch[i] = matched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []MatchedJob
	for _, matched := range perBatch {
		all = append(all, matched...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].MatchScore > all[j].MatchScore
	})

	metrics.IncMatchRun()
	metrics.ObserveMatchDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("match.complete", map[string]any{
		"jobs":    len(postings),
		"matched": len(all),
		"took_ms": time.Since(start).Milliseconds(),
	})
	return all, nil
}

type batchMatch struct {
	ID            string   `json:"id"`
	MatchScore    float64  `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
}

type batchResponse struct {
	Matches []batchMatch `json:"matches"`
}

func (s *Scorer) scoreBatch(ctx context.Context, parsed resume.ParsedResume, batch []jobs.NormalizedJob) ([]MatchedJob, error) {
	raw, err := s.LLM.Complete(ctx, llm.Request{
		System: scoreSystem,
		Prompt: buildPrompt(parsed, batch),
	})
	if err != nil {
		return nil, err
	}

	var resp batchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse batch response: %w", err)
	}

	// Only jobs from this batch can be matched; the model sometimes invents
	// or repeats IDs.
	byID := make(map[string]jobs.NormalizedJob, len(batch))
	for _, job := range batch {
		byID[job.ID] = job
	}

	var out []MatchedJob
	seen := make(map[string]struct{}, len(batch))
	for _, m := range resp.Matches {
		job, ok := byID[m.ID]
		if !ok {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}

		skills := m.MatchedSkills
		if len(skills) > maxMatchedSkills {
			skills = skills[:maxMatchedSkills]
		}
		if skills == nil {
			skills = []string{}
		}
		out = append(out, MatchedJob{
			ID:            job.ID,
			Title:         job.Title,
			Company:       job.Company,
			Location:      job.Location,
			MatchScore:    clampScore(m.MatchScore),
			Source:        job.Source,
			URL:           job.URL,
			MatchedSkills: skills,
		})
	}
	return out, nil
}

func buildPrompt(parsed resume.ParsedResume, batch []jobs.NormalizedJob) string {
	var sb strings.Builder
	for i, job := range batch {
		desc := job.Description
		if len(desc) > descriptionLimit {
			desc = desc[:descriptionLimit]
		}
		fmt.Fprintf(&sb, "%d. id: %s\n   title: %s\n   company: %s\n   location: %s\n   description: %s\n",
			i+1, job.ID, job.Title, job.Company, job.Location, desc)
	}
	return fmt.Sprintf(scoreTemplate,
		parsed.PrimaryRole,
		strings.Join(parsed.Skills, ", "),
		parsed.ExperienceLevel,
		strings.Join(parsed.Keywords, ", "),
		sb.String(),
	)
}

func splitBatches(postings []jobs.NormalizedJob) [][]jobs.NormalizedJob {
	var batches [][]jobs.NormalizedJob
	for start := 0; start < len(postings); start += batchSize {
		end := start + batchSize
		if end > len(postings) {
			end = len(postings)
		}
		batches = append(batches, postings[start:end])
	}
	return batches
}

func clampScore(score float64) int {
	rounded := math.Round(score)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}
