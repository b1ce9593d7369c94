package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"jobmatch-backend/internal/shared/telemetry"
)

// resultCeiling stops pagination once a source has gathered enough records.
const resultCeiling = 50

// JSearchSource queries the JSearch RapidAPI endpoint (Google Jobs index).
type JSearchSource struct {
	client *rapidClient
	host   string
}

// NewJSearchSource constructs a JSearchSource against the given RapidAPI host.
func NewJSearchSource(client *rapidClient, host string) *JSearchSource {
	if strings.TrimSpace(host) == "" {
		host = "jsearch.p.rapidapi.com"
	}
	return &JSearchSource{client: client, host: host}
}

func (s *JSearchSource) Name() string { return SourceGoogleJobs }

type jsearchJob struct {
	JobID          string `json:"job_id"`
	JobTitle       string `json:"job_title"`
	EmployerName   string `json:"employer_name"`
	JobCity        string `json:"job_city"`
	JobState       string `json:"job_state"`
	JobCountry     string `json:"job_country"`
	JobDescription string `json:"job_description"`
	JobApplyLink   string `json:"job_apply_link"`
	JobPostedAtUTC string `json:"job_posted_at_datetime_utc"`
}

type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

// Search pages through query variants until the result ceiling is reached.
// Provider errors are soft: log, move to the next page or variant.
func (s *JSearchSource) Search(ctx context.Context, params SearchParams) ([]NormalizedJob, error) {
	numPages := params.NumPages
	if numPages < 1 {
		numPages = 1
	}

	var collected []NormalizedJob
	seen := make(map[string]struct{})

variants:
	for _, searchQuery := range queryVariants(params.Query, params.Location) {
		if len(collected) >= resultCeiling {
			break
		}
		for page := 1; page <= numPages; page++ {
			if len(collected) >= resultCeiling {
				break variants
			}

			query := url.Values{}
			query.Set("query", searchQuery)
			query.Set("page", strconv.Itoa(page))

			body, status, err := s.client.get(ctx, s.host, "/search", query)
			if err != nil {
				if ctx.Err() != nil {
					return collected, ctx.Err()
				}
				telemetry.Error("jobs.jsearch.request_failed", map[string]any{
					"query": searchQuery,
					"page":  page,
					"err":   err.Error(),
				})
				continue
			}
			if status < 200 || status >= 300 {
				telemetry.Error("jobs.jsearch.bad_status", map[string]any{
					"query":  searchQuery,
					"page":   page,
					"status": status,
					"body":   truncateBody(body),
				})
				// A rejected query phrasing won't improve on later pages.
				if status == http.StatusBadRequest && page == 1 {
					continue variants
				}
				continue
			}

			var parsed jsearchResponse
			if err := json.Unmarshal(body, &parsed); err != nil {
				telemetry.Error("jobs.jsearch.parse_failed", map[string]any{
					"query": searchQuery,
					"page":  page,
					"err":   err.Error(),
				})
				continue
			}

			if len(parsed.Data) == 0 {
				continue variants
			}

			for _, raw := range parsed.Data {
				job, ok := normalizeJSearchJob(raw)
				if !ok {
					continue
				}
				if _, dup := seen[job.ID]; dup {
					continue
				}
				seen[job.ID] = struct{}{}
				collected = append(collected, job)
			}
		}
	}

	return collected, nil
}

// queryVariants yields increasingly explicit phrasings; broader ones first.
func queryVariants(query, location string) []string {
	clean := strings.TrimSpace(query)
	variants := []string{clean}
	if loc := strings.TrimSpace(location); loc != "" {
		variants = append(variants,
			fmt.Sprintf("%s in %s", clean, loc),
			fmt.Sprintf("%s jobs in %s", clean, loc),
		)
	}
	return variants
}

func normalizeJSearchJob(raw jsearchJob) (NormalizedJob, bool) {
	if strings.TrimSpace(raw.JobTitle) == "" || strings.TrimSpace(raw.EmployerName) == "" {
		return NormalizedJob{}, false
	}

	var locParts []string
	for _, part := range []string{raw.JobCity, raw.JobState, raw.JobCountry} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locParts = append(locParts, trimmed)
		}
	}
	location := strings.Join(locParts, ", ")
	if location == "" {
		location = locationUnspecified
	}

	id := strings.TrimSpace(raw.JobID)
	if id == "" {
		id = "google-" + uuid.NewString()
	}

	return NormalizedJob{
		ID:          id,
		Title:       raw.JobTitle,
		Company:     raw.EmployerName,
		Location:    location,
		Description: StripHTML(raw.JobDescription),
		ApplyURL:    raw.JobApplyLink,
		URL:         raw.JobApplyLink,
		Source:      SourceGoogleJobs,
		// The JSearch payload carries no reliable remote flag.
		IsRemote:   false,
		DatePosted: raw.JobPostedAtUTC,
	}, true
}

func truncateBody(body []byte) string {
	const limit = 200
	s := string(body)
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
