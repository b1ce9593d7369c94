package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"jobmatch-backend/internal/shared/telemetry"
)

const linkedinHost = "active-jobs-db.p.rapidapi.com"

// LinkedInSource queries the Active-Jobs-DB RapidAPI endpoint, which indexes
// LinkedIn and ATS postings from the last seven days.
type LinkedInSource struct {
	client *rapidClient
	host   string
}

// NewLinkedInSource constructs a LinkedInSource.
func NewLinkedInSource(client *rapidClient) *LinkedInSource {
	return &LinkedInSource{client: client, host: linkedinHost}
}

func (s *LinkedInSource) Name() string { return SourceLinkedIn }

type linkedinJob struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Organization     string   `json:"organization"`
	LocationsDerived []string `json:"locations_derived"`
	DescriptionText  string   `json:"description_text"`
	URL              string   `json:"url"`
	DatePosted       string   `json:"date_posted"`
	RemoteDerived    bool     `json:"remote_derived"`
}

// Search issues a single request with a fixed result limit. Any provider
// failure degrades to an empty result.
func (s *LinkedInSource) Search(ctx context.Context, params SearchParams) ([]NormalizedJob, error) {
	query := url.Values{}
	query.Set("limit", "50")
	query.Set("offset", "0")
	query.Set("title_filter", fmt.Sprintf("%q", strings.TrimSpace(params.Query)))
	query.Set("description_type", "text")

	if loc := strings.TrimSpace(params.Location); loc != "" {
		query.Set("location_filter", fmt.Sprintf("%q", loc))
	}
	if params.RemoteOnly {
		query.Set("remote", "true")
	}

	body, status, err := s.client.get(ctx, s.host, "/active-ats-7d", query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		telemetry.Error("jobs.linkedin.request_failed", map[string]any{
			"query": params.Query,
			"err":   err.Error(),
		})
		return nil, nil
	}
	if status < 200 || status >= 300 {
		telemetry.Error("jobs.linkedin.bad_status", map[string]any{
			"query":  params.Query,
			"status": status,
			"body":   truncateBody(body),
		})
		return nil, nil
	}

	var parsed []linkedinJob
	if err := json.Unmarshal(body, &parsed); err != nil {
		telemetry.Error("jobs.linkedin.parse_failed", map[string]any{
			"query": params.Query,
			"err":   err.Error(),
		})
		return nil, nil
	}

	if len(parsed) > resultCeiling {
		parsed = parsed[:resultCeiling]
	}

	var out []NormalizedJob
	for _, raw := range parsed {
		if job, ok := normalizeLinkedInJob(raw); ok {
			out = append(out, job)
		}
	}
	return out, nil
}

func normalizeLinkedInJob(raw linkedinJob) (NormalizedJob, bool) {
	if strings.TrimSpace(raw.Title) == "" || strings.TrimSpace(raw.Organization) == "" {
		return NormalizedJob{}, false
	}

	location := locationUnspecified
	if len(raw.LocationsDerived) > 0 && strings.TrimSpace(raw.LocationsDerived[0]) != "" {
		location = raw.LocationsDerived[0]
	}

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = "linkedin-" + uuid.NewString()
	}

	return NormalizedJob{
		ID:          id,
		Title:       raw.Title,
		Company:     raw.Organization,
		Location:    location,
		Description: StripHTML(raw.DescriptionText),
		ApplyURL:    raw.URL,
		URL:         raw.URL,
		Source:      SourceLinkedIn,
		IsRemote:    raw.RemoteDerived,
		DatePosted:  raw.DatePosted,
	}, true
}
