package jobs

// Source selector values accepted by the search endpoint.
const (
	SelectorGoogleJobs = "google-jobs"
	SelectorLinkedIn   = "linkedin"
	SelectorAll        = "all"
)

// Display names used in the Source field of normalized records.
const (
	SourceGoogleJobs = "Google Jobs"
	SourceLinkedIn   = "LinkedIn"
)

// locationUnspecified is the sentinel for records without geographic fields.
const locationUnspecified = "Location not specified"

// NormalizedJob is the canonical job-posting shape, independent of provider.
// JSON field names match the browser-facing wire format.
type NormalizedJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ApplyURL    string `json:"apply_url"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source"`
	IsRemote    bool   `json:"isRemote"`
	DatePosted  string `json:"datePosted,omitempty"`
}

// SearchParams carries one aggregation request.
type SearchParams struct {
	Query      string
	Location   string
	NumPages   int
	RemoteOnly bool
}
