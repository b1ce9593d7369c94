package history

import "time"

// SearchRun summarizes one search-and-match cycle for a browser session.
// Resume text and job payloads are never stored, only run statistics.
type SearchRun struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"-"`
	Query       string    `json:"query"`
	Location    string    `json:"location,omitempty"`
	Source      string    `json:"source"`
	RemoteOnly  bool      `json:"remoteOnly"`
	JobsFound   int       `json:"jobsFound"`
	JobsMatched int       `json:"jobsMatched"`
	TopScore    int       `json:"topScore"`
	CreatedAt   time.Time `json:"createdAt"`
}
