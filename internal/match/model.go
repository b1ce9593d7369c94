package match

// MatchedJob is a job posting annotated with the model's fit assessment.
// JSON field names match the browser-facing wire format.
type MatchedJob struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	MatchScore    int      `json:"matchScore"`
	Source        string   `json:"source"`
	URL           string   `json:"url,omitempty"`
	MatchedSkills []string `json:"matchedSkills"`
}
