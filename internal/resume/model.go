package resume

// ParsedResume is the structured interpretation of a resume produced by the
// model. It is created once per upload and never persisted.
type ParsedResume struct {
	PrimaryRole     string   `json:"primaryRole"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Keywords        []string `json:"keywords"`
}
