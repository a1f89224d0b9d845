package transfer

// PublishResult is the per-platform outcome of a publish call. It is
// returned to the caller and never persisted as its own row.
type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId"`
	URL     string `json:"url"`
}

// MultiPublishResult aggregates an orchestrated publish. Success is true
// when at least one platform landed; callers must inspect Results and
// Errors to know which.
type MultiPublishResult struct {
	Success bool                      `json:"success"`
	Results map[string]*PublishResult `json:"results"`
	Errors  []string                  `json:"errors"`
}
