package models

type ResearchSource struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ResearchResult is the answer to a research query.
type ResearchResult struct {
	Summary string           `json:"summary"`
	Sources []ResearchSource `json:"sources"`
}
