package models

// BoardResponse feeds a tier board client everything it needs to render:
// the groups and the selected group's candidates in the deterministic
// shuffle order for (poll, vote day).
type BoardResponse struct {
	Poll       PollResponse        `json:"poll"`
	VoteDay    string              `json:"voteDay"`
	Group      string              `json:"group"`
	Groups     []GroupResponse     `json:"groups"`
	Candidates []CandidateResponse `json:"candidates"`
}

type ResultEntry struct {
	CandidateID string         `json:"candidateId"`
	Name        string         `json:"name"`
	Score       int            `json:"score"`
	Placements  int            `json:"placements"`
	TierCounts  map[string]int `json:"tierCounts"`
}

type ResultsResponse struct {
	PollSlug    string        `json:"pollSlug"`
	Submissions int           `json:"submissions"`
	Results     []ResultEntry `json:"results"`
}
