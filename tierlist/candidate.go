package tierlist

// Candidate is an entrant in a poll. Candidates are never created or
// destroyed during a session, only relocated between containers.
type Candidate struct {
	ID       string
	GroupID  string
	Category string
	Name     string
	Title    string
	ImageURL string
}

// Group is a named bucket candidates belong to. Exactly one group is
// selected at a time and filters which candidates appear in the bank.
type Group struct {
	ID   string
	Key  string
	Name string
}

// InGroup reports membership by GroupID, falling back to the legacy
// category key for candidates imported before groups existed.
func (c Candidate) InGroup(g Group) bool {
	if c.GroupID != "" {
		return c.GroupID == g.ID
	}
	return c.Category != "" && c.Category == g.Key
}
