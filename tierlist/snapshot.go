package tierlist

import "sort"

// SnapshotEntry is one placed candidate inside a snapshot. Pos is the
// zero-based index within the tier at the time the snapshot was taken.
type SnapshotEntry struct {
	CandidateID string
	Name        string
	Title       string
	ImageURL    string
	Pos         int
}

// Snapshot is a read-only projection of the tier partition. It is the one
// shape both consumers read: the submitter serializes ids and positions
// from it, the exporter renders names and avatars from it. Keeping a
// single constructor means the two can never disagree about ordering.
type Snapshot map[TierKey][]SnapshotEntry

// Snapshot projects the board's current tier partition. The bank is not
// part of a snapshot.
func (b *Board) Snapshot() Snapshot {
	snap := make(Snapshot, len(TierOrder))
	for _, k := range TierOrder {
		entries := make([]SnapshotEntry, 0, len(b.tiers[k]))
		for i, c := range b.tiers[k] {
			entries = append(entries, SnapshotEntry{
				CandidateID: c.ID,
				Name:        c.Name,
				Title:       c.Title,
				ImageURL:    c.ImageURL,
				Pos:         i,
			})
		}
		snap[k] = entries
	}
	return snap
}

// Placement is a stored (tier, candidate, position) triple, the shape a
// submission is persisted in.
type Placement struct {
	Tier        TierKey
	CandidateID string
	Pos         int
}

// SnapshotFromPlacements rebuilds a snapshot from stored placements,
// resolving display fields through byID. Entries are ordered by their
// stored position and re-indexed, so a snapshot rebuilt from a submission
// matches the one the submitting board produced. Placements referencing
// unknown candidates keep their id as the display name.
func SnapshotFromPlacements(placements []Placement, byID map[string]Candidate) Snapshot {
	snap := make(Snapshot, len(TierOrder))
	for _, k := range TierOrder {
		snap[k] = []SnapshotEntry{}
	}
	for _, p := range placements {
		k, ok := ParseTier(string(p.Tier))
		if !ok {
			continue
		}
		entry := SnapshotEntry{CandidateID: p.CandidateID, Name: p.CandidateID, Pos: p.Pos}
		if c, found := byID[p.CandidateID]; found {
			entry.Name = c.Name
			entry.Title = c.Title
			entry.ImageURL = c.ImageURL
		}
		snap[k] = append(snap[k], entry)
	}
	for _, k := range TierOrder {
		entries := snap[k]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Pos < entries[j].Pos })
		for i := range entries {
			entries[i].Pos = i
		}
	}
	return snap
}

// Placed counts candidates placed in any tier.
func (s Snapshot) Placed() int {
	n := 0
	for _, k := range TierOrder {
		n += len(s[k])
	}
	return n
}
