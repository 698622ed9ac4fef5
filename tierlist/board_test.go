package tierlist

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeGroupedCandidates() ([]Candidate, []Group) {
	groups := []Group{
		{ID: "gov", Key: "government", Name: "Government"},
		{ID: "sport", Key: "sports", Name: "Sports"},
	}

	var candidates []Candidate
	for i := 0; i < 6; i++ {
		candidates = append(candidates, Candidate{
			ID:      fmt.Sprintf("gov-%d", i),
			GroupID: "gov",
			Name:    fmt.Sprintf("Official %d", i),
		})
	}
	for i := 0; i < 4; i++ {
		candidates = append(candidates, Candidate{
			ID:      fmt.Sprintf("sport-%d", i),
			GroupID: "sport",
			Name:    fmt.Sprintf("Athlete %d", i),
		})
	}
	// Legacy row matched through the group key, not a group id.
	candidates = append(candidates, Candidate{ID: "legacy-1", Category: "government", Name: "Legacy Official"})
	return candidates, groups
}

// assertPartition checks the single-container invariant: every expected id
// lives in exactly one of bank/S..F, nothing duplicated, nothing lost.
func assertPartition(t *testing.T, b *Board, expected []string) {
	t.Helper()

	seen := make(map[string]int)
	for _, c := range b.Bank() {
		seen[c.ID]++
	}
	for _, k := range TierOrder {
		for _, c := range b.Tier(k) {
			seen[c.ID]++
		}
	}

	require.Len(t, seen, len(expected))
	for _, id := range expected {
		assert.Equal(t, 1, seen[id], "candidate %s should appear exactly once", id)
	}
}

func govIDs() []string {
	return []string{"gov-0", "gov-1", "gov-2", "gov-3", "gov-4", "gov-5", "legacy-1"}
}

func TestBoardMoves(t *testing.T) {
	t.Run("Happy path - moving between bank and tiers preserves the partition", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-0", TierSlot(TierS))
		b.MoveOne("gov-1", TierSlot(TierS))
		b.MoveOne("gov-2", TierSlot(TierB))
		b.MoveOne("gov-0", TierSlot(TierF))
		b.MoveOne("gov-2", SlotBank)

		assertPartition(t, b, govIDs())
		assert.Equal(t, []string{"gov-1"}, ids(b.Tier(TierS)))
		assert.Equal(t, []string{"gov-0"}, ids(b.Tier(TierF)))
	})

	t.Run("Move appends at the end of the target tier", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-3", TierSlot(TierA))
		b.MoveOne("gov-4", TierSlot(TierA))

		assert.Equal(t, []string{"gov-3", "gov-4"}, ids(b.Tier(TierA)))
	})

	t.Run("Moving an unknown id is a no-op", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")
		before := ids(b.Bank())

		b.MoveOne("nonexistent-id", TierSlot(TierS))

		assert.Equal(t, before, ids(b.Bank()))
		assertPartition(t, b, govIDs())
	})

	t.Run("MoveMany relocates a set atomically and clears the multi-selection", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ToggleSelect("gov-0")
		b.ToggleSelect("gov-1")
		b.MoveMany([]string{"gov-0", "gov-1", "missing"}, TierSlot(TierC))

		assert.Equal(t, []string{"gov-0", "gov-1"}, ids(b.Tier(TierC)))
		assert.Equal(t, SelectionNone, b.Selection().Mode)
		assert.Empty(t, b.Selection().Multi)
		assertPartition(t, b, govIDs())
	})
}

func TestBoardGroups(t *testing.T) {
	t.Run("Bank starts as the shuffled list filtered to the first group", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		assert.Equal(t, "gov", b.ActiveGroup())
		assert.ElementsMatch(t, govIDs(), ids(b.Bank()))

		// Bank order is the shuffle order filtered by group.
		shuffled := Shuffle(candidates, "seed")
		var want []string
		for _, c := range shuffled {
			if c.InGroup(groups[0]) {
				want = append(want, c.ID)
			}
		}
		assert.Equal(t, want, ids(b.Bank()))
	})

	t.Run("Switching groups wipes all tier assignments", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-0", TierSlot(TierS))
		b.MoveOne("gov-1", TierSlot(TierA))
		b.SelectGroup("sport")

		for _, k := range TierOrder {
			assert.Empty(t, b.Tier(k))
		}
		assert.ElementsMatch(t, []string{"sport-0", "sport-1", "sport-2", "sport-3"}, ids(b.Bank()))
		assert.Equal(t, SelectionNone, b.Selection().Mode)
	})

	t.Run("Re-selecting the current group is also a reset", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-0", TierSlot(TierS))
		b.SelectGroup("gov")

		assert.Empty(t, b.Tier(TierS))
		assert.ElementsMatch(t, govIDs(), ids(b.Bank()))
	})

	t.Run("Selecting an unknown group is a no-op", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-0", TierSlot(TierS))
		b.SelectGroup("unknown")

		assert.Equal(t, "gov", b.ActiveGroup())
		assert.Equal(t, []string{"gov-0"}, ids(b.Tier(TierS)))
	})

	t.Run("ResetAll returns everything to the bank", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-0", TierSlot(TierS))
		b.MoveOne("gov-1", TierSlot(TierF))
		b.ClickCandidate("gov-2", false, Anchor{X: 10, Y: 20})
		b.ResetAll()

		for _, k := range TierOrder {
			assert.Empty(t, b.Tier(k))
		}
		assert.ElementsMatch(t, govIDs(), ids(b.Bank()))
		assert.Equal(t, SelectionNone, b.Selection().Mode)
	})
}

func TestBoardSelection(t *testing.T) {
	t.Run("Plain click opens the popup anchored at the card", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ClickCandidate("gov-0", false, Anchor{X: 40, Y: 80, W: 120, H: 156})

		sel := b.Selection()
		assert.Equal(t, SelectionSingle, sel.Mode)
		assert.Equal(t, "gov-0", sel.CandidateID)
		assert.Equal(t, 40.0, sel.Anchor.X)
	})

	t.Run("Plain click on the selected card closes the popup", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ClickCandidate("gov-0", false, Anchor{})
		b.ClickCandidate("gov-0", false, Anchor{})

		assert.Equal(t, SelectionNone, b.Selection().Mode)
	})

	t.Run("Plain click on another card moves the popup", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ClickCandidate("gov-0", false, Anchor{X: 1})
		b.ClickCandidate("gov-1", false, Anchor{X: 2})

		sel := b.Selection()
		assert.Equal(t, SelectionSingle, sel.Mode)
		assert.Equal(t, "gov-1", sel.CandidateID)
		assert.Equal(t, 2.0, sel.Anchor.X)
	})

	t.Run("Modifier click toggles multi-select and closes the popup", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ClickCandidate("gov-0", false, Anchor{})
		b.ClickCandidate("gov-1", true, Anchor{})
		b.ClickCandidate("gov-2", true, Anchor{})

		sel := b.Selection()
		assert.Equal(t, SelectionMulti, sel.Mode)
		assert.Empty(t, sel.CandidateID)
		assert.Equal(t, []string{"gov-1", "gov-2"}, sel.Multi)
	})

	t.Run("Toggling an already selected id removes it", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ToggleSelect("gov-1")
		b.ToggleSelect("gov-2")
		b.ToggleSelect("gov-1")

		assert.Equal(t, []string{"gov-2"}, b.Selection().Multi)

		b.ToggleSelect("gov-2")
		assert.Equal(t, SelectionNone, b.Selection().Mode)
	})

	t.Run("Opening the popup clears multi-select", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ToggleSelect("gov-1")
		b.ClickCandidate("gov-0", false, Anchor{})

		sel := b.Selection()
		assert.Equal(t, SelectionSingle, sel.Mode)
		assert.Empty(t, sel.Multi)
	})

	t.Run("Clicking an unknown id does nothing", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.ClickCandidate("sport-0", false, Anchor{}) // not in the active group
		b.ClickCandidate("missing", true, Anchor{})

		assert.Equal(t, SelectionNone, b.Selection().Mode)
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("Happy path - snapshot mirrors tier order with positions", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-0", TierSlot(TierS))
		b.MoveOne("gov-1", TierSlot(TierS))
		b.MoveOne("gov-2", TierSlot(TierB))

		snap := b.Snapshot()
		require.Len(t, snap[TierS], 2)
		assert.Equal(t, "gov-0", snap[TierS][0].CandidateID)
		assert.Equal(t, 0, snap[TierS][0].Pos)
		assert.Equal(t, "gov-1", snap[TierS][1].CandidateID)
		assert.Equal(t, 1, snap[TierS][1].Pos)
		assert.Equal(t, 3, snap.Placed())
		assert.Empty(t, snap[TierF])
	})

	t.Run("Rebuilding from placements matches the board snapshot", func(t *testing.T) {
		candidates, groups := makeGroupedCandidates()
		b := NewBoard(candidates, groups, "seed")

		b.MoveOne("gov-2", TierSlot(TierA))
		b.MoveOne("gov-0", TierSlot(TierA))
		b.MoveOne("gov-4", TierSlot(TierF))

		byID := make(map[string]Candidate)
		for _, c := range candidates {
			byID[c.ID] = c
		}

		var placements []Placement
		for _, k := range TierOrder {
			for _, e := range b.Snapshot()[k] {
				placements = append(placements, Placement{Tier: k, CandidateID: e.CandidateID, Pos: e.Pos})
			}
		}

		rebuilt := SnapshotFromPlacements(placements, byID)
		assert.Equal(t, b.Snapshot(), rebuilt)
	})

	t.Run("Unknown candidates keep their id as name", func(t *testing.T) {
		snap := SnapshotFromPlacements(
			[]Placement{{Tier: TierS, CandidateID: "ghost", Pos: 0}},
			map[string]Candidate{},
		)

		require.Len(t, snap[TierS], 1)
		assert.Equal(t, "ghost", snap[TierS][0].Name)
	})

	t.Run("Placements are re-indexed by stored position", func(t *testing.T) {
		snap := SnapshotFromPlacements([]Placement{
			{Tier: TierS, CandidateID: "b", Pos: 5},
			{Tier: TierS, CandidateID: "a", Pos: 2},
		}, map[string]Candidate{})

		require.Len(t, snap[TierS], 2)
		assert.Equal(t, "a", snap[TierS][0].CandidateID)
		assert.Equal(t, 0, snap[TierS][0].Pos)
		assert.Equal(t, "b", snap[TierS][1].CandidateID)
		assert.Equal(t, 1, snap[TierS][1].Pos)
	})
}
