package tierlist

// SelectionMode distinguishes the single "assign via popup" flow from the
// modifier-click multi-select flow. The two are mutually exclusive.
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionSingle
	SelectionMulti
)

// Anchor is the screen rectangle of the clicked card, used to position the
// tier picker popup. The board only stores it; an adapter interprets it.
type Anchor struct {
	X, Y, W, H float64
}

// Selection is a read-only view of the board's selection state.
type Selection struct {
	Mode        SelectionMode
	CandidateID string
	Anchor      Anchor
	Multi       []string
}

// Board owns the partition of candidates across the bank and the six
// tiers, plus the selection state. Every candidate of the active group's
// filtered set lives in exactly one container at all times. All operations
// are total: an unknown candidate or group id is a silent no-op.
//
// Board is not safe for concurrent use; it models a single event loop.
type Board struct {
	all         []Candidate
	groups      []Group
	activeGroup string

	bank  []Candidate
	tiers map[TierKey][]Candidate

	mode   SelectionMode
	single string
	anchor Anchor
	multi  []string
}

// NewBoard shuffles candidates with seedKey and selects the first group,
// if any. With no groups the bank holds the full shuffled list.
func NewBoard(candidates []Candidate, groups []Group, seedKey string) *Board {
	b := &Board{
		all:    Shuffle(candidates, seedKey),
		groups: groups,
		tiers:  emptyTiers(),
	}
	if len(groups) > 0 {
		b.SelectGroup(groups[0].ID)
	} else {
		b.bank = append([]Candidate(nil), b.all...)
	}
	return b
}

func emptyTiers() map[TierKey][]Candidate {
	tiers := make(map[TierKey][]Candidate, len(TierOrder))
	for _, k := range TierOrder {
		tiers[k] = nil
	}
	return tiers
}

// SelectGroup switches the active group: the bank becomes the shuffled
// candidate list filtered to that group, and all tiers and the selection
// are reset. Assignments are per-group and deliberately do not survive a
// switch, so a submission can never mix categories. Re-selecting the
// current group is a reset too.
func (b *Board) SelectGroup(groupID string) {
	var group *Group
	for i := range b.groups {
		if b.groups[i].ID == groupID {
			group = &b.groups[i]
			break
		}
	}
	if group == nil {
		return
	}

	b.activeGroup = group.ID
	b.bank = b.filteredBank()
	b.tiers = emptyTiers()
	b.clearSelection()
}

// filteredBank returns the shuffled list restricted to the active group.
func (b *Board) filteredBank() []Candidate {
	if b.activeGroup == "" {
		return append([]Candidate(nil), b.all...)
	}
	var group Group
	for _, g := range b.groups {
		if g.ID == b.activeGroup {
			group = g
			break
		}
	}
	bank := make([]Candidate, 0, len(b.all))
	for _, c := range b.all {
		if c.InGroup(group) {
			bank = append(bank, c)
		}
	}
	return bank
}

// MoveOne relocates a candidate to the target container, wherever it
// currently lives. Unknown ids are ignored.
func (b *Board) MoveOne(id string, target Slot) {
	c, found := b.remove(id)
	if !found {
		return
	}
	b.appendTo(target, c)
}

// MoveMany relocates a set of candidates atomically: every found candidate
// is removed first, then all are appended to the target in the order
// given. The multi-selection is cleared afterward.
func (b *Board) MoveMany(ids []string, target Slot) {
	moved := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if c, found := b.remove(id); found {
			moved = append(moved, c)
		}
	}
	for _, c := range moved {
		b.appendTo(target, c)
	}
	b.multi = nil
	if b.mode == SelectionMulti {
		b.mode = SelectionNone
	}
}

// ToggleSelect adds or removes a candidate from the multi-select set,
// closing the popup if one was open.
func (b *Board) ToggleSelect(id string) {
	if _, found := b.locate(id); !found {
		return
	}
	b.single = ""
	for i, existing := range b.multi {
		if existing == id {
			b.multi = append(b.multi[:i], b.multi[i+1:]...)
			if len(b.multi) == 0 {
				b.mode = SelectionNone
			}
			return
		}
	}
	b.multi = append(b.multi, id)
	b.mode = SelectionMulti
}

// ClickCandidate applies the click rules: a modifier-click toggles
// multi-select membership; a plain click on the popup-selected candidate
// closes the popup; a plain click on any other candidate opens the popup
// anchored at the clicked card.
func (b *Board) ClickCandidate(id string, modifier bool, anchor Anchor) {
	if _, found := b.locate(id); !found {
		return
	}
	if modifier {
		b.ToggleSelect(id)
		return
	}
	if b.mode == SelectionSingle && b.single == id {
		b.clearSelection()
		return
	}
	b.mode = SelectionSingle
	b.single = id
	b.anchor = anchor
	b.multi = nil
}

// ResetAll returns every candidate of the active group to the bank in
// shuffle order and clears the selection.
func (b *Board) ResetAll() {
	b.bank = b.filteredBank()
	b.tiers = emptyTiers()
	b.clearSelection()
}

func (b *Board) clearSelection() {
	b.mode = SelectionNone
	b.single = ""
	b.anchor = Anchor{}
	b.multi = nil
}

// remove takes a candidate out of whichever container holds it.
func (b *Board) remove(id string) (Candidate, bool) {
	for i, c := range b.bank {
		if c.ID == id {
			b.bank = append(b.bank[:i], b.bank[i+1:]...)
			return c, true
		}
	}
	for _, k := range TierOrder {
		for i, c := range b.tiers[k] {
			if c.ID == id {
				b.tiers[k] = append(b.tiers[k][:i], b.tiers[k][i+1:]...)
				return c, true
			}
		}
	}
	return Candidate{}, false
}

func (b *Board) appendTo(target Slot, c Candidate) {
	if target == SlotBank {
		b.bank = append(b.bank, c)
		return
	}
	if k, ok := ParseTier(string(target)); ok {
		b.tiers[k] = append(b.tiers[k], c)
		return
	}
	// Unknown target: put the candidate back in the bank rather than lose it.
	b.bank = append(b.bank, c)
}

func (b *Board) locate(id string) (Slot, bool) {
	for _, c := range b.bank {
		if c.ID == id {
			return SlotBank, true
		}
	}
	for _, k := range TierOrder {
		for _, c := range b.tiers[k] {
			if c.ID == id {
				return TierSlot(k), true
			}
		}
	}
	return "", false
}

// Locate reports which container currently holds a candidate.
func (b *Board) Locate(id string) (Slot, bool) {
	return b.locate(id)
}

// Bank returns a copy of the unassigned pool.
func (b *Board) Bank() []Candidate {
	return append([]Candidate(nil), b.bank...)
}

// Tier returns a copy of one tier's ordered candidate list.
func (b *Board) Tier(k TierKey) []Candidate {
	return append([]Candidate(nil), b.tiers[k]...)
}

// ActiveGroup returns the id of the selected group, or "" if there are no
// groups.
func (b *Board) ActiveGroup() string {
	return b.activeGroup
}

// PlacedCount counts candidates placed in any tier.
func (b *Board) PlacedCount() int {
	n := 0
	for _, k := range TierOrder {
		n += len(b.tiers[k])
	}
	return n
}

// Selection returns a copy of the current selection state.
func (b *Board) Selection() Selection {
	return Selection{
		Mode:        b.mode,
		CandidateID: b.single,
		Anchor:      b.anchor,
		Multi:       append([]string(nil), b.multi...),
	}
}
